package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tsena-shop/tsena/internal/paging"
	"github.com/tsena-shop/tsena/internal/platform/db"
	"github.com/tsena-shop/tsena/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filter ListFilter, limit int) ([]Movement, error)
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// maxAttempts bounds the transparent retry on serialization conflicts.
const maxAttempts = 3

// Service coordinates the stock movement ledger. RecordMovement is the
// only writer of Product.Stock after creation; everything it writes goes
// through one repeatable-read transaction per attempt.
type Service struct {
	repo   RepositoryPort
	audit  AuditPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// RecordMovement atomically appends a movement and moves the product stock.
func (s *Service) RecordMovement(ctx context.Context, input RecordInput) (Receipt, error) {
	if input.ProductID == "" {
		return Receipt{}, errors.New("ledger: product id required")
	}
	if !input.Type.Valid() {
		return Receipt{}, ErrInvalidType
	}
	if input.Quantite <= 0 {
		return Receipt{}, ErrInvalidQuantity
	}
	if strings.TrimSpace(input.Motif) == "" {
		return Receipt{}, ErrMissingReason
	}
	if input.PrixUnitaire < 0 {
		return Receipt{}, errors.New("ledger: unit price must be >= 0")
	}

	var receipt Receipt
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		receipt, err = s.recordOnce(ctx, input)
		if err == nil {
			break
		}
		if !db.IsSerializationFailure(err) {
			if db.IsUniqueViolation(err) {
				err = ErrDuplicateMovement
			}
			return Receipt{}, err
		}
		s.logger.Warn("movement conflict, retrying",
			slog.String("product_id", input.ProductID), slog.Int("attempt", attempt))
	}
	if err != nil {
		return Receipt{}, ErrTransactionConflict
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  input.ActorID,
			Action:   "ledger:record",
			Entity:   "mouvement_stock",
			EntityID: receipt.MovementID,
			Meta: map[string]any{
				"product_id": input.ProductID,
				"type":       string(input.Type),
				"quantite":   input.Quantite,
				"motif":      input.Motif,
			},
		})
	}
	return receipt, nil
}

func (s *Service) recordOnce(ctx context.Context, input RecordInput) (Receipt, error) {
	now := s.now().UTC()
	var receipt Receipt
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		product, err := tx.GetProductForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		newStock := product.Stock + input.Quantite
		if input.Type == MovementOut {
			if product.Stock < input.Quantite {
				return &InsufficientStockError{Courant: product.Stock, Demande: input.Quantite}
			}
			newStock = product.Stock - input.Quantite
		}
		reference := BuildReference(input.ProductID, input.Quantite, now)
		exists, err := tx.ReferenceExists(ctx, reference)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateMovement
		}
		movement := Movement{
			ID:            uuid.NewString(),
			Reference:     reference,
			Produit:       product.Nom,
			ProductID:     product.ID,
			IdGroupe:      product.IdGroupe,
			IdCategorie:   product.IdCategorie,
			Quantite:      input.Quantite,
			PrixUnitaire:  input.PrixUnitaire,
			ValeurTotale:  float64(input.Quantite) * input.PrixUnitaire,
			Motif:         strings.TrimSpace(input.Motif),
			TypeMouvement: input.Type,
			DateAjout:     now,
			StockAvant:    product.Stock,
			StockApres:    newStock,
		}
		if err := tx.InsertMovement(ctx, movement); err != nil {
			return err
		}
		if err := tx.UpdateProductStock(ctx, product.ID, newStock); err != nil {
			return err
		}
		receipt = Receipt{MovementID: movement.ID, NewStock: newStock}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// ListPage returns one history page, newest first.
func (s *Service) ListPage(ctx context.Context, filter ListFilter, page, perPage int) (paging.Page[Movement], error) {
	return paging.Paginate(page, perPage, func(limit int) ([]Movement, error) {
		return s.repo.List(ctx, filter, limit)
	})
}

// ListAll returns every movement matching the filter, bounded by limit.
// Used by the CSV export.
func (s *Service) ListAll(ctx context.Context, filter ListFilter, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 5000
	}
	return s.repo.List(ctx, filter, limit)
}
