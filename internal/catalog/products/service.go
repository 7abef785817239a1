package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tsena-shop/tsena/internal/media"
	"github.com/tsena-shop/tsena/internal/paging"
)

// CounterSink adjusts a denormalized product counter. Both the group and
// category repositories satisfy it.
type CounterSink interface {
	AdjustProductCount(ctx context.Context, id string, delta int64) error
}

// Service owns product lifecycle. Counter updates are best-effort and
// deliberately weaker than the ledger's transaction: a failed adjustment
// is logged and left for the reconciliation job, never surfaced.
type Service struct {
	repo     Repository
	groups   CounterSink
	cats     CounterSink
	uploader media.Uploader
	logger   *slog.Logger
}

func NewService(repo Repository, groupCounters, categoryCounters CounterSink, uploader media.Uploader, logger *slog.Logger) *Service {
	return &Service{repo: repo, groups: groupCounters, cats: categoryCounters, uploader: uploader, logger: logger}
}

// ListPage returns one page of products matching the filter, ordered by name.
func (s *Service) ListPage(ctx context.Context, filter ListFilter, page, perPage int) (paging.Page[Product], error) {
	return paging.Paginate(page, perPage, func(limit int) ([]Product, error) {
		return s.repo.List(ctx, filter, limit)
	})
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, errors.New("products: id required")
	}
	return s.repo.Get(ctx, id)
}

// CreateInput carries a new product. Stock here is the opening quantity;
// later changes go through the ledger.
type CreateInput struct {
	Nom         string
	IdGroupe    string
	IdCategorie string
	Prix        float64
	Poids       float64
	Stock       int64
	Description string
	Image       string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Product, error) {
	if err := validateInput(input.Nom, input.IdGroupe, input.IdCategorie, input.Prix); err != nil {
		return Product{}, err
	}
	if input.Stock < 0 {
		return Product{}, errors.New("products: opening stock must not be negative")
	}
	p := Product{
		ID:          uuid.NewString(),
		Nom:         strings.TrimSpace(input.Nom),
		IdGroupe:    input.IdGroupe,
		IdCategorie: input.IdCategorie,
		Prix:        input.Prix,
		Poids:       input.Poids,
		Stock:       input.Stock,
		Description: input.Description,
		Image:       input.Image,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Product{}, err
	}
	s.adjustCounter(ctx, s.groups, p.IdGroupe, 1)
	s.adjustCounter(ctx, s.cats, p.IdCategorie, 1)
	return p, nil
}

// Update edits product attributes. Moving a product between groups or
// categories shifts both counters.
func (s *Service) Update(ctx context.Context, id string, upd Update) error {
	if err := validateInput(upd.Nom, upd.IdGroupe, upd.IdCategorie, upd.Prix); err != nil {
		return err
	}
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, upd); err != nil {
		return err
	}
	if before.IdGroupe != upd.IdGroupe {
		s.adjustCounter(ctx, s.groups, before.IdGroupe, -1)
		s.adjustCounter(ctx, s.groups, upd.IdGroupe, 1)
	}
	if before.IdCategorie != upd.IdCategorie {
		s.adjustCounter(ctx, s.cats, before.IdCategorie, -1)
		s.adjustCounter(ctx, s.cats, upd.IdCategorie, 1)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.adjustCounter(ctx, s.groups, p.IdGroupe, -1)
	s.adjustCounter(ctx, s.cats, p.IdCategorie, -1)
	return nil
}

// SetImage uploads a new product image and records its URL.
func (s *Service) SetImage(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	if s.uploader == nil {
		return "", errors.New("products: no uploader configured")
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return "", err
	}
	ext := path.Ext(filename)
	url, err := s.uploader.Upload(ctx, fmt.Sprintf("produits/%s_%d%s", id, time.Now().Unix(), ext), r)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateImage(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *Service) adjustCounter(ctx context.Context, sink CounterSink, id string, delta int64) {
	if sink == nil || id == "" {
		return
	}
	if err := sink.AdjustProductCount(ctx, id, delta); err != nil && s.logger != nil {
		s.logger.Warn("adjust product counter",
			slog.String("id", id),
			slog.Int64("delta", delta),
			slog.Any("error", err))
	}
}

func validateInput(nom, groupID, categoryID string, prix float64) error {
	if strings.TrimSpace(nom) == "" {
		return errors.New("products: name is required")
	}
	if groupID == "" {
		return errors.New("products: group is required")
	}
	if categoryID == "" {
		return errors.New("products: category is required")
	}
	if prix < 0 {
		return errors.New("products: price must not be negative")
	}
	return nil
}
