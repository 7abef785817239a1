package ledger

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tsena-shop/tsena/internal/paging"
	"github.com/tsena-shop/tsena/internal/platform/db"
)

// Repository persists movements in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the transactional operations the record flow needs.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, productID string) (ProductState, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	InsertMovement(ctx context.Context, m Movement) error
	UpdateProductStock(ctx context.Context, productID string, newStock int64) error
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("ledger repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const movementColumns = `id, reference, produit, product_id, id_groupe, id_categorie, quantite, prix_unitaire, valeur_totale, motif, type_mouvement, date_ajout, stock_avant, stock_apres`

// List returns movements matching the filter, newest first, up to limit.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit int) ([]Movement, error) {
	if r == nil {
		return nil, errors.New("ledger repository not initialised")
	}
	query := `SELECT ` + movementColumns + ` FROM mouvements_stock WHERE 1=1`
	args := []any{}
	if filter.Search != "" {
		lo, hi := paging.PrefixBounds(filter.Search)
		args = append(args, lo, hi)
		query += ` AND produit >= $` + strconv.Itoa(len(args)-1) + ` AND produit < $` + strconv.Itoa(len(args))
	}
	if filter.Group != "" {
		args = append(args, filter.Group)
		query += ` AND id_groupe = $` + strconv.Itoa(len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND id_categorie = $` + strconv.Itoa(len(args))
	}
	if !filter.Start.IsZero() {
		args = append(args, filter.Start)
		query += ` AND date_ajout >= $` + strconv.Itoa(len(args))
	}
	if !filter.End.IsZero() {
		args = append(args, filter.End)
		query += ` AND date_ajout <= $` + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += ` ORDER BY date_ajout DESC, id DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movements := []Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}

// ListByProduct returns the full chain for one product, oldest first.
// Used by the integrity scan, not by the admin history screen.
func (r *Repository) ListByProduct(ctx context.Context, productID string) ([]Movement, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+movementColumns+` FROM mouvements_stock WHERE product_id=$1 ORDER BY date_ajout ASC, id ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movements := []Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}

func scanMovement(rows pgx.Rows) (Movement, error) {
	var m Movement
	var typ string
	err := rows.Scan(&m.ID, &m.Reference, &m.Produit, &m.ProductID, &m.IdGroupe, &m.IdCategorie,
		&m.Quantite, &m.PrixUnitaire, &m.ValeurTotale, &m.Motif, &typ, &m.DateAjout, &m.StockAvant, &m.StockApres)
	m.TypeMouvement = MovementType(typ)
	return m, err
}

func (r *txRepository) GetProductForUpdate(ctx context.Context, productID string) (ProductState, error) {
	var p ProductState
	err := r.tx.QueryRow(ctx, `SELECT id, nom, id_groupe, id_categorie, stock FROM produits WHERE id=$1 FOR UPDATE`, productID).
		Scan(&p.ID, &p.Nom, &p.IdGroupe, &p.IdCategorie, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductState{}, ErrProductNotFound
		}
		return ProductState{}, err
	}
	return p, nil
}

func (r *txRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM mouvements_stock WHERE reference=$1)`, reference).Scan(&exists)
	return exists, err
}

func (r *txRepository) InsertMovement(ctx context.Context, m Movement) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO mouvements_stock (`+movementColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		m.ID, m.Reference, m.Produit, m.ProductID, m.IdGroupe, m.IdCategorie,
		m.Quantite, m.PrixUnitaire, m.ValeurTotale, m.Motif, string(m.TypeMouvement), m.DateAjout, m.StockAvant, m.StockApres)
	return err
}

func (r *txRepository) UpdateProductStock(ctx context.Context, productID string, newStock int64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE produits SET stock=$2, derniere_mise_a_jour=NOW() WHERE id=$1`, productID, newStock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
