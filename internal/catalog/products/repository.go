package products

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tsena-shop/tsena/internal/paging"
	"github.com/tsena-shop/tsena/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filter ListFilter, limit int) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, id string, upd Update) error
	UpdateImage(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) (Product, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `id, nom, id_groupe, id_categorie, prix, poids, stock, description, image, created_at, derniere_mise_a_jour`

// List returns up to limit products ordered by name, applying the prefix
// search as a half-open range and the category filter as an exact match.
func (r *repository) List(ctx context.Context, filter ListFilter, limit int) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM produits WHERE 1=1`
	args := []any{}

	if filter.Search != "" {
		lo, hi := paging.PrefixBounds(filter.Search)
		args = append(args, lo, hi)
		query += ` AND nom >= $1 AND nom < $2`
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND id_categorie = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += ` ORDER BY nom LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM produits WHERE id=$1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p Product) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO produits (id, nom, id_groupe, id_categorie, prix, poids, stock, description, image, created_at, derniere_mise_a_jour)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())`,
		p.ID, p.Nom, p.IdGroupe, p.IdCategorie, p.Prix, p.Poids, p.Stock, p.Description, p.Image)
	return err
}

func (r *repository) Update(ctx context.Context, id string, upd Update) error {
	tag, err := r.pool.Exec(ctx, `UPDATE produits SET nom=$2, id_groupe=$3, id_categorie=$4, prix=$5, poids=$6, description=$7, derniere_mise_a_jour=NOW() WHERE id=$1`,
		id, upd.Nom, upd.IdGroupe, upd.IdCategorie, upd.Prix, upd.Poids, upd.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateImage(ctx context.Context, id, url string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE produits SET image=$2, derniere_mise_a_jour=NOW() WHERE id=$1`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the product and returns its last state so callers can
// release the denormalized counters.
func (r *repository) Delete(ctx context.Context, id string) (Product, error) {
	row := r.pool.QueryRow(ctx, `DELETE FROM produits WHERE id=$1 RETURNING `+productColumns, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var created, updated time.Time
	err := row.Scan(&p.ID, &p.Nom, &p.IdGroupe, &p.IdCategorie, &p.Prix, &p.Poids, &p.Stock, &p.Description, &p.Image, &created, &updated)
	if err != nil {
		return Product{}, err
	}
	p.CreatedAt = created
	p.DerniereMiseAJour = updated
	return p, nil
}
