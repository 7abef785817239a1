package categories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tsena-shop/tsena/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	ListByGroup(ctx context.Context, groupID string) ([]Category, error)
	Get(ctx context.Context, id string) (Category, error)
	Create(ctx context.Context, nom, groupID string) (Category, error)
	Update(ctx context.Context, id, nom string) error
	Delete(ctx context.Context, id string) error
	AdjustProductCount(ctx context.Context, id string, delta int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	return r.list(ctx, `SELECT id, nom, id_groupe, produit_count FROM categories ORDER BY nom`)
}

func (r *repository) ListByGroup(ctx context.Context, groupID string) ([]Category, error) {
	return r.list(ctx, `SELECT id, nom, id_groupe, produit_count FROM categories WHERE id_groupe=$1 ORDER BY nom`, groupID)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Nom, &c.IdGroupe, &c.Count); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT id, nom, id_groupe, produit_count FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Nom, &c.IdGroupe, &c.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, nom, groupID string) (Category, error) {
	c := Category{ID: uuid.NewString(), Nom: nom, IdGroupe: groupID}
	_, err := r.pool.Exec(ctx, `INSERT INTO categories (id, nom, id_groupe, produit_count, created_at) VALUES ($1, $2, $3, 0, NOW())`, c.ID, c.Nom, c.IdGroupe)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id, nom string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET nom=$2 WHERE id=$1`, id, nom)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) AdjustProductCount(ctx context.Context, id string, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE categories SET produit_count=GREATEST(0, produit_count + $2) WHERE id=$1`, id, delta)
	return err
}
