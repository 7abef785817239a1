package groups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tsena-shop/tsena/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Group, error)
	Get(ctx context.Context, id string) (Group, error)
	Create(ctx context.Context, nom string) (Group, error)
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

// List returns every group ordered by name. The reference list is small
// and rendered whole, so it carries no pagination.
func (r *repository) List(ctx context.Context) ([]Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nom, nombre_produit FROM groupes ORDER BY nom`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Group{}
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Nom, &g.NombreProduit); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Group, error) {
	var g Group
	err := r.pool.QueryRow(ctx, `SELECT id, nom, nombre_produit FROM groupes WHERE id=$1`, id).
		Scan(&g.ID, &g.Nom, &g.NombreProduit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Group{}, shared.ErrNotFound
		}
		return Group{}, err
	}
	return g, nil
}

func (r *repository) Create(ctx context.Context, nom string) (Group, error) {
	g := Group{ID: uuid.NewString(), Nom: nom}
	_, err := r.pool.Exec(ctx, `INSERT INTO groupes (id, nom, nombre_produit, created_at) VALUES ($1, $2, 0, NOW())`, g.ID, g.Nom)
	if err != nil {
		return Group{}, err
	}
	return g, nil
}

func (r *repository) Update(ctx context.Context, id, nom string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE groupes SET nom=$2 WHERE id=$1`, id, nom)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM groupes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AdjustProductCount shifts the denormalized counter, clamped at zero.
func (r *repository) AdjustProductCount(ctx context.Context, id string, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE groupes SET nombre_produit=GREATEST(0, nombre_produit + $2) WHERE id=$1`, id, delta)
	return err
}
