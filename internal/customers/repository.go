package customers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tsena-shop/tsena/internal/paging"
	"github.com/tsena-shop/tsena/internal/shared"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, search string, limit int) ([]Customer, error) {
	query := `SELECT id, nom, email, telephone, adresse, created_at FROM clients`
	args := []any{}
	if search != "" {
		lo, hi := paging.PrefixBounds(search)
		args = append(args, lo, hi)
		query += ` WHERE nom >= $1 AND nom < $2`
	}
	args = append(args, limit)
	if search != "" {
		query += ` ORDER BY nom ASC LIMIT $3`
	} else {
		query += ` ORDER BY nom ASC LIMIT $1`
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	customers := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Nom, &c.Email, &c.Telephone, &c.Adresse, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) Get(ctx context.Context, id string) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `SELECT id, nom, email, telephone, adresse, created_at FROM clients WHERE id=$1`, id).
		Scan(&c.ID, &c.Nom, &c.Email, &c.Telephone, &c.Adresse, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, shared.ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

func (r *repository) Orders(ctx context.Context, customerID string, limit int) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, client_id, total, statut, created_at FROM commandes
WHERE client_id=$1 ORDER BY created_at DESC LIMIT $2`, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Total, &o.Statut, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
