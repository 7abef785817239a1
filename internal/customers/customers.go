package customers

import (
	"context"
	"time"

	"github.com/tsena-shop/tsena/internal/paging"
)

// Customer is a storefront account, read-only from the back office.
type Customer struct {
	ID        string    `json:"id"`
	Nom       string    `json:"Nom"`
	Email     string    `json:"Email"`
	Telephone string    `json:"Telephone"`
	Adresse   string    `json:"Adresse"`
	CreatedAt time.Time `json:"createdAt"`
}

// Order is one storefront order header.
type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Total      float64   `json:"total"`
	Statut     string    `json:"statut"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Repository reads customers and their orders.
type Repository interface {
	List(ctx context.Context, search string, limit int) ([]Customer, error)
	Get(ctx context.Context, id string) (Customer, error)
	Orders(ctx context.Context, customerID string, limit int) ([]Order, error)
}

// Service exposes the read-only customer directory.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListPage returns one page of customers matching the name prefix.
func (s *Service) ListPage(ctx context.Context, search string, page, perPage int) (paging.Page[Customer], error) {
	return paging.Paginate(page, perPage, func(limit int) ([]Customer, error) {
		return s.repo.List(ctx, search, limit)
	})
}

// Profile bundles a customer with their recent orders.
type Profile struct {
	Customer Customer `json:"customer"`
	Orders   []Order  `json:"orders"`
}

func (s *Service) GetProfile(ctx context.Context, id string) (Profile, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	orders, err := s.repo.Orders(ctx, id, 50)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Customer: c, Orders: orders}, nil
}
