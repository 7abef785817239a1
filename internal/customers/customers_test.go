package customers

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsena-shop/tsena/internal/shared"
)

type memoryRepo struct {
	customers map[string]Customer
	orders    map[string][]Order
}

func (r *memoryRepo) List(ctx context.Context, search string, limit int) ([]Customer, error) {
	list := []Customer{}
	for _, c := range r.customers {
		if search != "" && !strings.HasPrefix(c.Nom, search) {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nom < list[j].Nom })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return Customer{}, shared.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) Orders(ctx context.Context, customerID string, limit int) ([]Order, error) {
	return r.orders[customerID], nil
}

func TestProfileBundlesOrders(t *testing.T) {
	repo := &memoryRepo{
		customers: map[string]Customer{"c1": {ID: "c1", Nom: "Rakoto"}},
		orders:    map[string][]Order{"c1": {{ID: "o1", CustomerID: "c1", Total: 12000}}},
	}
	svc := NewService(repo)

	profile, err := svc.GetProfile(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, "Rakoto", profile.Customer.Nom)
	require.Len(t, profile.Orders, 1)

	_, err = svc.GetProfile(context.Background(), "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListPagePrefix(t *testing.T) {
	repo := &memoryRepo{customers: map[string]Customer{
		"c1": {ID: "c1", Nom: "Rakoto"},
		"c2": {ID: "c2", Nom: "Rasoa"},
		"c3": {ID: "c3", Nom: "Be"},
	}}
	svc := NewService(repo)

	page, err := svc.ListPage(context.Background(), "Ra", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.False(t, page.HasNext)
}
