package categories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsena-shop/tsena/internal/catalog/groups"
	"github.com/tsena-shop/tsena/internal/shared"
)

type memoryRepo struct {
	byID map[string]Category
	next int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]Category{}}
}

func (r *memoryRepo) List(ctx context.Context) ([]Category, error) {
	list := []Category{}
	for _, c := range r.byID {
		list = append(list, c)
	}
	return list, nil
}

func (r *memoryRepo) ListByGroup(ctx context.Context, groupID string) ([]Category, error) {
	list := []Category{}
	for _, c := range r.byID {
		if c.IdGroupe == groupID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return Category{}, shared.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) Create(ctx context.Context, nom, groupID string) (Category, error) {
	r.next++
	c := Category{ID: fmt.Sprintf("cat-%d", r.next), Nom: nom, IdGroupe: groupID}
	r.byID[c.ID] = c
	return c, nil
}

func (r *memoryRepo) Update(ctx context.Context, id, nom string) error {
	c, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	c.Nom = nom
	r.byID[id] = c
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memoryRepo) AdjustProductCount(ctx context.Context, id string, delta int64) error {
	c := r.byID[id]
	c.Count += delta
	if c.Count < 0 {
		c.Count = 0
	}
	r.byID[id] = c
	return nil
}

type staticGroups map[string]groups.Group

func (g staticGroups) Get(ctx context.Context, id string) (groups.Group, error) {
	grp, ok := g[id]
	if !ok {
		return groups.Group{}, shared.ErrNotFound
	}
	return grp, nil
}

func TestCreateRequiresExistingGroup(t *testing.T) {
	dir := staticGroups{"g1": {ID: "g1", Nom: "Savonnerie"}}
	svc := NewService(newMemoryRepo(), dir, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Savons durs", "missing")
	require.ErrorIs(t, err, ErrUnknownGroup)

	c, err := svc.Create(ctx, "Savons durs", "g1")
	require.NoError(t, err)
	require.Equal(t, "g1", c.IdGroupe)
}

func TestCreateRequiresGroupID(t *testing.T) {
	svc := NewService(newMemoryRepo(), staticGroups{}, nil, nil)
	_, err := svc.Create(context.Background(), "Savons", "")
	require.ErrorIs(t, err, ErrUnknownGroup)
}

func TestDeleteRefusedWhileProductsRemain(t *testing.T) {
	repo := newMemoryRepo()
	dir := staticGroups{"g1": {ID: "g1"}}
	svc := NewService(repo, dir, nil, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, "Huiles", "g1")
	require.NoError(t, err)
	require.NoError(t, repo.AdjustProductCount(ctx, c.ID, 1))

	require.ErrorIs(t, svc.Delete(ctx, c.ID), shared.ErrHasDependents)

	require.NoError(t, repo.AdjustProductCount(ctx, c.ID, -1))
	require.NoError(t, svc.Delete(ctx, c.ID))
}

func TestListByGroupScopesResults(t *testing.T) {
	repo := newMemoryRepo()
	dir := staticGroups{"g1": {ID: "g1"}, "g2": {ID: "g2"}}
	svc := NewService(repo, dir, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Savons", "g1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Boissons", "g2")
	require.NoError(t, err)

	scoped, err := svc.ListByGroup(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, "Savons", scoped[0].Nom)

	all, err := svc.ListByGroup(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}
