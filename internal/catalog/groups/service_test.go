package groups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsena-shop/tsena/internal/shared"
)

type memoryRepo struct {
	byID map[string]Group
	next int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]Group{}}
}

func (r *memoryRepo) List(ctx context.Context) ([]Group, error) {
	list := []Group{}
	for _, g := range r.byID {
		list = append(list, g)
	}
	return list, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Group, error) {
	g, ok := r.byID[id]
	if !ok {
		return Group{}, shared.ErrNotFound
	}
	return g, nil
}

func (r *memoryRepo) Create(ctx context.Context, nom string) (Group, error) {
	r.next++
	g := Group{ID: string(rune('a' + r.next)), Nom: nom}
	r.byID[g.ID] = g
	return g, nil
}

func (r *memoryRepo) Update(ctx context.Context, id, nom string) error {
	g, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	g.Nom = nom
	r.byID[id] = g
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
	g := r.byID[id]
	g.NombreProduit += delta
	if g.NombreProduit < 0 {
		g.NombreProduit = 0
	}
	r.byID[id] = g
	return nil
}

type recordingNotifier struct {
	published []string
}

func (n *recordingNotifier) Publish(ctx context.Context, collection string) error {
	n.published = append(n.published, collection)
	return nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	_, err := svc.Create(context.Background(), "   ")
	require.Error(t, err)
}

func TestDeleteRefusedWhileProductsRemain(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil)
	ctx := context.Background()

	g, err := svc.Create(ctx, "Savonnerie")
	require.NoError(t, err)
	require.NoError(t, repo.AdjustProductCount(ctx, g.ID, 3))

	err = svc.Delete(ctx, g.ID)
	require.ErrorIs(t, err, shared.ErrHasDependents)
	_, err = svc.Get(ctx, g.ID)
	require.NoError(t, err, "group must survive a refused delete")

	require.NoError(t, repo.AdjustProductCount(ctx, g.ID, -3))
	require.NoError(t, svc.Delete(ctx, g.ID))
	_, err = svc.Get(ctx, g.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCounterNeverGoesNegative(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	g, err := svc.Create(ctx, "Epicerie")
	require.NoError(t, err)
	require.NoError(t, repo.AdjustProductCount(ctx, g.ID, -5))

	got, err := svc.Get(ctx, g.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, got.NombreProduit)
}

func TestMutationsNotify(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemoryRepo(), notifier, nil)
	ctx := context.Background()

	g, err := svc.Create(ctx, "Boissons")
	require.NoError(t, err)
	require.NoError(t, svc.Update(ctx, g.ID, "Boissons fraiches"))
	require.NoError(t, svc.Delete(ctx, g.ID))
	require.Equal(t, []string{Collection, Collection, Collection}, notifier.published)
}
