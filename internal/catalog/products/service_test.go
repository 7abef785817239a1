package products

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsena-shop/tsena/internal/shared"
)

type memoryRepo struct {
	byID map[string]Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]Product{}}
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter, limit int) ([]Product, error) {
	list := []Product{}
	for _, p := range r.byID {
		if filter.Search != "" && !(p.Nom >= filter.Search && p.Nom < filter.Search+"") {
			continue
		}
		if filter.Category != "" && p.IdCategorie != filter.Category {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nom < list[j].Nom })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, p Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, upd Update) error {
	p, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Nom = upd.Nom
	p.IdGroupe = upd.IdGroupe
	p.IdCategorie = upd.IdCategorie
	p.Prix = upd.Prix
	p.Poids = upd.Poids
	p.Description = upd.Description
	r.byID[id] = p
	return nil
}

func (r *memoryRepo) UpdateImage(ctx context.Context, id, url string) error {
	p, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Image = url
	r.byID[id] = p
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) (Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	delete(r.byID, id)
	return p, nil
}

type countingSink struct {
	counts map[string]int64
	fail   bool
}

func newCountingSink() *countingSink {
	return &countingSink{counts: map[string]int64{}}
}

func (s *countingSink) AdjustProductCount(ctx context.Context, id string, delta int64) error {
	if s.fail {
		return errors.New("counter store unavailable")
	}
	s.counts[id] += delta
	return nil
}

func validInput(nom, group, cat string) CreateInput {
	return CreateInput{Nom: nom, IdGroupe: group, IdCategorie: cat, Prix: 1000, Stock: 10}
}

func TestCreateAdjustsCounters(t *testing.T) {
	groupSink := newCountingSink()
	catSink := newCountingSink()
	svc := NewService(newMemoryRepo(), groupSink, catSink, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput("Savon", "g1", "c1"))
	require.NoError(t, err)
	require.EqualValues(t, 1, groupSink.counts["g1"])
	require.EqualValues(t, 1, catSink.counts["c1"])
}

func TestCreateSurvivesCounterFailure(t *testing.T) {
	groupSink := newCountingSink()
	groupSink.fail = true
	repo := newMemoryRepo()
	svc := NewService(repo, groupSink, newCountingSink(), nil, nil)

	p, err := svc.Create(context.Background(), validInput("Savon", "g1", "c1"))
	require.NoError(t, err, "counter drift is tolerated, the product must exist")
	_, err = repo.Get(context.Background(), p.ID)
	require.NoError(t, err)
}

func TestMoveBetweenGroupsShiftsBothCounters(t *testing.T) {
	groupSink := newCountingSink()
	catSink := newCountingSink()
	svc := NewService(newMemoryRepo(), groupSink, catSink, nil, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput("Savon", "g1", "c1"))
	require.NoError(t, err)

	err = svc.Update(ctx, p.ID, Update{Nom: "Savon", IdGroupe: "g2", IdCategorie: "c1", Prix: 1000})
	require.NoError(t, err)
	require.EqualValues(t, 0, groupSink.counts["g1"])
	require.EqualValues(t, 1, groupSink.counts["g2"])
	require.EqualValues(t, 1, catSink.counts["c1"], "category untouched by a group move")
}

func TestDeleteReleasesCounters(t *testing.T) {
	groupSink := newCountingSink()
	catSink := newCountingSink()
	svc := NewService(newMemoryRepo(), groupSink, catSink, nil, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput("Savon", "g1", "c1"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))
	require.EqualValues(t, 0, groupSink.counts["g1"])
	require.EqualValues(t, 0, catSink.counts["c1"])
}

func TestUpdateNeverTouchesStock(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newCountingSink(), newCountingSink(), nil, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Nom: "Savon", IdGroupe: "g1", IdCategorie: "c1", Prix: 500, Stock: 42})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, p.ID, Update{Nom: "Savon doux", IdGroupe: "g1", IdCategorie: "c1", Prix: 600}))
	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 42, got.Stock)
	require.Equal(t, "Savon doux", got.Nom)
}

func TestListPagePrefixSearch(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newCountingSink(), newCountingSink(), nil, nil)
	ctx := context.Background()

	for i, nom := range []string{"Savon dur", "Savon doux", "Shampooing", "The vert"} {
		_, err := svc.Create(ctx, validInput(nom, "g1", fmt.Sprintf("c%d", i%2)))
		require.NoError(t, err)
	}

	page, err := svc.ListPage(ctx, ListFilter{Search: "Savon"}, 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.False(t, page.HasNext)
}
