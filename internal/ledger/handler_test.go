package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsena-shop/tsena/internal/catalog/categories"
	"github.com/tsena-shop/tsena/internal/catalog/groups"
)

type staticGroups struct {
	list []groups.Group
	err  error
}

func (s staticGroups) List(ctx context.Context) ([]groups.Group, error) {
	return s.list, s.err
}

type staticCategories struct {
	list []categories.Category
	err  error
}

func (s staticCategories) List(ctx context.Context) ([]categories.Category, error) {
	return s.list, s.err
}

func TestHistoryTotalsMatchPage(t *testing.T) {
	repo := newMemoryRepo(savon(10))
	svc := testService(repo)
	_, err := record(t, svc, MovementIn, 5)
	require.NoError(t, err)

	h := NewHandler(discardLogger(), svc,
		staticGroups{list: []groups.Group{{ID: "g1", Nom: "Hygiène"}}},
		staticCategories{list: []categories.Category{{ID: "c1", Nom: "Savons", IdGroupe: "g1"}}})

	rec := httptest.NewRecorder()
	h.handleHistory(rec, httptest.NewRequest("GET", "/movements", nil))

	var resp historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Movements.Items, 1)
	require.EqualValues(t, 5, resp.Totals.Entrees)
	require.Len(t, resp.Groups, 1)
	require.Len(t, resp.Categories, 1)
}

func TestHistoryFetchFailureYieldsEmptyResponse(t *testing.T) {
	repo := newMemoryRepo(savon(10))
	svc := testService(repo)
	_, err := record(t, svc, MovementIn, 5)
	require.NoError(t, err)

	h := NewHandler(discardLogger(), svc,
		staticGroups{err: errors.New("connection refused")},
		staticCategories{})

	rec := httptest.NewRecorder()
	h.handleHistory(rec, httptest.NewRequest("GET", "/movements", nil))

	var resp historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Movements.Items)
	require.Equal(t, Totals{}, resp.Totals, "totals reflect the displayed set, which is empty")
	require.Empty(t, resp.Groups)
	require.Empty(t, resp.Categories)
}
