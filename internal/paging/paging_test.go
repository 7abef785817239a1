package paging

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fetchFrom(all []int) func(limit int) ([]int, error) {
	return func(limit int) ([]int, error) {
		if limit > len(all) {
			limit = len(all)
		}
		return all[:limit], nil
	}
}

func TestPaginateWindows(t *testing.T) {
	all := make([]int, 12)
	for i := range all {
		all[i] = i + 1
	}

	page, err := Paginate(1, 5, fetchFrom(all))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5}, page.Items)
	require.True(t, page.HasNext)

	page, err = Paginate(2, 5, fetchFrom(all))
	require.NoError(t, err)
	require.Equal(t, []int{6, 7, 8, 9, 10}, page.Items)
	require.True(t, page.HasNext)

	page, err = Paginate(3, 5, fetchFrom(all))
	require.NoError(t, err)
	require.Equal(t, []int{11, 12}, page.Items)
	require.False(t, page.HasNext)
}

func TestPaginateExactBoundary(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}
	page, err := Paginate(1, 5, fetchFrom(all))
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	require.False(t, page.HasNext)
}

func TestPaginateBeyondLastPage(t *testing.T) {
	page, err := Paginate(4, 5, fetchFrom([]int{1, 2, 3}))
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.False(t, page.HasNext)
}

func TestPaginateFetchError(t *testing.T) {
	boom := errors.New("backend unavailable")
	page, err := Paginate(1, 5, func(limit int) ([]int, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.Empty(t, page.Items)
	require.False(t, page.HasNext)
}

func TestParseParamsDefaults(t *testing.T) {
	p := ParseParams(url.Values{})
	require.Equal(t, 1, p.Page)
	require.Empty(t, p.Search)
	require.True(t, p.Start.IsZero())
	require.True(t, p.End.IsZero())
}

func TestParseParamsDayBounds(t *testing.T) {
	q := url.Values{}
	q.Set("page", "3")
	q.Set("search", "Sav")
	q.Set("start", "2026-02-01")
	q.Set("end", "2026-02-28")

	p := ParseParams(q)
	require.Equal(t, 3, p.Page)
	require.Equal(t, "Sav", p.Search)
	require.Equal(t, "2026-02-01T00:00:00", p.Start.Format("2006-01-02T15:04:05"))
	require.Equal(t, "2026-02-28T23:59:59", p.End.Format("2006-01-02T15:04:05"))
	require.Equal(t, 999, p.End.Nanosecond()/int(time.Millisecond))
}

func TestFilterChangeResetsPage(t *testing.T) {
	p := ParseParams(url.Values{"page": []string{"3"}})
	require.Equal(t, 3, p.Page)

	require.Equal(t, 1, p.WithSearch("savon").Page)
	require.Equal(t, 1, p.WithGroup("g1").Page)
	require.Equal(t, 1, p.WithCategory("c1").Page)
	start, _ := time.Parse("2006-01-02", "2026-01-01")
	require.Equal(t, 1, p.WithDateRange(start, start).Page)
	require.Equal(t, 3, p.Page, "receiver must stay untouched")
}

func TestEncodeRoundTrip(t *testing.T) {
	q := url.Values{}
	q.Set("page", "2")
	q.Set("search", "the")
	q.Set("group", "g9")
	q.Set("cat", "c4")
	q.Set("start", "2026-03-01")
	q.Set("end", "2026-03-15")

	p := ParseParams(q)
	encoded := p.Encode()
	require.Equal(t, q, encoded)
	require.Equal(t, p, ParseParams(encoded))
}

func TestPrefixBounds(t *testing.T) {
	lo, hi := PrefixBounds("Sav")
	require.Equal(t, "Sav", lo)
	require.Equal(t, fmt.Sprintf("Sav%s", Sentinel), hi)
	require.Less(t, "Savon", hi)
	require.GreaterOrEqual(t, "Savon", lo)
}
