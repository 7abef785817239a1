// Package paging implements page-number pagination without count queries.
//
// A listing fetches up to page*perPage+1 rows, slices out the requested
// window and reports whether another page exists from the overflow row.
// Re-fetching rows of earlier pages on navigation is accepted: page sizes
// are small and admin users rarely go deep.
package paging

import (
	"net/url"
	"strconv"
	"time"
)

// Sentinel closes the half-open prefix range used for search:
// field >= q AND field < q+Sentinel.
const Sentinel = ""

// Params carries the navigable listing state. It round-trips through URL
// query parameters so back/forward navigation and shared links stay
// consistent with what is displayed.
type Params struct {
	Page   int
	Search string
	Start  time.Time
	End    time.Time
	Group  string
	Cat    string
}

const dateLayout = "2006-01-02"

// ParseParams reads listing state from URL query values. Invalid or absent
// values fall back to defaults; page is always at least 1. Start is floored
// to the beginning of its day and End ceiled to 23:59:59.999 so both bounds
// are inclusive day boundaries.
func ParseParams(q url.Values) Params {
	p := Params{Page: 1}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	p.Search = q.Get("search")
	p.Group = q.Get("group")
	p.Cat = q.Get("cat")
	if d, err := time.Parse(dateLayout, q.Get("start")); err == nil {
		p.Start = floorDay(d)
	}
	if d, err := time.Parse(dateLayout, q.Get("end")); err == nil {
		p.End = ceilDay(d)
	}
	return p
}

// WithPage returns a copy of p targeting the given page.
func (p Params) WithPage(page int) Params {
	if page < 1 {
		page = 1
	}
	p.Page = page
	return p
}

// WithSearch returns a copy with a new search term. Changing a filter
// always resets to the first page.
func (p Params) WithSearch(search string) Params {
	p.Search = search
	p.Page = 1
	return p
}

// WithDateRange returns a copy with new inclusive day bounds.
func (p Params) WithDateRange(start, end time.Time) Params {
	p.Start = floorDay(start)
	p.End = ceilDay(end)
	p.Page = 1
	return p
}

// WithGroup returns a copy filtered to one group.
func (p Params) WithGroup(id string) Params {
	p.Group = id
	p.Page = 1
	return p
}

// WithCategory returns a copy filtered to one category.
func (p Params) WithCategory(id string) Params {
	p.Cat = id
	p.Page = 1
	return p
}

// Encode renders the params back into URL query values, omitting defaults.
func (p Params) Encode() url.Values {
	q := url.Values{}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if !p.Start.IsZero() {
		q.Set("start", p.Start.Format(dateLayout))
	}
	if !p.End.IsZero() {
		q.Set("end", p.End.Format(dateLayout))
	}
	if p.Group != "" {
		q.Set("group", p.Group)
	}
	if p.Cat != "" {
		q.Set("cat", p.Cat)
	}
	return q
}

// PrefixBounds returns the half-open range [lo, hi) matching all values
// that start with q.
func PrefixBounds(q string) (lo, hi string) {
	return q, q + Sentinel
}

// Page is one window of a filtered, sorted listing.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	PerPage int  `json:"perPage"`
	HasNext bool `json:"hasNext"`
}

// Paginate fetches up to page*perPage+1 records through fetch and slices
// out the requested window. HasNext is true when at least one record lies
// beyond it. A fetch error yields an empty page alongside the error so
// callers can render an empty state.
func Paginate[T any](page, perPage int, fetch func(limit int) ([]T, error)) (Page[T], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 5
	}
	out := Page[T]{Items: []T{}, Page: page, PerPage: perPage}

	rows, err := fetch(page*perPage + 1)
	if err != nil {
		return out, err
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start < len(rows) {
		if end > len(rows) {
			end = len(rows)
		}
		out.Items = rows[start:end]
	}
	out.HasNext = len(rows) > page*perPage
	return out, nil
}

func floorDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func ceilDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
