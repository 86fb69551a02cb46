package browse

import (
	"context"
	"strings"
	"sync"

	"moviescope/models"
)

// User-facing failure messages.
var (
	PopularMessages = Messages{
		Initial: "映画データの取得に失敗しました",
		More:    "追加の映画データの取得に失敗しました",
	}
	SearchMessages = Messages{
		Initial: "検索に失敗しました",
		More:    "追加の検索結果の取得に失敗しました",
	}
)

// Searcher is the slice of the catalog the search controller needs.
type Searcher interface {
	Search(ctx context.Context, query, lang string, page int) (*models.MovieListPage, error)
}

// PopularFetcher is the slice of the catalog the popular listing needs.
type PopularFetcher interface {
	FetchPopular(ctx context.Context, lang string, page int) (*models.MovieListPage, error)
}

// NewPopularPager pages through the popular listing in lang.
func NewPopularPager(catalog PopularFetcher, lang string) *Pager {
	return NewPager(func(ctx context.Context, page int) (*models.MovieListPage, error) {
		return catalog.FetchPopular(ctx, lang, page)
	}, PopularMessages)
}

// SearchWithFallback runs a search in primary and, when that returns nothing
// for a query containing Japanese script, repeats it once in fallback. It
// returns the page and the language that produced it.
func SearchWithFallback(ctx context.Context, s Searcher, query, primary, fallback string, page int) (*models.MovieListPage, string, error) {
	res, err := s.Search(ctx, query, primary, page)
	if err != nil {
		return nil, primary, err
	}
	if len(res.Results) > 0 || !ContainsJapanese(query) || fallback == "" || fallback == primary {
		return res, primary, nil
	}
	res, err = s.Search(ctx, query, fallback, page)
	if err != nil {
		return nil, fallback, err
	}
	return res, fallback, nil
}

// Search drives a paged search. Each SetQuery starts a fresh scope; loads
// still running for an earlier query land on a pager nobody reads anymore.
type Search struct {
	searcher Searcher
	primary  string
	fallback string

	mu    sync.Mutex
	query string
	pager *Pager
}

func NewSearch(searcher Searcher, primary, fallback string) *Search {
	s := &Search{searcher: searcher, primary: primary, fallback: fallback}
	s.pager = s.newPager("")
	return s
}

// SetQuery resets the results and loads the first page for q. A blank query
// clears the results without a request.
func (s *Search) SetQuery(ctx context.Context, q string) (bool, error) {
	q = strings.TrimSpace(q)
	pager := s.newPager(q)

	s.mu.Lock()
	s.query = q
	s.pager = pager
	s.mu.Unlock()

	if q == "" {
		return false, nil
	}
	return pager.Start(ctx)
}

// Query returns the active query.
func (s *Search) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *Search) LoadMore(ctx context.Context) (bool, error) {
	return s.current().LoadMore(ctx)
}

func (s *Search) OnScroll(ctx context.Context, m ScrollMetrics) (bool, error) {
	return s.current().OnScroll(ctx, m)
}

func (s *Search) Prefetch(ctx context.Context, n int) int {
	return s.current().Prefetch(ctx, n)
}

func (s *Search) Snapshot() Snapshot {
	return s.current().Snapshot()
}

// Filter narrows the loaded results by title without a request.
func (s *Search) Filter(term string) []models.MovieSummary {
	return Filter(s.current().Snapshot().Movies, term)
}

func (s *Search) current() *Pager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager
}

func (s *Search) newPager(query string) *Pager {
	return NewPager(func(ctx context.Context, page int) (*models.MovieListPage, error) {
		res, _, err := SearchWithFallback(ctx, s.searcher, query, s.primary, s.fallback, page)
		return res, err
	}, SearchMessages)
}
