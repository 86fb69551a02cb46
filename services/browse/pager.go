// Package browse holds the view controllers that page through catalog
// listings: an infinite-scroll pager and a search controller built on it.
package browse

import (
	"context"
	"log"
	"sync"

	"github.com/sourcegraph/conc/iter"

	"moviescope/models"
)

// NearBottomThreshold is how close, in pixels, the viewport must get to the
// end of the content before the next page is requested.
const NearBottomThreshold = 200

// DefaultPrefetchPages is the size of a prefetch burst.
const DefaultPrefetchPages = 2

type State int

const (
	StateIdle State = iota
	StateLoadingInitial
	StateLoadingMore
	StateError
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingInitial:
		return "loadingInitial"
	case StateLoadingMore:
		return "loadingMore"
	case StateError:
		return "error"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

func (s State) loading() bool {
	return s == StateLoadingInitial || s == StateLoadingMore
}

// PageFetcher loads one page of a listing.
type PageFetcher func(ctx context.Context, page int) (*models.MovieListPage, error)

// Messages are the user-facing strings shown when a load fails.
type Messages struct {
	Initial string
	More    string
}

// ScrollMetrics describes the viewport relative to the rendered content.
type ScrollMetrics struct {
	Top          float64
	ClientHeight float64
	ScrollHeight float64
}

// NearBottom reports whether the viewport is within threshold of the end.
func (m ScrollMetrics) NearBottom(threshold float64) bool {
	return m.Top+m.ClientHeight >= m.ScrollHeight-threshold
}

// Snapshot is a copy of the pager state for rendering.
type Snapshot struct {
	State       State                 `json:"state"`
	Movies      []models.MovieSummary `json:"movies"`
	CurrentPage int                   `json:"currentPage"`
	TotalPages  int                   `json:"totalPages"`
	HasMore     bool                  `json:"hasMore"`
	Message     string                `json:"message,omitempty"`
	Err         error                 `json:"-"`
}

// Pager accumulates pages of a listing. At most one page request is in flight
// at a time; triggers that arrive during a load are dropped. Pages are
// appended as returned, without de-duplication.
type Pager struct {
	mu       sync.Mutex
	fetch    PageFetcher
	messages Messages

	state       State
	loaded      bool
	movies      []models.MovieSummary
	currentPage int
	totalPages  int
	err         error
	message     string

	prefetching bool
	prefetched  map[int]*models.MovieListPage
}

func NewPager(fetch PageFetcher, messages Messages) *Pager {
	return &Pager{
		fetch:      fetch,
		messages:   messages,
		state:      StateIdle,
		prefetched: make(map[int]*models.MovieListPage),
	}
}

// Start loads the first page. It is also the manual retry after a failed
// initial load. It reports whether a request was issued.
func (p *Pager) Start(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.state.loading() || p.prefetching {
		p.mu.Unlock()
		return false, nil
	}
	p.state = StateLoadingInitial
	p.err = nil
	p.message = ""
	p.mu.Unlock()

	page, err := p.fetch(ctx, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.movies = nil
		p.currentPage = 0
		p.totalPages = 0
		p.loaded = false
		p.fail(err, p.messages.Initial)
		return true, err
	}
	p.movies = append([]models.MovieSummary(nil), page.Results...)
	p.currentPage = 1
	p.totalPages = max(page.TotalPages, 1)
	p.loaded = true
	p.prefetched = make(map[int]*models.MovieListPage)
	p.settle()
	return true, nil
}

// LoadMore requests the page after the current one. It does nothing while a
// load is in flight, before the first page, or once the listing is exhausted.
// After a failed LoadMore it retries the same page.
func (p *Pager) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if !p.canLoadMoreLocked() {
		p.mu.Unlock()
		return false, nil
	}
	next := p.currentPage + 1
	if page, ok := p.prefetched[next]; ok {
		delete(p.prefetched, next)
		p.appendLocked(next, page)
		p.mu.Unlock()
		return true, nil
	}
	p.state = StateLoadingMore
	p.err = nil
	p.message = ""
	p.mu.Unlock()

	page, err := p.fetch(ctx, next)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.fail(err, p.messages.More)
		return true, err
	}
	p.appendLocked(next, page)
	return true, nil
}

// OnScroll loads the next page when the viewport is near the bottom.
func (p *Pager) OnScroll(ctx context.Context, m ScrollMetrics) (bool, error) {
	if !m.NearBottom(NearBottomThreshold) {
		return false, nil
	}
	return p.LoadMore(ctx)
}

// Prefetch fetches up to n following pages concurrently and keeps them for
// later LoadMore calls. Results are merged in page order once every request
// has resolved; if any request fails the whole burst is discarded and the
// visible results are untouched. It returns the number of pages kept.
func (p *Pager) Prefetch(ctx context.Context, n int) int {
	if n <= 0 {
		n = DefaultPrefetchPages
	}

	p.mu.Lock()
	if p.state != StateIdle || !p.loaded || p.prefetching {
		p.mu.Unlock()
		return 0
	}
	var pages []int
	for next := p.currentPage + 1; next <= p.totalPages && len(pages) < n; next++ {
		if _, ok := p.prefetched[next]; !ok {
			pages = append(pages, next)
		}
	}
	if len(pages) == 0 {
		p.mu.Unlock()
		return 0
	}
	p.prefetching = true
	p.mu.Unlock()

	results, err := iter.MapErr(pages, func(page *int) (*models.MovieListPage, error) {
		return p.fetch(ctx, *page)
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefetching = false
	if err != nil {
		log.Printf("[browse] prefetch of pages %v abandoned: %v", pages, err)
		return 0
	}
	for i, page := range pages {
		if page > p.currentPage {
			p.prefetched[page] = results[i]
		}
	}
	return len(pages)
}

// Snapshot returns a copy of the current state.
func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		State:       p.state,
		Movies:      append([]models.MovieSummary(nil), p.movies...),
		CurrentPage: p.currentPage,
		TotalPages:  p.totalPages,
		HasMore:     p.loaded && p.currentPage < p.totalPages,
		Message:     p.message,
		Err:         p.err,
	}
}

func (p *Pager) canLoadMoreLocked() bool {
	if p.prefetching || !p.loaded || p.currentPage >= p.totalPages {
		return false
	}
	return p.state == StateIdle || p.state == StateError
}

func (p *Pager) appendLocked(pageNumber int, page *models.MovieListPage) {
	p.movies = append(p.movies, page.Results...)
	p.currentPage = pageNumber
	if page.TotalPages >= pageNumber {
		p.totalPages = page.TotalPages
	}
	p.settle()
}

func (p *Pager) fail(err error, message string) {
	p.state = StateError
	p.err = err
	p.message = message
	log.Printf("[browse] %s: %v", message, err)
}

func (p *Pager) settle() {
	if p.currentPage >= p.totalPages {
		p.state = StateExhausted
		return
	}
	p.state = StateIdle
}
