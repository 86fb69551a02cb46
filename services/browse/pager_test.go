package browse

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviescope/models"
)

type fakePages struct {
	mu     sync.Mutex
	pages  map[int]*models.MovieListPage
	errs   map[int]error
	calls  []int
	active atomic.Int32
	peak   atomic.Int32
}

func newFakePages(totalPages int, ids ...[]int64) *fakePages {
	f := &fakePages{pages: map[int]*models.MovieListPage{}, errs: map[int]error{}}
	for i, pageIDs := range ids {
		page := &models.MovieListPage{Page: i + 1, TotalPages: totalPages, Results: []models.MovieSummary{}}
		for _, id := range pageIDs {
			page.Results = append(page.Results, models.MovieSummary{ID: id, Title: "movie"})
		}
		f.pages[i+1] = page
	}
	return f
}

func (f *fakePages) fetch(_ context.Context, page int) (*models.MovieListPage, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if err := f.errs[page]; err != nil {
		return nil, err
	}
	res, ok := f.pages[page]
	if !ok {
		return nil, errors.New("unexpected page")
	}
	return res, nil
}

func (f *fakePages) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func movieIDs(movies []models.MovieSummary) []int64 {
	ids := make([]int64, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestPagerWalksToExhaustion(t *testing.T) {
	pages := newFakePages(3, []int64{1}, []int64{2}, []int64{3})
	p := NewPager(pages.fetch, PopularMessages)
	ctx := context.Background()

	issued, err := p.Start(ctx)
	require.NoError(t, err)
	require.True(t, issued)

	snap := p.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, 1, snap.CurrentPage)
	assert.True(t, snap.HasMore)

	for i := 0; i < 2; i++ {
		issued, err = p.LoadMore(ctx)
		require.NoError(t, err)
		require.True(t, issued)
	}

	snap = p.Snapshot()
	assert.Equal(t, StateExhausted, snap.State)
	assert.Equal(t, 3, snap.CurrentPage)
	assert.False(t, snap.HasMore)
	assert.Equal(t, []int64{1, 2, 3}, movieIDs(snap.Movies))

	issued, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, issued)
	assert.Equal(t, 3, pages.callCount())
}

func TestPagerAppendsSecondPage(t *testing.T) {
	pages := newFakePages(5, []int64{10}, []int64{20})
	p := NewPager(pages.fetch, PopularMessages)
	ctx := context.Background()

	_, err := p.Start(ctx)
	require.NoError(t, err)
	_, err = p.LoadMore(ctx)
	require.NoError(t, err)

	snap := p.Snapshot()
	assert.Equal(t, []int64{10, 20}, movieIDs(snap.Movies))
	assert.Equal(t, 2, snap.CurrentPage)
	assert.True(t, snap.HasMore)
	assert.Equal(t, []int{1, 2}, pages.calls)
}

func TestPagerSinglePageIsExhausted(t *testing.T) {
	pages := newFakePages(1, []int64{1, 2})
	p := NewPager(pages.fetch, PopularMessages)

	_, err := p.Start(context.Background())
	require.NoError(t, err)
	snap := p.Snapshot()
	assert.Equal(t, StateExhausted, snap.State)
	assert.False(t, snap.HasMore)
}

func TestPagerLoadMoreBeforeStartIsIgnored(t *testing.T) {
	pages := newFakePages(3, []int64{1})
	p := NewPager(pages.fetch, PopularMessages)

	issued, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, issued)
	assert.Zero(t, pages.callCount())
}

func TestPagerInitialFailure(t *testing.T) {
	pages := newFakePages(3, []int64{1})
	pages.errs[1] = errors.New("boom")
	p := NewPager(pages.fetch, PopularMessages)
	ctx := context.Background()

	issued, err := p.Start(ctx)
	require.Error(t, err)
	require.True(t, issued)

	snap := p.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "映画データの取得に失敗しました", snap.Message)
	assert.Empty(t, snap.Movies)
	assert.False(t, snap.HasMore)

	issued, _ = p.LoadMore(ctx)
	assert.False(t, issued, "no pages loaded yet")

	delete(pages.errs, 1)
	_, err = p.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, p.Snapshot().State)
	assert.Nil(t, p.Snapshot().Err)
}

func TestPagerLoadMoreFailureKeepsResults(t *testing.T) {
	pages := newFakePages(3, []int64{1}, []int64{2})
	pages.errs[2] = errors.New("boom")
	p := NewPager(pages.fetch, SearchMessages)
	ctx := context.Background()

	_, err := p.Start(ctx)
	require.NoError(t, err)
	_, err = p.LoadMore(ctx)
	require.Error(t, err)

	snap := p.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "追加の検索結果の取得に失敗しました", snap.Message)
	assert.Equal(t, []int64{1}, movieIDs(snap.Movies))
	assert.Equal(t, 1, snap.CurrentPage)

	delete(pages.errs, 2)
	issued, err := p.LoadMore(ctx)
	require.NoError(t, err)
	require.True(t, issued)
	assert.Equal(t, []int64{1, 2}, movieIDs(p.Snapshot().Movies))
	assert.Equal(t, []int{1, 2, 2}, pages.calls)
}

func TestPopularLoadMoreFailureMessage(t *testing.T) {
	pages := newFakePages(2, []int64{1}, []int64{2})
	pages.errs[2] = errors.New("boom")
	p := NewPager(pages.fetch, PopularMessages)
	ctx := context.Background()

	_, err := p.Start(ctx)
	require.NoError(t, err)
	_, err = p.LoadMore(ctx)
	require.Error(t, err)
	assert.Equal(t, "追加の映画データの取得に失敗しました", p.Snapshot().Message)
}

func TestPagerDropsTriggersWhileLoading(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context, page int) (*models.MovieListPage, error) {
		calls.Add(1)
		if page == 2 {
			close(started)
			<-release
		}
		return &models.MovieListPage{Page: page, TotalPages: 5, Results: []models.MovieSummary{{ID: int64(page)}}}, nil
	}
	p := NewPager(fetch, PopularMessages)
	ctx := context.Background()
	_, err := p.Start(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.LoadMore(ctx)
	}()
	<-started

	assert.Equal(t, StateLoadingMore, p.Snapshot().State)
	issued, err := p.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, issued)
	issued, _ = p.OnScroll(ctx, ScrollMetrics{Top: 1000, ClientHeight: 500, ScrollHeight: 1500})
	assert.False(t, issued)
	issued, _ = p.Start(ctx)
	assert.False(t, issued)

	close(release)
	<-done
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, p.Snapshot().CurrentPage)
}

func TestPagerOnScrollThreshold(t *testing.T) {
	pages := newFakePages(3, []int64{1}, []int64{2})
	p := NewPager(pages.fetch, PopularMessages)
	ctx := context.Background()
	_, err := p.Start(ctx)
	require.NoError(t, err)

	issued, err := p.OnScroll(ctx, ScrollMetrics{Top: 100, ClientHeight: 600, ScrollHeight: 1000})
	require.NoError(t, err)
	assert.False(t, issued)

	issued, err = p.OnScroll(ctx, ScrollMetrics{Top: 200, ClientHeight: 600, ScrollHeight: 1000})
	require.NoError(t, err)
	assert.True(t, issued)
	assert.Equal(t, 2, p.Snapshot().CurrentPage)
}

func TestScrollMetricsNearBottom(t *testing.T) {
	m := ScrollMetrics{Top: 199, ClientHeight: 600, ScrollHeight: 1000}
	assert.False(t, m.NearBottom(NearBottomThreshold))
	m.Top = 200
	assert.True(t, m.NearBottom(NearBottomThreshold))
}

func TestPagerPrefetchFeedsLoadMore(t *testing.T) {
	pages := newFakePages(4, []int64{1}, []int64{2}, []int64{3}, []int64{4})
	p := NewPager(pages.fetch, PopularMessages)
	ctx := context.Background()
	_, err := p.Start(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Prefetch(ctx, 2))
	assert.Equal(t, 3, pages.callCount())
	assert.Equal(t, []int64{1}, movieIDs(p.Snapshot().Movies), "prefetched pages stay hidden")

	for i := 0; i < 2; i++ {
		issued, err := p.LoadMore(ctx)
		require.NoError(t, err)
		require.True(t, issued)
	}
	assert.Equal(t, 3, pages.callCount(), "prefetched pages are served without a request")
	assert.Equal(t, []int64{1, 2, 3}, movieIDs(p.Snapshot().Movies))

	_, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, pages.callCount())
	assert.Equal(t, StateExhausted, p.Snapshot().State)
}

func TestPagerPrefetchStopsAtLastPage(t *testing.T) {
	pages := newFakePages(2, []int64{1}, []int64{2})
	p := NewPager(pages.fetch, PopularMessages)
	ctx := context.Background()
	_, err := p.Start(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, p.Prefetch(ctx, 0))
	assert.LessOrEqual(t, pages.peak.Load(), int32(DefaultPrefetchPages))
}

func TestPagerPrefetchFailureAbandonsBurst(t *testing.T) {
	pages := newFakePages(5, []int64{1}, []int64{2}, []int64{3})
	pages.errs[3] = errors.New("boom")
	p := NewPager(pages.fetch, PopularMessages)
	ctx := context.Background()
	_, err := p.Start(ctx)
	require.NoError(t, err)

	assert.Zero(t, p.Prefetch(ctx, 2))
	snap := p.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Err)
	assert.Equal(t, []int64{1}, movieIDs(snap.Movies))

	_, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 2}, sortedTail(pages.calls))
}

// sortedTail orders the concurrent burst in the middle of calls so the
// assertion does not depend on goroutine scheduling.
func sortedTail(calls []int) []int {
	out := append([]int(nil), calls...)
	if len(out) >= 3 && out[1] > out[2] {
		out[1], out[2] = out[2], out[1]
	}
	return out
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loadingInitial", StateLoadingInitial.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
	assert.Equal(t, "unknown", State(42).String())
}
