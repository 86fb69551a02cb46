package bookmarks

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviescope/internal/localstore"
	"moviescope/models"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService(t *testing.T) (*Service, localstore.Store) {
	t.Helper()
	store, err := localstore.NewFileStore(afero.NewMemMapFs(), "/localstorage")
	require.NoError(t, err)
	svc, err := NewService(store)
	require.NoError(t, err)
	clock := &stepClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc.now = clock.now
	return svc, store
}

func movie(id int64, title string) models.BookmarkInput {
	poster := fmt.Sprintf("/poster-%d.jpg", id)
	return models.BookmarkInput{ID: id, Title: title, PosterPath: &poster, ReleaseDate: "2024-05-01", VoteAverage: 7.5}
}

func TestAddContainsRemove(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add(movie(10, "A"))
	require.NoError(t, err)
	assert.True(t, svc.Contains(10))
	assert.Equal(t, 1, svc.Count())

	existed, err := svc.Remove(10)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.False(t, svc.Contains(10))

	existed, err = svc.Remove(10)
	require.NoError(t, err)
	assert.False(t, existed, "removing a missing id is a no-op")
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	for _, m := range []models.BookmarkInput{movie(1, "A"), movie(2, "B"), movie(3, "C")} {
		_, err := svc.Add(m)
		require.NoError(t, err)
	}

	list := svc.List()
	require.Len(t, list, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestDuplicateAddRefreshesAddedAt(t *testing.T) {
	svc, _ := newTestService(t)
	first, err := svc.Add(movie(1, "A"))
	require.NoError(t, err)
	_, err = svc.Add(movie(2, "B"))
	require.NoError(t, err)
	second, err := svc.Add(movie(1, "A (updated)"))
	require.NoError(t, err)

	assert.Equal(t, 2, svc.Count())
	assert.Greater(t, second.AddedAt, first.AddedAt)

	list := svc.List()
	assert.Equal(t, int64(1), list[0].ID, "re-added movie moves to the front")
	assert.Equal(t, "A (updated)", list[0].Title)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Add(models.BookmarkInput{ID: 0, Title: "x"})
	assert.Error(t, err)
	_, err = svc.Add(models.BookmarkInput{ID: 5, Title: ""})
	assert.Error(t, err)
	_, err = svc.Add(models.BookmarkInput{ID: 5, Title: "x", VoteAverage: 11})
	assert.ErrorIs(t, err, ErrInvalidBookmark)
	assert.Zero(t, svc.Count())
}

func TestPersistsAcrossInstances(t *testing.T) {
	svc, store := newTestService(t)
	_, err := svc.Add(movie(7, "Seven"))
	require.NoError(t, err)
	_, err = svc.Add(movie(8, "Eight"))
	require.NoError(t, err)

	reloaded, err := NewService(store)
	require.NoError(t, err)
	assert.Equal(t, svc.List(), reloaded.List())
}

func TestCorruptStorageDegradesToEmpty(t *testing.T) {
	store, err := localstore.NewFileStore(afero.NewMemMapFs(), "/ls")
	require.NoError(t, err)
	require.NoError(t, store.SetItem(StorageKey, "{not json"))

	svc, err := NewService(store)
	require.NoError(t, err)
	assert.Zero(t, svc.Count())
	assert.Empty(t, svc.List())

	_, err = svc.Add(movie(1, "A"))
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Count())
}

type failingStore struct{ localstore.Store }

func (failingStore) GetItem(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingStore) SetItem(string, string) error         { return errors.New("disk gone") }

func TestReadFailureDegradesToEmpty(t *testing.T) {
	svc, err := NewService(failingStore{})
	require.NoError(t, err)
	assert.Zero(t, svc.Count())

	_, err = svc.Add(movie(1, "A"))
	assert.Error(t, err, "persist failure is reported")
	assert.False(t, svc.Contains(1))
}

// flakyStore wraps a working store and fails writes while broken is set.
type flakyStore struct {
	localstore.Store
	broken bool
}

func (s *flakyStore) SetItem(key, value string) error {
	if s.broken {
		return errors.New("disk full")
	}
	return s.Store.SetItem(key, value)
}

func TestFailedSaveRollsBack(t *testing.T) {
	base, err := localstore.NewFileStore(afero.NewMemMapFs(), "/localstorage")
	require.NoError(t, err)
	store := &flakyStore{Store: base}
	svc, err := NewService(store)
	require.NoError(t, err)

	first, err := svc.Add(movie(1, "A"))
	require.NoError(t, err)

	var calls atomic.Int32
	svc.Subscribe(func() { calls.Add(1) })
	store.broken = true

	_, err = svc.Add(movie(7, "G"))
	require.Error(t, err)
	assert.False(t, svc.Contains(7))

	_, err = svc.Add(movie(1, "A renamed"))
	require.Error(t, err)
	got, ok := svc.Get(1)
	require.True(t, ok)
	assert.Equal(t, first, got, "previous entry is restored")

	existed, err := svc.Remove(1)
	require.Error(t, err)
	assert.False(t, existed)
	assert.True(t, svc.Contains(1))

	assert.Equal(t, 1, svc.Count())
	assert.Zero(t, calls.Load(), "failed mutations notify nobody")

	store.broken = false
	reloaded, err := NewService(base)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Count())
}

func TestSubscribeNotifiesEveryMutation(t *testing.T) {
	svc, _ := newTestService(t)
	var calls atomic.Int32
	var seen []int
	unsubscribe := svc.Subscribe(func() {
		calls.Add(1)
		seen = append(seen, svc.Count())
	})

	_, _ = svc.Add(movie(1, "A"))
	_, _ = svc.Add(movie(2, "B"))
	_, _ = svc.Remove(1)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []int{1, 2, 1}, seen)

	unsubscribe()
	unsubscribe()
	_, _ = svc.Add(movie(3, "C"))
	assert.Equal(t, int32(3), calls.Load())
}

func TestToggle(t *testing.T) {
	svc, _ := newTestService(t)
	in, err := svc.Toggle(movie(4, "Four"))
	require.NoError(t, err)
	assert.True(t, in)

	in, err = svc.Toggle(movie(4, "Four"))
	require.NoError(t, err)
	assert.False(t, in)
	assert.Zero(t, svc.Count())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	poster := "/p.jpg"
	cases := map[string]map[int64]models.BookmarkEntry{
		"empty": {},
		"one":   {1: {ID: 1, Title: "One", PosterPath: &poster, ReleaseDate: "2020-01-01", VoteAverage: 6.1, AddedAt: 1700000000000}},
		"many": {
			1:  {ID: 1, Title: "One", PosterPath: nil, VoteAverage: 0, AddedAt: 1},
			22: {ID: 22, Title: "二十二", PosterPath: &poster, ReleaseDate: "1999-12-31", VoteAverage: 9.9, AddedAt: 2},
			33: {ID: 33, Title: "Thirty-three", AddedAt: 3},
		},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := Encode(items)
			require.NoError(t, err)
			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, items, decoded)
		})
	}
}

func TestDecodeReadsBrowserLayout(t *testing.T) {
	raw := `{"550":{"id":550,"title":"Fight Club","poster_path":"/f.jpg","vote_average":8.4,"addedAt":1712345678901,"extra":"ignored"}}`
	items, err := Decode([]byte(raw))
	require.NoError(t, err)
	require.Contains(t, items, int64(550))
	assert.Equal(t, int64(1712345678901), items[550].AddedAt)
	assert.Equal(t, "/f.jpg", *items[550].PosterPath)

	_, err = Decode([]byte(`{"abc":{"id":1}}`))
	assert.Error(t, err)
}

func TestBadgeLabel(t *testing.T) {
	assert.Equal(t, "", BadgeLabel(0))
	assert.Equal(t, "5", BadgeLabel(5))
	assert.Equal(t, "99", BadgeLabel(99))
	assert.Equal(t, "99+", BadgeLabel(100))
}
