package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"moviescope/internal/localstore"
	"moviescope/models"
)

// StorageKey is the local storage key holding the serialized bookmark map.
const StorageKey = "watchLaterMovies"

var (
	ErrStorageRequired = errors.New("bookmark storage not provided")
	ErrInvalidBookmark = errors.New("invalid bookmark")
)

// Listener is notified after every mutation. It carries no payload; read
// Count or List to observe the new state.
type Listener func()

// Service manages the watch later list. The whole map is persisted under a
// single key on every mutation; the last writer wins.
type Service struct {
	mu       sync.RWMutex
	store    localstore.Store
	validate *validator.Validate
	now      func() time.Time

	loadOnce sync.Once
	items    map[int64]models.BookmarkEntry

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// NewService creates a bookmark service over the given local storage. The
// stored map is read lazily on first use.
func NewService(store localstore.Store) (*Service, error) {
	if store == nil {
		return nil, ErrStorageRequired
	}
	return &Service{
		store:     store,
		validate:  validator.New(),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}, nil
}

// Load reads the persisted map. A missing key or an unreadable value leaves
// the list empty; the failure is only logged.
func (s *Service) Load() {
	s.loadOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.items = s.readLocked()
	})
}

func (s *Service) readLocked() map[int64]models.BookmarkEntry {
	items := make(map[int64]models.BookmarkEntry)

	raw, ok, err := s.store.GetItem(StorageKey)
	if err != nil {
		log.Printf("[bookmarks] failed to read %s: %v", StorageKey, err)
		return items
	}
	if !ok || raw == "" {
		return items
	}

	decoded, err := Decode([]byte(raw))
	if err != nil {
		log.Printf("[bookmarks] ignoring unreadable %s: %v", StorageKey, err)
		return items
	}
	return decoded
}

// Add bookmarks a movie, stamping the current time. Re-adding an existing
// movie replaces the entry and refreshes AddedAt. A failed save leaves the
// list unchanged and notifies nobody.
func (s *Service) Add(input models.BookmarkInput) (models.BookmarkEntry, error) {
	if err := s.validate.Struct(input); err != nil {
		return models.BookmarkEntry{}, fmt.Errorf("%w: %w", ErrInvalidBookmark, err)
	}
	s.Load()

	entry := models.BookmarkEntry{
		ID:          input.ID,
		Title:       input.Title,
		PosterPath:  input.PosterPath,
		ReleaseDate: input.ReleaseDate,
		VoteAverage: input.VoteAverage,
		AddedAt:     s.now().UnixMilli(),
	}

	s.mu.Lock()
	prev, existed := s.items[entry.ID]
	s.items[entry.ID] = entry
	if err := s.saveLocked(); err != nil {
		if existed {
			s.items[entry.ID] = prev
		} else {
			delete(s.items, entry.ID)
		}
		s.mu.Unlock()
		return models.BookmarkEntry{}, err
	}
	s.mu.Unlock()

	s.notify()
	return entry, nil
}

// Remove deletes a bookmark if present. It reports whether an entry existed.
func (s *Service) Remove(id int64) (bool, error) {
	s.Load()

	s.mu.Lock()
	prev, existed := s.items[id]
	delete(s.items, id)
	if err := s.saveLocked(); err != nil {
		if existed {
			s.items[id] = prev
		}
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.notify()
	return existed, nil
}

// Toggle adds the movie when absent and removes it otherwise. It returns the
// resulting membership.
func (s *Service) Toggle(input models.BookmarkInput) (bool, error) {
	if s.Contains(input.ID) {
		_, err := s.Remove(input.ID)
		return false, err
	}
	_, err := s.Add(input)
	return err == nil, err
}

func (s *Service) Contains(id int64) bool {
	s.Load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

func (s *Service) Get(id int64) (models.BookmarkEntry, bool) {
	s.Load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.items[id]
	return entry, ok
}

// List returns all bookmarks, most recently added first.
func (s *Service) List() []models.BookmarkEntry {
	s.Load()
	s.mu.RLock()
	items := make([]models.BookmarkEntry, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	s.mu.RUnlock()

	sortNewestFirst(items)
	return items
}

func (s *Service) Count() int {
	s.Load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// BadgeLabel renders the header badge: empty when there are no bookmarks and
// capped at "99+".
func (s *Service) BadgeLabel() string {
	return BadgeLabel(s.Count())
}

func BadgeLabel(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > 99:
		return "99+"
	default:
		return strconv.Itoa(count)
	}
}

// Subscribe registers fn for change notifications and returns a function that
// removes it.
func (s *Service) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

func (s *Service) notify() {
	s.listenersMu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Service) saveLocked() error {
	data, err := Encode(s.items)
	if err != nil {
		return err
	}
	if err := s.store.SetItem(StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist bookmarks: %w", err)
	}
	return nil
}

// Encode serializes the bookmark map as a JSON object keyed by movie ID.
func Encode(items map[int64]models.BookmarkEntry) ([]byte, error) {
	byID := make(map[string]models.BookmarkEntry, len(items))
	for id, item := range items {
		byID[strconv.FormatInt(id, 10)] = item
	}
	data, err := json.Marshal(byID)
	if err != nil {
		return nil, fmt.Errorf("encode bookmarks: %w", err)
	}
	return data, nil
}

// Decode parses the persisted map. Entries are keyed by the object key; an
// entry whose key is not a movie ID fails the whole decode.
func Decode(data []byte) (map[int64]models.BookmarkEntry, error) {
	var byID map[string]models.BookmarkEntry
	if err := json.Unmarshal(data, &byID); err != nil {
		return nil, fmt.Errorf("decode bookmarks: %w", err)
	}
	items := make(map[int64]models.BookmarkEntry, len(byID))
	for key, item := range byID {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode bookmarks: invalid id %q", key)
		}
		item.ID = id
		items[id] = item
	}
	return items, nil
}

func sortNewestFirst(items []models.BookmarkEntry) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt == items[j].AddedAt {
			return items[i].ID > items[j].ID
		}
		return items[i].AddedAt > items[j].AddedAt
	})
}
