package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"moviescope/models"
	"moviescope/services/bookmarks"
	"moviescope/services/cards"
)

const sseKeepAlive = 25 * time.Second

type bookmarkService interface {
	Add(models.BookmarkInput) (models.BookmarkEntry, error)
	Remove(id int64) (bool, error)
	Get(id int64) (models.BookmarkEntry, bool)
	List() []models.BookmarkEntry
	Count() int
	Subscribe(bookmarks.Listener) func()
}

var _ bookmarkService = (*bookmarks.Service)(nil)

type BookmarksHandler struct {
	Service bookmarkService
}

func NewBookmarksHandler(s bookmarkService) *BookmarksHandler {
	return &BookmarksHandler{Service: s}
}

type bookmarkListResponse struct {
	Items []models.BookmarkEntry `json:"items"`
	Cards []models.MovieCard     `json:"cards"`
	Count int                    `json:"count"`
}

func (h *BookmarksHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Service.List()
	resp := bookmarkListResponse{
		Items: items,
		Cards: make([]models.MovieCard, 0, len(items)),
		Count: len(items),
	}
	for _, e := range items {
		resp.Cards = append(resp.Cards, cards.BookmarkCard(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookmarksHandler) Count(w http.ResponseWriter, r *http.Request) {
	count := h.Service.Count()
	writeJSON(w, http.StatusOK, map[string]any{
		"count": count,
		"badge": cards.BadgeLabel(count),
	})
}

func (h *BookmarksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}
	entry, found := h.Service.Get(id)
	if !found {
		writeJSONError(w, "bookmark not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Put adds the movie named in the path. The body carries the display fields;
// its id, when present, must match the path.
func (h *BookmarksHandler) Put(w http.ResponseWriter, r *http.Request) {
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}
	var input models.BookmarkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if input.ID != 0 && input.ID != id {
		writeJSONError(w, "id does not match path", http.StatusBadRequest)
		return
	}
	input.ID = id

	entry, err := h.Service.Add(input)
	switch {
	case errors.Is(err, bookmarks.ErrInvalidBookmark):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Printf("[bookmarks] persist add %d: %v", id, err)
		writeJSONError(w, "failed to save bookmark", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *BookmarksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}
	if _, err := h.Service.Remove(id); err != nil {
		log.Printf("[bookmarks] persist remove %d: %v", id, err)
		writeJSONError(w, "failed to save bookmark", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events streams one "changed" event per mutation until the client goes away.
func (h *BookmarksHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// The stream outlives the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	changed := make(chan struct{}, 16)
	unsubscribe := h.Service.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "event: ready\ndata: {\"count\":%d}\n\n", h.Service.Count())
	flusher.Flush()

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-changed:
			fmt.Fprintf(w, "event: changed\ndata: {\"count\":%d}\n\n", h.Service.Count())
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

func bookmarkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, errInvalidMovieID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
