package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"moviescope/config"
	"moviescope/models"
	"moviescope/services/browse"
	"moviescope/services/cards"
	"moviescope/services/catalog"
)

const (
	errInvalidMovieID = "invalid movie id"
	errMovieNotFound  = "映画が見つかりませんでした"
)

type bookmarkLookup interface {
	Contains(id int64) bool
}

// CatalogHandler serves the server-rendered read paths: popular, search and
// movie detail, already shaped into view models.
type CatalogHandler struct {
	Catalog   catalog.Catalog
	Bookmarks bookmarkLookup

	language         string
	fallbackLanguage string
	region           string
}

func NewCatalogHandler(c catalog.Catalog, bookmarks bookmarkLookup, settings config.CatalogSettings) *CatalogHandler {
	return &CatalogHandler{
		Catalog:          c,
		Bookmarks:        bookmarks,
		language:         settings.Language,
		fallbackLanguage: settings.FallbackLanguage,
		region:           settings.Region,
	}
}

func (h *CatalogHandler) Popular(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	res, err := h.Catalog.FetchPopular(r.Context(), h.language, page)
	if err != nil {
		log.Printf("[catalog] popular page %d: %v", page, err)
		writeJSONError(w, failureMessage(browse.PopularMessages, page), http.StatusBadGateway)
		return
	}
	view := cards.List(res, h.isBookmarked)
	view.Language = h.language
	writeJSON(w, http.StatusOK, view)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, cards.List(nil, nil))
		return
	}
	page := pageParam(r)
	res, lang, err := browse.SearchWithFallback(r.Context(), h.Catalog, q, h.language, h.fallbackLanguage, page)
	if err != nil {
		log.Printf("[catalog] search %q page %d: %v", q, page, err)
		writeJSONError(w, failureMessage(browse.SearchMessages, page), http.StatusBadGateway)
		return
	}
	view := cards.List(res, h.isBookmarked)
	view.Language = lang
	writeJSON(w, http.StatusOK, view)
}

// Detail serves the movie page. Providers are looked up alongside the detail;
// when that lookup fails the page still renders with a message in its place.
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, errInvalidMovieID, http.StatusBadRequest)
		return
	}

	providersCh := make(chan *models.WatchProviderSet, 1)
	go func() {
		providersCh <- h.providers(r.Context(), id)
	}()

	detail, err := h.Catalog.FetchDetail(r.Context(), id, h.language)
	if err != nil {
		<-providersCh
		log.Printf("[catalog] detail %d: %v", id, err)
		if catalog.StatusOf(err) == http.StatusNotFound {
			writeJSONError(w, errMovieNotFound, http.StatusNotFound)
			return
		}
		writeJSONError(w, browse.PopularMessages.Initial, http.StatusBadGateway)
		return
	}

	providers := <-providersCh
	writeJSON(w, http.StatusOK, cards.Detail(detail, providers, h.region, h.isBookmarked(id)))
}

func (h *CatalogHandler) providers(ctx context.Context, id int64) *models.WatchProviderSet {
	set, err := h.Catalog.FetchProviders(ctx, id)
	if err != nil {
		log.Printf("[catalog] providers %d: %v", id, err)
		return nil
	}
	return set
}

func (h *CatalogHandler) isBookmarked(id int64) bool {
	return h.Bookmarks != nil && h.Bookmarks.Contains(id)
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func failureMessage(m browse.Messages, page int) string {
	if page > 1 {
		return m.More
	}
	return m.Initial
}
