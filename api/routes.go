package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"moviescope/handlers"
	"moviescope/internal/metrics"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Gateway   *handlers.GatewayHandler
	Catalog   *handlers.CatalogHandler
	Bookmarks *handlers.BookmarksHandler
	Health    *handlers.HealthHandler
}

// NewRouter builds the root router with the middlewares every route shares.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware, metrics.Middleware)
	return r
}

// Register mounts API endpoints onto the provided router.
func Register(r *mux.Router, h Handlers) {
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health.Healthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	api.HandleFunc("/tmdb", h.Gateway.Proxy).Methods(http.MethodGet)
	api.HandleFunc("/tmdb", handlers.Options).Methods(http.MethodOptions)

	api.HandleFunc("/movies/popular", h.Catalog.Popular).Methods(http.MethodGet)
	api.HandleFunc("/movies/search", h.Catalog.Search).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id:[0-9]+}", h.Catalog.Detail).Methods(http.MethodGet)
	api.HandleFunc("/movies/{path:.*}", handlers.Options).Methods(http.MethodOptions)

	// Static segments are registered before the {id} routes so they win.
	api.HandleFunc("/bookmarks", h.Bookmarks.List).Methods(http.MethodGet)
	api.HandleFunc("/bookmarks/count", h.Bookmarks.Count).Methods(http.MethodGet)
	api.HandleFunc("/bookmarks/events", h.Bookmarks.Events).Methods(http.MethodGet)
	api.HandleFunc("/bookmarks/{id:[0-9]+}", h.Bookmarks.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookmarks/{id:[0-9]+}", h.Bookmarks.Put).Methods(http.MethodPut)
	api.HandleFunc("/bookmarks/{id:[0-9]+}", h.Bookmarks.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/bookmarks", handlers.Options).Methods(http.MethodOptions)
	api.HandleFunc("/bookmarks/{path:.*}", handlers.Options).Methods(http.MethodOptions)
}
