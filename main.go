package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"moviescope/api"
	"moviescope/config"
	"moviescope/handlers"
	"moviescope/internal/localstore"
	"moviescope/internal/logger"
	"moviescope/internal/metrics"
	"moviescope/services/bookmarks"
	"moviescope/services/catalog"
)

var version = "dev"

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🎬 moviescope starting...")

	configPath := os.Getenv("MOVIESCOPE_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("invalid settings in %s: %v", cfgManager.Path(), err)
	}

	out, closer, err := logger.Output(settings.Log)
	if err != nil {
		log.Printf("Warning: could not open log file %s: %v", settings.Log.File, err)
	}
	defer closer.Close()
	logger.Setup(out, logger.New(out, settings.Log.Format, settings.Log.Level))
	if settings.Log.File != "" {
		log.Printf("Logging to file: %s", settings.Log.File)
	}

	if settings.Catalog.APIKey == "" {
		fmt.Println("⚠️  TMDB API key not configured; catalog requests will fail until catalog.apiKey or TMDB_API_KEY is set.")
	}

	store, err := openBookmarkStore(settings.Bookmarks)
	if err != nil {
		log.Fatalf("failed to open bookmark storage: %v", err)
	}
	if c, ok := store.(interface{ Close() error }); ok {
		defer c.Close()
	}

	bookmarkService, err := bookmarks.NewService(store)
	if err != nil {
		log.Fatalf("failed to create bookmark service: %v", err)
	}
	bookmarkService.Subscribe(func() {
		metrics.Bookmarks.Set(float64(bookmarkService.Count()))
	})
	bookmarkService.Load()
	metrics.Bookmarks.Set(float64(bookmarkService.Count()))

	httpClient := &http.Client{Timeout: 15 * time.Second}
	catalogClient := catalog.NewClient(
		catalog.NewDirectTransport(settings.Catalog.BaseURL, settings.Catalog.APIKey, httpClient),
		settings.Catalog.Language,
	)

	r := api.NewRouter()
	api.Register(r, api.Handlers{
		Gateway:   handlers.NewGatewayHandler(settings.Catalog, httpClient),
		Catalog:   handlers.NewCatalogHandler(catalogClient, bookmarkService, settings.Catalog),
		Bookmarks: handlers.NewBookmarksHandler(bookmarkService),
		Health:    handlers.NewHealthHandler(version),
	})

	addr := settings.Server.Addr()
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(settings.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(settings.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	// Bookmark event streams only end when their request context does.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	srv.BaseContext = func(net.Listener) context.Context { return baseCtx }
	srv.RegisterOnShutdown(cancelStreams)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}

func openBookmarkStore(cfg config.BookmarkSettings) (localstore.Store, error) {
	switch cfg.Backend {
	case config.BookmarkBackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			return nil, err
		}
		store, err := localstore.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		log.Printf("[bookmarks] using sqlite storage at %s", cfg.DatabasePath)
		return store, nil
	default:
		store, err := localstore.NewFileStore(afero.NewOsFs(), cfg.Directory)
		if err != nil {
			return nil, err
		}
		log.Printf("[bookmarks] using file storage in %s", cfg.Directory)
		return store, nil
	}
}
