// Command browse is a terminal client for a running moviescope server. It
// talks to the catalog through the server's gateway and keeps its own watch
// later list in local storage.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/afero"

	"moviescope/config"
	"moviescope/internal/localstore"
	"moviescope/services/bookmarks"
	"moviescope/services/catalog"
)

func main() {
	var (
		configPath = flag.String("config", "cache/settings.json", "Path to backend settings.json")
		server     = flag.String("server", "http://localhost:7878", "Base URL of the moviescope server")
		storeDir   = flag.String("store", "", "Directory for the local watch later list (defaults to bookmarks.directory)")
	)
	flag.Parse()

	settings := config.DefaultSettings()
	loaded, err := config.NewManager(*configPath).LoadExisting()
	switch {
	case err == nil:
		settings = loaded
	case errors.Is(err, fs.ErrNotExist):
	default:
		log.Printf("load settings: %v (using defaults)", err)
	}
	dir := *storeDir
	if dir == "" {
		dir = settings.Bookmarks.Directory
	}

	store, err := localstore.NewFileStore(afero.NewOsFs(), dir)
	if err != nil {
		log.Fatalf("open local storage: %v", err)
	}
	saved, err := bookmarks.NewService(store)
	if err != nil {
		log.Fatalf("bookmarks: %v", err)
	}

	transport := catalog.NewGatewayTransport(*server, &http.Client{Timeout: 30 * time.Second})
	client := catalog.NewClient(transport, settings.Catalog.Language)
	s := newSession(client, saved, settings.Catalog, os.Stdout)
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintln(os.Stdout, "moviescope browser. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, s.prompt())
		if !scanner.Scan() {
			return
		}
		if err := s.exec(ctx, scanner.Text()); err != nil {
			if err == errQuit {
				return
			}
			fmt.Fprintf(os.Stdout, "error: %v\n", err)
		}
	}
}
