package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"moviescope/config"
	"moviescope/models"
	"moviescope/services/bookmarks"
	"moviescope/services/browse"
	"moviescope/services/cards"
	"moviescope/services/catalog"
)

var errQuit = errors.New("quit")

const helpText = `commands:
  popular            list popular movies
  search <query>     search by title
  more               load the next page
  prefetch           fetch the next pages in the background
  filter <term>      narrow the loaded results by title
  show <id>          movie detail and streaming providers
  save <id>          toggle a movie on the watch later list
  list               show the watch later list
  quit
`

// listing is what the popular pager and the search controller share.
type listing interface {
	LoadMore(ctx context.Context) (bool, error)
	Prefetch(ctx context.Context, n int) int
	Snapshot() browse.Snapshot
}

type session struct {
	catalog  catalog.Catalog
	saved    *bookmarks.Service
	settings config.CatalogSettings
	out      io.Writer

	popular *browse.Pager
	search  *browse.Search
	active  listing
	shown   map[int64]models.MovieSummary

	unsubscribe func()
}

func newSession(c catalog.Catalog, saved *bookmarks.Service, settings config.CatalogSettings, out io.Writer) *session {
	s := &session{
		catalog:  c,
		saved:    saved,
		settings: settings,
		out:      out,
		search:   browse.NewSearch(c, settings.Language, settings.FallbackLanguage),
		shown:    make(map[int64]models.MovieSummary),
	}
	s.popular = browse.NewPopularPager(c, settings.Language)
	s.unsubscribe = saved.Subscribe(func() {
		fmt.Fprintf(s.out, "[watch later: %d]\n", saved.Count())
	})
	return s
}

func (s *session) close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *session) prompt() string {
	if badge := s.saved.BadgeLabel(); badge != "" {
		return "moviescope (" + badge + ")> "
	}
	return "moviescope> "
}

func (s *session) exec(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "help", "?":
		fmt.Fprint(s.out, helpText)
		return nil
	case "quit", "exit":
		return errQuit
	case "popular":
		s.active = s.popular
		if _, err := s.popular.Start(ctx); err != nil {
			return s.failure(s.popular.Snapshot())
		}
		s.printListing(s.popular.Snapshot().Movies)
		return nil
	case "search":
		s.active = s.search
		if _, err := s.search.SetQuery(ctx, arg); err != nil {
			return s.failure(s.search.Snapshot())
		}
		s.printListing(s.search.Snapshot().Movies)
		return nil
	case "more":
		return s.more(ctx)
	case "prefetch":
		if s.active == nil {
			return errors.New("nothing to prefetch; run popular or search first")
		}
		n := s.active.Prefetch(ctx, browse.DefaultPrefetchPages)
		fmt.Fprintf(s.out, "prefetched %d page(s)\n", n)
		return nil
	case "filter":
		s.printListing(browse.Filter(s.loaded(), arg))
		return nil
	case "show":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		return s.show(ctx, id)
	case "save":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		return s.toggle(id)
	case "list":
		s.printBookmarks()
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *session) more(ctx context.Context) error {
	if s.active == nil {
		return errors.New("nothing to page; run popular or search first")
	}
	before := len(s.active.Snapshot().Movies)
	issued, err := s.active.LoadMore(ctx)
	snap := s.active.Snapshot()
	if err != nil {
		return s.failure(snap)
	}
	if !issued {
		fmt.Fprintln(s.out, "no more results")
		return nil
	}
	s.printListing(snap.Movies[before:])
	return nil
}

func (s *session) show(ctx context.Context, id int64) error {
	detail, err := s.catalog.FetchDetail(ctx, id, s.settings.Language)
	if err != nil {
		return err
	}
	providers, err := s.catalog.FetchProviders(ctx, id)
	if err != nil {
		providers = nil
	}
	s.shown[id] = detail.MovieSummary
	view := cards.Detail(detail, providers, s.settings.Region, s.saved.Contains(id))

	fmt.Fprintf(s.out, "%s (%d)  ★ %s  %s\n", view.Title, view.Year, view.Rating, view.Runtime)
	if view.Tagline != "" {
		fmt.Fprintf(s.out, "  %q\n", view.Tagline)
	}
	fmt.Fprintf(s.out, "  %s\n", view.Overview)
	if view.Critic != "" {
		fmt.Fprintf(s.out, "  専門家の一言: %q\n", view.Critic)
	}
	if len(view.Genres) > 0 {
		fmt.Fprintf(s.out, "  genres: %s\n", strings.Join(view.Genres, ", "))
	}
	for _, c := range view.Cast {
		fmt.Fprintf(s.out, "  cast: %s as %s\n", c.Name, c.Character)
	}
	if view.ProvidersMessage != "" {
		fmt.Fprintf(s.out, "  %s\n", view.ProvidersMessage)
	}
	for _, p := range view.Providers {
		fmt.Fprintf(s.out, "  watch on %s\n", p.Name)
	}
	return nil
}

func (s *session) toggle(id int64) error {
	movie, ok := s.lookup(id)
	if !ok && !s.saved.Contains(id) {
		return fmt.Errorf("movie %d is not loaded; list or show it first", id)
	}
	added, err := s.saved.Toggle(models.BookmarkFromSummary(movie))
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(s.out, "saved %s\n", movie.Title)
	} else {
		fmt.Fprintf(s.out, "removed %d\n", id)
	}
	return nil
}

func (s *session) lookup(id int64) (models.MovieSummary, bool) {
	if m, ok := s.shown[id]; ok {
		return m, true
	}
	for _, m := range s.loaded() {
		if m.ID == id {
			return m, true
		}
	}
	return models.MovieSummary{ID: id}, false
}

func (s *session) loaded() []models.MovieSummary {
	if s.active == nil {
		return nil
	}
	return s.active.Snapshot().Movies
}

func (s *session) failure(snap browse.Snapshot) error {
	if snap.Message != "" {
		return errors.New(snap.Message)
	}
	return snap.Err
}

func (s *session) printListing(movies []models.MovieSummary) {
	if len(movies) == 0 {
		fmt.Fprintln(s.out, "no results")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, m := range movies {
		card := cards.Card(m, s.saved.Contains(m.ID))
		mark := " "
		if card.Bookmarked {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", mark, card.ID, card.Title, card.ReleaseDate, card.Rating)
	}
	tw.Flush()
	if s.active != nil && s.active.Snapshot().HasMore {
		fmt.Fprintln(s.out, "(more available)")
	}
}

func (s *session) printBookmarks() {
	items := s.saved.List()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "watch later list is empty")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, e := range items {
		card := cards.BookmarkCard(e)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", card.ID, card.Title, card.ReleaseDate, card.Rating)
	}
	tw.Flush()
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", arg)
	}
	return id, nil
}
