// Package cards turns catalog resources into the view models served to the
// browser and the terminal client.
package cards

import (
	"strconv"
	"strings"
	"time"

	"moviescope/models"
	"moviescope/services/bookmarks"
	"moviescope/services/catalog"
)

const (
	// MaxCast is how many billed cast members the detail view shows.
	MaxCast = 5

	NoOverview          = "概要がありません。"
	ProvidersFailed     = "視聴可能プラットフォームの取得に失敗しました"
	NoProvidersInRegion = "現在、日本での視聴可能プラットフォームはありません"
)

// Card builds the list entry for a movie.
func Card(m models.MovieSummary, bookmarked bool) models.MovieCard {
	return models.MovieCard{
		ID:          m.ID,
		Title:       m.Title,
		PosterURL:   catalog.ImageURLPtr(m.PosterPath, catalog.PosterSize),
		ReleaseDate: m.ReleaseDate,
		Year:        ReleaseYear(m.ReleaseDate),
		Rating:      RatingLabel(m.VoteAverage),
		Overview:    m.Overview,
		Critic:      Critic(m.Title),
		Bookmarked:  bookmarked,
	}
}

// BookmarkCard renders a saved entry like any other list card.
func BookmarkCard(e models.BookmarkEntry) models.MovieCard {
	return models.MovieCard{
		ID:          e.ID,
		Title:       e.Title,
		PosterURL:   catalog.ImageURLPtr(e.PosterPath, catalog.PosterSize),
		ReleaseDate: e.ReleaseDate,
		Year:        ReleaseYear(e.ReleaseDate),
		Rating:      RatingLabel(e.VoteAverage),
		Bookmarked:  true,
	}
}

// List builds the cards for one page of a listing. isBookmarked may be nil.
func List(page *models.MovieListPage, isBookmarked func(int64) bool) models.MovieListView {
	view := models.MovieListView{Movies: []models.MovieCard{}}
	if page == nil {
		return view
	}
	view.Page = page.Page
	view.TotalPages = page.TotalPages
	view.TotalResults = page.TotalResults
	view.HasMore = page.Page < page.TotalPages
	for _, m := range page.Results {
		view.Movies = append(view.Movies, Card(m, isBookmarked != nil && isBookmarked(m.ID)))
	}
	return view
}

// Detail builds the detail page. A nil providers set means the provider
// lookup failed; the rest of the page still renders.
func Detail(d *models.MovieDetail, providers *models.WatchProviderSet, region string, bookmarked bool) models.MovieDetailView {
	view := models.MovieDetailView{
		MovieCard:   Card(d.MovieSummary, bookmarked),
		BackdropURL: catalog.ImageURLPtr(d.BackdropPath, catalog.BackdropSize),
		Runtime:     RuntimeLabel(d.Runtime),
		Status:      d.Status,
		Tagline:     d.Tagline,
		Providers:   []models.ProviderCard{},
	}
	if strings.TrimSpace(view.Overview) == "" {
		view.Overview = NoOverview
	}
	for _, g := range d.Genres {
		view.Genres = append(view.Genres, g.Name)
	}
	for i, c := range d.Cast() {
		if i == MaxCast {
			break
		}
		view.Cast = append(view.Cast, models.CastCard{
			ID:         c.ID,
			Name:       c.Name,
			Character:  c.Character,
			ProfileURL: catalog.ImageURLPtr(c.ProfilePath, catalog.ProfileSize),
		})
	}

	if providers == nil {
		view.ProvidersMessage = ProvidersFailed
		return view
	}
	streaming, link := providers.Streaming(region)
	if len(streaming) == 0 {
		view.ProvidersMessage = NoProvidersInRegion
		return view
	}
	for _, p := range streaming {
		view.Providers = append(view.Providers, models.ProviderCard{
			ID:      p.ProviderID,
			Name:    p.ProviderName,
			LogoURL: catalog.ImageURL(p.LogoPath, catalog.LogoSize),
			Link:    link,
		})
	}
	return view
}

// RatingLabel formats a vote average with one decimal; zero means unrated.
func RatingLabel(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// RuntimeLabel renders minutes as "n分"; unknown or zero runtimes render empty.
func RuntimeLabel(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return ""
	}
	return strconv.Itoa(*minutes) + "分"
}

func BadgeLabel(count int) string {
	return bookmarks.BadgeLabel(count)
}

// ReleaseYear extracts the year from a YYYY-MM-DD date, or 0.
func ReleaseYear(date string) int {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return 0
	}
	return t.Year()
}
