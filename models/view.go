package models

// MovieCard is the view model rendered for list and grid entries.
type MovieCard struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PosterURL   string `json:"posterUrl,omitempty"` // empty means render a placeholder
	ReleaseDate string `json:"releaseDate,omitempty"`
	Year        int    `json:"year,omitempty"`
	Rating      string `json:"rating"`
	Overview    string `json:"overview,omitempty"`
	Critic      string `json:"critic,omitempty"`
	Bookmarked  bool   `json:"bookmarked"`
}

type CastCard struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Character  string `json:"character,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

type ProviderCard struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
	Link    string `json:"link,omitempty"`
}

// MovieDetailView is the view model of the movie detail page.
type MovieDetailView struct {
	MovieCard
	BackdropURL      string         `json:"backdropUrl,omitempty"`
	Genres           []string       `json:"genres,omitempty"`
	Runtime          string         `json:"runtime,omitempty"`
	Status           string         `json:"status,omitempty"`
	Tagline          string         `json:"tagline,omitempty"`
	Cast             []CastCard     `json:"cast,omitempty"`
	Providers        []ProviderCard `json:"providers"`
	ProvidersMessage string         `json:"providersMessage,omitempty"`
}

// MovieListView is a page of cards plus pagination state.
type MovieListView struct {
	Page         int         `json:"page"`
	TotalPages   int         `json:"totalPages"`
	TotalResults int         `json:"totalResults"`
	HasMore      bool        `json:"hasMore"`
	Language     string      `json:"language,omitempty"`
	Movies       []MovieCard `json:"movies"`
}
