package models

// Catalog payload shapes. Field names follow the TMDB wire format so pages can
// be relayed to views without re-mapping.

// MovieSummary is a single entry of a movie list page.
type MovieSummary struct {
	ID           int64   `json:"id" validate:"gt=0"`
	Title        string  `json:"title"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	VoteAverage  float64 `json:"vote_average" validate:"gte=0,lte=10"`
	Overview     string  `json:"overview,omitempty"`
	BackdropPath *string `json:"backdrop_path,omitempty"`
}

// MovieListPage is one page of a paginated catalog listing (popular, search).
type MovieListPage struct {
	Page         int            `json:"page" validate:"gte=1"`
	Results      []MovieSummary `json:"results" validate:"dive"`
	TotalPages   int            `json:"total_pages" validate:"gte=0"`
	TotalResults int            `json:"total_results" validate:"gte=0"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character,omitempty"`
	ProfilePath *string `json:"profile_path,omitempty"`
}

type Credits struct {
	Cast []CastMember `json:"cast,omitempty"`
}

// MovieDetail is the movie resource requested with append_to_response=credits.
type MovieDetail struct {
	MovieSummary
	Genres  []Genre  `json:"genres,omitempty"`
	Runtime *int     `json:"runtime,omitempty" validate:"omitempty,gte=0"`
	Status  string   `json:"status,omitempty"`
	Tagline string   `json:"tagline,omitempty"`
	Credits *Credits `json:"credits,omitempty"`
}

// Cast returns the billed cast in catalog order.
func (d MovieDetail) Cast() []CastMember {
	if d.Credits == nil {
		return nil
	}
	return d.Credits.Cast
}

type WatchProvider struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type RegionProviders struct {
	Link     string          `json:"link,omitempty"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
}

// WatchProviderSet lists streaming availability keyed by ISO 3166-1 region.
type WatchProviderSet struct {
	ID      int64                      `json:"id,omitempty"`
	Results map[string]RegionProviders `json:"results,omitempty"`
}

// Streaming returns the flatrate providers and deep link for region. A missing
// region and an empty flatrate list are both reported as no providers.
func (s WatchProviderSet) Streaming(region string) ([]WatchProvider, string) {
	if s.Results == nil {
		return nil, ""
	}
	rp, ok := s.Results[region]
	if !ok || len(rp.Flatrate) == 0 {
		return nil, ""
	}
	return rp.Flatrate, rp.Link
}
