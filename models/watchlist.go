package models

// BookmarkEntry is a movie saved to the watch later list. The persisted layout
// is a JSON object keyed by the decimal movie ID.
type BookmarkEntry struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	AddedAt     int64   `json:"addedAt"` // unix milliseconds
}

// BookmarkInput captures the data required to bookmark a movie. AddedAt is
// stamped by the store.
type BookmarkInput struct {
	ID          int64   `json:"id" validate:"gt=0"`
	Title       string  `json:"title" validate:"required"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average" validate:"gte=0,lte=10"`
}

// BookmarkFromSummary builds the bookmark input for a catalog entry.
func BookmarkFromSummary(m MovieSummary) BookmarkInput {
	return BookmarkInput{
		ID:          m.ID,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
	}
}
