package catalog

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when the server-held TMDB credential is not configured.
var ErrMissingAPIKey = errors.New("tmdb api key not configured")

// FetchError reports a non-2xx catalog response. Only the status is kept;
// response bodies are never surfaced.
type FetchError struct {
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("TMDB fetch failed: %d", e.Status)
}

// DecodeError reports a payload that could not be parsed or failed validation.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}
