// Package catalog is a typed client for the TMDB movie catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"moviescope/models"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_catalog.go -package=mocks

// Catalog is the read surface used by controllers and handlers.
type Catalog interface {
	FetchPopular(ctx context.Context, lang string, page int) (*models.MovieListPage, error)
	Search(ctx context.Context, query, lang string, page int) (*models.MovieListPage, error)
	FetchDetail(ctx context.Context, id int64, lang string) (*models.MovieDetail, error)
	FetchProviders(ctx context.Context, id int64) (*models.WatchProviderSet, error)
}

var _ Catalog = (*Client)(nil)

// Client decodes and validates catalog payloads fetched through a Transport.
type Client struct {
	transport       Transport
	validate        *validator.Validate
	defaultLanguage string
}

// NewClient creates a client; defaultLanguage is used when a call passes an
// empty language.
func NewClient(transport Transport, defaultLanguage string) *Client {
	if strings.TrimSpace(defaultLanguage) == "" {
		defaultLanguage = "ja-JP"
	}
	return &Client{
		transport:       transport,
		validate:        validator.New(),
		defaultLanguage: NormalizeLanguage(defaultLanguage, "ja-JP"),
	}
}

// FetchPopular returns one page of /movie/popular.
func (c *Client) FetchPopular(ctx context.Context, lang string, page int) (*models.MovieListPage, error) {
	q := url.Values{}
	q.Set("language", c.language(lang))
	q.Set("page", strconv.Itoa(normalizePage(page)))

	var payload models.MovieListPage
	if err := c.get(ctx, "/movie/popular", q, &payload); err != nil {
		return nil, err
	}
	return normalizeListPage(&payload), nil
}

// Search returns one page of /search/movie. Adult titles are always excluded.
func (c *Client) Search(ctx context.Context, query, lang string, page int) (*models.MovieListPage, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("language", c.language(lang))
	q.Set("page", strconv.Itoa(normalizePage(page)))
	q.Set("include_adult", "false")

	var payload models.MovieListPage
	if err := c.get(ctx, "/search/movie", q, &payload); err != nil {
		return nil, err
	}
	return normalizeListPage(&payload), nil
}

// FetchDetail returns a movie with its credits appended.
func (c *Client) FetchDetail(ctx context.Context, id int64, lang string) (*models.MovieDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid movie id %d", id)
	}
	q := url.Values{}
	q.Set("language", c.language(lang))
	q.Set("append_to_response", "credits")

	var payload models.MovieDetail
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), q, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchProviders returns the streaming availability of a movie by region.
func (c *Client) FetchProviders(ctx context.Context, id int64) (*models.WatchProviderSet, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid movie id %d", id)
	}
	var payload models.WatchProviderSet
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/watch/providers", url.Values{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	body, err := c.transport.Get(ctx, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	if err := c.validate.Struct(v); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

func (c *Client) language(lang string) string {
	return NormalizeLanguage(lang, c.defaultLanguage)
}

// NormalizeLanguage canonicalises a BCP 47 tag ("ja_jp" -> "ja-JP"). Empty or
// unparsable input yields fallback.
func NormalizeLanguage(lang, fallback string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return fallback
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fallback
	}
	return tag.String()
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// normalizeListPage guarantees what views rely on: at least one page
// and a non-nil result list.
func normalizeListPage(p *models.MovieListPage) *models.MovieListPage {
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.Results == nil {
		p.Results = []models.MovieSummary{}
	}
	return p
}
