package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Transport performs a GET against an upstream-relative catalog path and
// returns the raw response body of a 2xx reply.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
}

const DefaultGatewayPath = "/api/tmdb"

// GatewayTransport calls the catalog through the same-origin gateway, which
// injects the credential. Requests are always sent with no-store semantics;
// freshness is owned by the gateway.
type GatewayTransport struct {
	baseURL string
	path    string
	httpc   *http.Client
}

// NewGatewayTransport targets the gateway mounted at DefaultGatewayPath on baseURL.
func NewGatewayTransport(baseURL string, httpc *http.Client) *GatewayTransport {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &GatewayTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    DefaultGatewayPath,
		httpc:   httpc,
	}
}

func (t *GatewayTransport) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	params := url.Values{}
	params.Set("path", path)
	params.Set("qs", query.Encode())
	endpoint := t.baseURL + t.path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	return do(t.httpc, req)
}

// DirectTransport calls TMDB with the server-held key. It backs the
// server-rendered read paths.
type DirectTransport struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewDirectTransport(baseURL, apiKey string, httpc *http.Client) *DirectTransport {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &DirectTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpc:   httpc,
	}
}

func (t *DirectTransport) isConfigured() bool {
	return t != nil && t.apiKey != ""
}

func (t *DirectTransport) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if !t.isConfigured() {
		return nil, ErrMissingAPIKey
	}

	endpoint := t.baseURL + path + "?" + UpstreamQuery(t.apiKey, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return do(t.httpc, req)
}

// UpstreamQuery prepends the credential to an already encoded query string.
func UpstreamQuery(apiKey, qs string) string {
	q := "api_key=" + url.QueryEscape(apiKey)
	if qs = strings.TrimPrefix(qs, "?"); qs != "" {
		q += "&" + qs
	}
	return q
}

func do(httpc *http.Client, req *http.Request) ([]byte, error) {
	resp, err := httpc.Do(req)
	if err != nil {
		// url.Error embeds the full URL, which carries the api key on direct calls.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = req.URL.Path
		}
		return nil, fmt.Errorf("tmdb request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tmdb response: %w", err)
	}
	return body, nil
}
