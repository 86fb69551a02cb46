package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"moviescope/config"
	"moviescope/internal/metrics"
	"moviescope/services/catalog"
)

const (
	gatewayFreshness = "public, max-age=300"

	errMissingPath     = "missing path"
	errKeyMissing      = "API key not configured"
	errUpstreamFailure = "Failed to fetch from TMDB API"
)

type cachedReply struct {
	status int
	body   []byte
}

// GatewayHandler relays catalog reads to TMDB with the server-held key so the
// credential never reaches the browser. Upstream failures are reported as an
// opaque 500; the upstream status and body only go to the log.
type GatewayHandler struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *expirable.LRU[string, cachedReply]
}

// NewGatewayHandler builds the gateway. Successful replies are reused for
// FreshnessSeconds; a negative window or a zero cache size disables reuse.
func NewGatewayHandler(settings config.CatalogSettings, client *http.Client) *GatewayHandler {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	h := &GatewayHandler{
		baseURL: strings.TrimRight(settings.BaseURL, "/"),
		apiKey:  strings.TrimSpace(settings.APIKey),
		client:  client,
	}
	if settings.FreshnessSeconds > 0 && settings.GatewayCacheSize > 0 {
		ttl := time.Duration(settings.FreshnessSeconds) * time.Second
		h.cache = expirable.NewLRU[string, cachedReply](settings.GatewayCacheSize, nil, ttl)
	}
	return h
}

// Proxy serves GET /api/tmdb?path=&qs=.
func (h *GatewayHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	path := strings.TrimSpace(query.Get("path"))
	if path == "" {
		writeJSONError(w, errMissingPath, http.StatusBadRequest)
		return
	}
	if h.apiKey == "" {
		log.Printf("[gateway] rejecting %s: api key not configured", path)
		writeJSONError(w, errKeyMissing, http.StatusInternalServerError)
		return
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	qs := query.Get("qs")

	cacheKey := path + "?" + qs
	if h.cache != nil {
		if reply, ok := h.cache.Get(cacheKey); ok {
			metrics.GatewayCacheHits.Inc()
			h.relay(w, reply)
			return
		}
	}

	reply, err := h.fetch(r, path, qs)
	if err != nil {
		writeJSONError(w, errUpstreamFailure, http.StatusInternalServerError)
		return
	}
	if h.cache != nil {
		h.cache.Add(cacheKey, reply)
	}
	h.relay(w, reply)
}

func (h *GatewayHandler) fetch(r *http.Request, path, qs string) (cachedReply, error) {
	target := h.baseURL + path + "?" + catalog.UpstreamQuery(h.apiKey, qs)
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		metrics.GatewayUpstream.WithLabelValues("network_error").Inc()
		log.Printf("[gateway] build request for %s: %v", path, err)
		return cachedReply{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = path
		}
		metrics.GatewayUpstream.WithLabelValues("network_error").Inc()
		log.Printf("[gateway] upstream request for %s failed: %v", path, err)
		return cachedReply{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GatewayUpstream.WithLabelValues("network_error").Inc()
		log.Printf("[gateway] read upstream body for %s: %v", path, err)
		return cachedReply{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.GatewayUpstream.WithLabelValues("upstream_error").Inc()
		log.Printf("[gateway] upstream %s returned %d: %s", path, resp.StatusCode, truncate(string(body), 512))
		return cachedReply{}, &catalog.FetchError{Status: resp.StatusCode}
	}

	metrics.GatewayUpstream.WithLabelValues("ok").Inc()
	return cachedReply{status: resp.StatusCode, body: body}, nil
}

func (h *GatewayHandler) relay(w http.ResponseWriter, reply cachedReply) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", gatewayFreshness)
	w.WriteHeader(reply.status)
	_, _ = w.Write(reply.body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
