// internal/app/server.go
package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"blogsearch/internal/extractors"
	"blogsearch/internal/extractors/filters"
	"blogsearch/internal/fetch"
	"blogsearch/internal/logger"
	"blogsearch/internal/search"
)

// Server is the application server exposing search over HTTP.
type Server struct {
	cfg        *Config
	httpClient *fetch.Client
	cache      *search.Cache
	service    *search.Service
	mux        *http.ServeMux
}

// NewServer creates a new Server with provided config.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.IndexURL == "" {
		return nil, errors.New("index URL is required")
	}

	hc := fetch.NewClient(fetch.ClientOptions{
		Timeout:   cfg.FetchTimeout,
		UserAgent: cfg.UserAgent,
	})

	site := search.Site{
		IndexURL:    cfg.IndexURL,
		ArticlePath: cfg.ArticlePath,
		Keyword:     cfg.Keyword,
	}

	cache := search.NewCache(site, hc, extractors.NewExtractor(), extractors.NewDiscoverer(), search.CacheOptions{
		TTL:         cfg.CacheTTL,
		MaxArticles: cfg.MaxArticles,
		BatchSize:   cfg.BatchSize,
		BatchDelay:  cfg.BatchDelay,
	})

	// Listing pages match the keyword but are not articles.
	reg := filters.NewRegistry()
	if u, err := url.Parse(cfg.IndexURL); err == nil {
		reg.Register(filters.Rule{
			Site:         u.Host,
			BlockedPaths: []string{"/tag/", "/category/", "/author/", "/page/"},
		})
	}
	cache.SetURLFilter(reg)

	fp := gofeed.NewParser()
	fp.UserAgent = cfg.UserAgent
	fp.Client = hc.StandardClient()
	cache.SetFeedParser(fp)

	var external search.ExternalClient
	if cfg.GoogleAPIKey != "" && cfg.GoogleEngineID != "" {
		gc, err := search.NewGoogleClient(context.Background(), cfg.GoogleAPIKey, cfg.GoogleEngineID)
		if err != nil {
			logger.Log.Warn("external search disabled", zap.Error(err))
		} else {
			external = gc
			logger.Log.Info("external search enabled")
		}
	}

	s := &Server{
		cfg:        cfg,
		httpClient: hc,
		cache:      cache,
		service:    search.NewService(cache, external),
		mux:        http.NewServeMux(),
	}
	s.registerRoutes()
	return s, nil
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	h := &http.Server{
		Addr:    addr,
		Handler: s.withCommonHeaders(s.mux),
	}
	logger.Log.Info("server listening", zap.String("addr", addr), zap.String("site", s.cfg.IndexURL))
	if err := h.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.withCommonHeaders(s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/refresh", s.handleRefresh)
	s.mux.HandleFunc("/feed", s.handleFeed)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// withCommonHeaders adds CORS and common headers.
func (s *Server) withCommonHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Server", "blogsearch")
		h.ServeHTTP(w, r)
	})
}

// handleSearch answers free-text queries with a ranked JSON result list.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing 'q' parameter")
		return
	}

	limit := search.MaxResults
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	results := s.service.Search(r.Context(), query)
	if len(results) > limit {
		results = results[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// handleRefresh forces a cache rebuild.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	s.service.Refresh(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"cache_size":   s.cache.Size(),
		"last_refresh": formatRefresh(s.cache.LastRefresh()),
	})
}

// handleHealth returns JSON health information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"service":      "blogsearch",
		"cache_size":   s.cache.Size(),
		"last_refresh": formatRefresh(s.cache.LastRefresh()),
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}

// handleHome serves a minimal usage page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	const homeHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>blogsearch</title></head>
<body>
	<h1>blogsearch</h1>
	<p>Search a workplace blog from its live index.</p>
	<ul>
		<li><code>GET /search?q={query}&amp;limit={1..5}</code> — ranked results</li>
		<li><code>POST /refresh</code> — force a cache rebuild</li>
		<li><code>GET /feed</code> — cached articles as RSS</li>
		<li><code>GET /health</code> — service health</li>
	</ul>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(homeHTML))
}

func formatRefresh(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warn("writing response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
