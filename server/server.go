// Package server serves star calendars of star files hosted on GitHub as SVG images.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tdewolff/stars"
	"github.com/tdewolff/stars/github"
	"github.com/tdewolff/stars/renderers/svg"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/singleflight"
)

// ErrRateLimited is returned when a client exceeds the request limit for a file.
var ErrRateLimited = errors.New("rate limit exceeded")

const shutdownTimeout = 10 * time.Second

// Fetcher returns the contents of a hosted file.
type Fetcher interface {
	Fetch(context.Context, github.Ref) ([]byte, error)
}

type cachedError struct {
	status  int
	message string
}

// Server handles star calendar requests.
type Server struct {
	cfg     Config
	fetcher Fetcher
	logger  *zap.Logger

	cache    *Cache[*stars.Data]
	errCache *Cache[cachedError]
	limiter  *Limiter
	group    singleflight.Group
}

// New returns a server fetching files through fetcher. A nil logger discards all logs.
func New(cfg Config, fetcher Fetcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		fetcher:  fetcher,
		logger:   logger,
		cache:    NewCache[*stars.Data](cfg.CacheTTL, cfg.MaxCacheSize),
		errCache: NewCache[cachedError](cfg.ErrorCacheTTL, cfg.MaxCacheSize),
		limiter:  NewLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitWindow),
	}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /stars/{user}/{repo}/{branch}/{path...}", s.serveStars)
	return s.middleware(mux)
}

// ListenAndServe listens on the configured address and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled and then shuts down gracefully. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if 0 < s.cfg.MaxConnections {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.HTTPTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) serveStars(w http.ResponseWriter, r *http.Request) {
	path, ok := strings.CutSuffix(r.PathValue("path"), ".svg")
	if !ok || path == "" {
		http.NotFound(w, r)
		return
	}
	theme, err := stars.ParseTheme(r.URL.Query().Get("theme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ref := github.Ref{
		User:   r.PathValue("user"),
		Repo:   r.PathValue("repo"),
		Branch: r.PathValue("branch"),
		Path:   path + ".txt",
	}
	key := ref.String()
	logger := s.logger.With(
		zap.String("request_id", requestID(r.Context())),
		zap.String("client_ip", clientIP(r)),
		zap.String("cache_key", key),
	)

	cacheStatus := "HIT"
	data, ok := s.cache.Get(key)
	if ok {
		logger.Info("cache hit")
	} else if cached, ok := s.errCache.Get(key); ok {
		logger.Info("error cache hit", zap.Int("status", cached.status))
		http.Error(w, cached.message, cached.status)
		return
	} else if !s.limiter.Allow(clientIP(r) + ":" + key) {
		status, message := classify(ErrRateLimited)
		logger.Warn("rate limit exceeded", zap.Int("max_requests", s.cfg.RateLimitMaxRequests))
		http.Error(w, message, status)
		return
	} else {
		cacheStatus = "MISS"
		if data, err = s.load(r.Context(), ref); err != nil {
			status, message := classify(err)
			logger.Warn("star file unavailable", zap.Int("status", status), zap.Error(err))
			http.Error(w, message, status)
			return
		}
		logger.Info("generated star calendar", zap.Int("years", data.Len()))
	}

	body := svg.Render(data, theme)
	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`

	header := w.Header()
	header.Set("Content-Type", svg.MimeType)
	header.Set("Cache-Control", "no-cache")
	header.Set("X-Cache", cacheStatus)
	header.Set("ETag", etag)
	if matchETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	header.Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}

// load fetches and parses the star file, concurrent loads of the same file share one fetch. Results are cached.
func (s *Server) load(ctx context.Context, ref github.Ref) (*stars.Data, error) {
	key := ref.String()
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// detached from the first caller, others may share the result
		b, err := s.fetcher.Fetch(context.WithoutCancel(ctx), ref)
		var data *stars.Data
		if err == nil {
			data, err = stars.Parse(bytes.NewReader(b))
		}
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				status, message := classify(err)
				s.errCache.Set(key, cachedError{status, message})
			}
			return nil, err
		}
		s.cache.Set(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*stars.Data), nil
}

// classify returns the HTTP status code and message for an error.
func classify(err error) (int, string) {
	var tooLarge *github.TooLargeError
	var parseErr *stars.ParseError
	var statusErr *github.StatusError
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, github.ErrNotFound):
		return http.StatusNotFound, fmt.Sprintf("Not found: %v", err)
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, tooLarge.Error()
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, fmt.Sprintf("Validation error: %v", parseErr)
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, fmt.Sprintf("GitHub fetch error: %v", err)
	}
	return http.StatusInternalServerError, fmt.Sprintf("GitHub fetch error: %v", err)
}

// matchETag reports whether an If-None-Match header value matches etag.
func matchETag(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
