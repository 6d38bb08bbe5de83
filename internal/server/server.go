// Package server implements the pagedeps asset dev server.
//
// The server is the request-scoped consumer of a closed asset registry: a
// middleware attaches a fresh PageDeps to every request, handlers require
// the handles named in the query string, and the response carries the
// resolved URLs or a rendered preview page. Rendered previews can be
// cached (memory, file or Redis) so multiple instances share output.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pagedeps/pagedeps/pkg/cache"
	"github.com/pagedeps/pagedeps/pkg/deps"
	"github.com/pagedeps/pagedeps/pkg/observability"
	"github.com/pagedeps/pagedeps/pkg/web"
)

// DefaultCacheTTL is how long rendered previews stay cached.
const DefaultCacheTTL = time.Hour

// Config configures a Server.
type Config struct {
	Factory web.Factory   // per-request PageDeps factory (required)
	Profile string        // deployment profile, part of cache keys
	Cache   cache.Cache   // rendered-preview cache (default: Null)
	TTL     time.Duration // preview cache TTL (default: DefaultCacheTTL)
	Logger  *charmlog.Logger
}

// Server serves resolution queries and preview pages over HTTP.
type Server struct {
	cfg    Config
	router chi.Router
}

// New assembles the router. The configuration is validated lazily: a nil
// cache disables caching, a nil logger falls back to the default.
func New(cfg Config) *Server {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNull()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = charmlog.Default()
	}

	s := &Server{cfg: cfg}
	r := chi.NewRouter()
	r.Use(requestID(cfg.Logger))
	r.Use(web.Middleware(cfg.Factory))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/resolve", s.handleResolve)
	r.Get("/preview", s.handlePreview)
	s.router = r
	return s
}

// Handler returns the assembled HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// requestID tags every request with a UUID, echoed in the X-Request-ID
// header and the debug log.
func requestID(logger *charmlog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set("X-Request-ID", id)
			logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}

// require pulls the lib, css and package query parameters into the page.
// Parameters may repeat and may hold comma-delimited lists.
func require(page *web.PageDeps, r *http.Request) error {
	q := r.URL.Query()
	for _, handles := range q["package"] {
		if err := page.Package.Require(handles); err != nil {
			return err
		}
	}
	for _, handles := range q["lib"] {
		if err := page.Lib.Require(handles); err != nil {
			return err
		}
	}
	for _, handles := range q["css"] {
		if err := page.CSS.Require(handles); err != nil {
			return err
		}
	}
	return nil
}

// requestSignature is the canonical form of the query for cache keys.
func requestSignature(r *http.Request) []string {
	q := r.URL.Query()
	var sig []string
	for _, kind := range []string{"package", "lib", "css"} {
		for _, handles := range q[kind] {
			for _, h := range deps.ParseHandles(handles) {
				sig = append(sig, kind+":"+h)
			}
		}
	}
	return sig
}

type resolveResponse struct {
	CSSURLs []string `json:"css_urls"`
	LibURLs []string `json:"lib_urls"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	page, _ := web.FromRequest(r)
	if err := require(page, r); err != nil {
		s.fail(w, err)
		return
	}

	cssURLs, err := page.CSS.URLs()
	if err != nil {
		s.fail(w, err)
		return
	}
	libURLs, err := page.Lib.URLs()
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resolveResponse{CSSURLs: cssURLs, LibURLs: libURLs})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sig := requestSignature(r)
	key := cache.TagKey(s.cfg.Profile, sig)

	if body, hit, err := s.cfg.Cache.Get(r.Context(), key); err == nil && hit {
		observability.Cache().OnHit(r.Context(), key)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(body)
		return
	} else if err != nil {
		observability.Cache().OnError(r.Context(), "get", key, err)
		s.cfg.Logger.Warn("cache get failed", "err", err)
	} else {
		observability.Cache().OnMiss(r.Context(), key)
	}

	page, _ := web.FromRequest(r)
	if err := require(page, r); err != nil {
		s.fail(w, err)
		return
	}
	body, err := previewHTML(page, sig)
	if err != nil {
		s.fail(w, err)
		return
	}

	if err := s.cfg.Cache.Set(r.Context(), key, body, s.cfg.TTL); err != nil {
		observability.Cache().OnError(r.Context(), "set", key, err)
		s.cfg.Logger.Warn("cache set failed", "err", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(body)
}

// previewHTML renders a minimal page: stylesheets at the top, scripts at
// the bottom, the best practice the whole library exists to enforce.
func previewHTML(page *web.PageDeps, sig []string) ([]byte, error) {
	top, err := page.TopOutput()
	if err != nil {
		return nil, err
	}
	bottom, err := page.BottomOutput()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<title>pagedeps preview</title>\n")
	b.WriteString(top)
	b.WriteString("\n</head>\n<body>\n<h1>pagedeps preview</h1>\n<ul>\n")
	for _, entry := range sig {
		fmt.Fprintf(&b, "<li>%s</li>\n", entry)
	}
	b.WriteString("</ul>\n")
	b.WriteString(bottom)
	b.WriteString("\n</body>\n</html>\n")
	return []byte(b.String()), nil
}

// fail maps resolution errors to HTTP status codes: unknown handles are
// the caller's mistake, everything else is ours.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, deps.ErrUnknownHandle) {
		status = http.StatusBadRequest
	}
	s.cfg.Logger.Error("request failed", "err", err)
	http.Error(w, err.Error(), status)
}
