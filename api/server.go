// Package api provides the HTTP server for pronviz.
//
// It serves the dashboard page, its Atom feed, JSON views of the factor
// table and panels, raw chart SVGs, Prometheus metrics and a WebSocket
// endpoint that tells open pages to reload after a configuration change.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/seenimoa/pronviz/internal/config"
	"github.com/seenimoa/pronviz/internal/dashboard"
	"github.com/seenimoa/pronviz/internal/infra"
	"github.com/seenimoa/pronviz/pkg/metrics"
	"github.com/seenimoa/pronviz/web"
)

// Options carries the collaborators a Server does not build itself.
type Options struct {
	ConfigFile string // path shown by /api/v1/config; empty when defaults are used
	Logger     *zap.Logger
	Metrics    *metrics.Manager
	Version    string
}

// Server is the HTTP server.
type Server struct {
	router chi.Router

	mu   sync.RWMutex
	cfg  *config.Config
	dash *dashboard.Dashboard

	configFile string
	cache      *infra.Cache[[]byte]
	limiter    *infra.RateLimiter
	wsHub      *WSHub
	logger     *zap.Logger
	metrics    *metrics.Manager
	version    string
	started    time.Time
}

// NewServer creates a configured server with all routes and middleware.
func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	srv := &Server{
		cfg:        cfg,
		configFile: opts.ConfigFile,
		cache:      infra.NewCache[[]byte](time.Duration(cfg.Cache.TTL) * time.Second),
		wsHub:      NewWSHub(opts.Logger, opts.Metrics),
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		version:    opts.Version,
		started:    time.Now(),
	}
	if cfg.Server.RateLimit > 0 {
		burst := cfg.Server.RateBurst
		if burst < 1 {
			burst = cfg.Server.RateLimit
		}
		srv.limiter = infra.NewRateLimiter(burst, time.Second/time.Duration(cfg.Server.RateLimit))
	}

	dash, err := srv.newDashboard(cfg)
	if err != nil {
		return nil, fmt.Errorf("dashboard setup failed: %w", err)
	}
	srv.dash = dash

	srv.router = srv.buildRouter()
	return srv, nil
}

func (s *Server) newDashboard(cfg *config.Config) (*dashboard.Dashboard, error) {
	return dashboard.New(dashboard.Options{
		Title:       cfg.Render.Title,
		ChartConfig: cfg.ChartConfig,
		LiveReload:  cfg.Render.LiveReload,
		Logger:      s.logger,
		Metrics:     s.metrics,
	})
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the live-reload hub.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// state returns the configuration and dashboard currently in effect.
func (s *Server) state() (*config.Config, *dashboard.Dashboard) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.dash
}

// Reload swaps in a new configuration. Cached pages are dropped and
// connected browsers are told to refresh. Server-level settings (address,
// CORS, rate limit) keep their startup values.
func (s *Server) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	dash, err := s.newDashboard(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.dash = dash
	s.mu.Unlock()

	s.cache.Flush()
	s.metrics.ConfigReloaded()
	s.wsHub.Broadcast(WSMessage{Type: MsgRefresh, Data: map[string]string{"fingerprint": cfg.Fingerprint()}})
	s.logger.Info("configuration reloaded", zap.String("fingerprint", cfg.Fingerprint()))
	return nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.wsHub.Run(hubCtx)
	go s.cache.RunCleanup(hubCtx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	stopHub()
	return httpSrv.Shutdown(shutdownCtx)
}

// ListenAndServe starts the HTTP server and stops it on SIGINT or SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx, addr)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// The websocket outlives any request timeout.
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		timeout := time.Duration(s.cfg.Server.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		r.Use(middleware.Timeout(timeout))

		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.metrics.Handler().ServeHTTP)
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.StaticFS())))

		// Rendering routes share the limiter.
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Get("/", s.handleIndex)
			r.Get("/feed.xml", s.handleFeed)
			r.Get("/api/v1/panels/{id}", s.handlePanel)
			r.Get("/api/v1/panels/{id}/chart.svg", s.handlePanelSVG)
		})

		r.Get("/api/v1/health", s.handleHealth)
		r.Get("/api/v1/factors", s.handleFactors)
		r.Get("/api/v1/panels", s.handlePanels)
		r.Get("/api/v1/config", s.handleGetConfig)
	})

	return r
}

// requestLogger logs one line per request and records HTTP metrics under
// the matched route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		s.metrics.ObserveHTTP(route, r.Method, status, elapsed)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// rateLimit rejects render requests once the token bucket is empty.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ════════════════════════════════════════════════════════════════════
// Response types
// ════════════════════════════════════════════════════════════════════

// APIResponse is the standard JSON response envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Panels    int    `json:"panels"`
	WSClients int    `json:"ws_clients"`
}

// PanelSummary describes a panel without drawing it.
type PanelSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Kind     string `json:"kind"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Href     string `json:"href"`
	ChartURL string `json:"chart_url"`
}

// ════════════════════════════════════════════════════════════════════
// Handlers
// ════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, dash := s.state()
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: HealthResponse{
			Status:    "ok",
			Version:   s.version,
			Uptime:    time.Since(s.started).Round(time.Second).String(),
			Panels:    len(dash.Panels()),
			WSClients: s.wsHub.ClientCount(),
		},
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg, dash := s.state()
	body, err := s.cached("page:"+cfg.Fingerprint(), func() ([]byte, error) {
		page, err := dash.Build(r.Context())
		if err != nil {
			return nil, err
		}
		return page.HTML()
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// feedBase stands in for the base URL in the cached feed. The cache key is
// the fingerprint alone; the request's base is substituted on the way out.
const feedBase = "http://feed-base.pronviz.invalid"

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	cfg, dash := s.state()
	body, err := s.cached("feed:"+cfg.Fingerprint(), func() ([]byte, error) {
		page, err := dash.Build(r.Context())
		if err != nil {
			return nil, err
		}
		return page.Feed(feedBase)
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	base := cfg.Server.BaseURL
	if base == "" {
		base = requestBaseURL(r)
	}
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(strings.TrimRight(base, "/")))
	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(bytes.ReplaceAll(body, []byte(feedBase), escaped.Bytes()))
}

func (s *Server) handleFactors(w http.ResponseWriter, r *http.Request) {
	_, dash := s.state()
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: dash.Factors()})
}

func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	_, dash := s.state()
	panels := dash.Panels()
	out := make([]PanelSummary, 0, len(panels))
	for _, p := range panels {
		out = append(out, PanelSummary{
			ID:       p.ID,
			Title:    p.Title,
			Kind:     string(p.Kind),
			Width:    p.Config.Width,
			Height:   p.Config.Height,
			Href:     "/api/v1/panels/" + p.ID,
			ChartURL: "/api/v1/panels/" + p.ID + "/chart.svg",
		})
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: out})
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	_, dash := s.state()
	out, err := dash.RenderPanel(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: out})
}

func (s *Server) handlePanelSVG(w http.ResponseWriter, r *http.Request) {
	_, dash := s.state()
	out, err := dash.RenderPanel(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.SVG))
}

// cached serves key from the page cache, rendering with load on a miss.
func (s *Server) cached(key string, load func() ([]byte, error)) ([]byte, error) {
	body, hit, err := s.cache.GetOrLoad(key, load)
	if hit {
		s.metrics.CacheHit()
	} else {
		s.metrics.CacheMiss()
	}
	return body, err
}

// renderError maps rendering failures to HTTP status codes.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dashboard.ErrUnknownPanel):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "render cancelled")
	default:
		s.logger.Error("render failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "render failed: "+err.Error())
	}
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
