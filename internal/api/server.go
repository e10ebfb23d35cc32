package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/snoozelane/formsd/internal/config"
	"github.com/snoozelane/formsd/internal/forms"
	"github.com/snoozelane/formsd/internal/metrics"
)

// Server is the HTTP server for the form endpoints
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	waitlist   *forms.Waitlist
	contact    *forms.Contact
	config     *config.APIConfig
	logger     *slog.Logger
	version    string
	startTime  time.Time
}

// NewServer creates a new form server
func NewServer(waitlist *forms.Waitlist, contact *forms.Contact, cfg *config.APIConfig, version string, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		waitlist:  waitlist,
		contact:   contact,
		config:    cfg,
		logger:    logger,
		version:   version,
		startTime: time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.HTTPMiddleware)

	// Forms are posted cross-origin from the static site, so CORS is
	// wide open. Preflight passes through to the dedicated 204 handler.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"POST", "OPTIONS"},
		AllowedHeaders:     []string{"Content-Type"},
		OptionsPassthrough: true,
	}))

	// Health check
	s.router.Get("/health", s.handleHealth)

	s.router.Post("/waitlist", s.handleWaitlist)
	s.router.Options("/waitlist", s.handlePreflight)
	s.router.Post("/contact", s.handleContact)
	s.router.Options("/contact", s.handlePreflight)

	// Anything else, any method: plain 404, matching the original worker
	notFound := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}
	s.router.NotFound(notFound)
	s.router.MethodNotAllowed(notFound)
}

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Handler returns the root handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddr,
		Handler:        s.router,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
	}

	s.logger.Info("starting HTTP server", "addr", s.config.ListenAddr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
