// Package server provides the HTTP server and routing for the climate risk
// service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/config"
	"github.com/aristath/climrisk/internal/database"
	"github.com/aristath/climrisk/internal/events"
	hazardhandlers "github.com/aristath/climrisk/internal/modules/hazard/handlers"
	portfoliohandlers "github.com/aristath/climrisk/internal/modules/portfolio/handlers"
	reporthandlers "github.com/aristath/climrisk/internal/modules/report/handlers"
	"github.com/aristath/climrisk/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	PortfolioDB *database.DB
	HazardDB    *database.DB
	CacheDB     *database.DB
	Config      *config.Config
	Port        int
	DevMode     bool

	HazardHandlers    *hazardhandlers.Handler
	PortfolioHandlers *portfoliohandlers.Handler
	ReportHandlers    *reporthandlers.Handler

	EventBus  *events.Bus
	Scheduler *scheduler.Scheduler
	ReportJob scheduler.Job
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    *config.Config

	hazardHandlers    *hazardhandlers.Handler
	portfolioHandlers *portfoliohandlers.Handler
	reportHandlers    *reporthandlers.Handler
	systemHandlers    *SystemHandlers
	progressStream    *ProgressStreamHandler
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	systemHandlers := NewSystemHandlers(
		cfg.Log,
		cfg.Config.DataDir,
		cfg.PortfolioDB,
		cfg.HazardDB,
		cfg.CacheDB,
		cfg.Scheduler,
		cfg.ReportJob,
	)

	s := &Server{
		router:            chi.NewRouter(),
		log:               cfg.Log.With().Str("component", "server").Logger(),
		cfg:               cfg.Config,
		hazardHandlers:    cfg.HazardHandlers,
		portfolioHandlers: cfg.PortfolioHandlers,
		reportHandlers:    cfg.ReportHandlers,
		systemHandlers:    systemHandlers,
		progressStream:    NewProgressStreamHandler(cfg.EventBus, cfg.Log),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // report builds can exceed a minute
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.systemHandlers.HandleHealth)

	// Progress stream (WebSocket) - no timeout middleware on this route
	s.router.Get("/ws/progress", s.progressStream.ServeHTTP)

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		s.hazardHandlers.RegisterRoutes(r)
		s.portfolioHandlers.RegisterRoutes(r)

		r.Route("/api/system", func(r chi.Router) {
			r.Get("/health", s.systemHandlers.HandleHealth)
			r.Get("/status", s.systemHandlers.HandleStatus)
		})

		r.Post("/api/jobs/report-refresh", s.systemHandlers.HandleTriggerReportRefresh)
	})

	// Report routes carry their own, longer timeout
	s.router.Group(func(r chi.Router) {
		s.reportHandlers.RegisterRoutes(r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
