package http

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/greetingws/internal/logging"
	"github.com/dmitrijs2005/greetingws/internal/server/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Server is the REST front of the greeting service.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer wires routes, middleware, and collaborators into a runnable
// HTTP server. The five greeting routes sit behind basic auth; health and
// metrics stay open.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	greetings GreetingProvider,
	health healthCounter,
	accounts AccountLookup,
	email EmailSender,
	registry *prometheus.Registry,
	logger logging.Logger,
) *Server {
	router := mux.NewRouter()

	eh := NewErrorHandler(logger)
	handlers := NewHandlers(greetings, email, eh, logger)
	healthCheck := NewHealthCheck(db, health, logger)
	metrics := NewMetrics(registry)
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)

	router.Use(RequestID)
	router.Use(Logging(logger))
	router.Use(metrics.Middleware)
	router.Use(CORS(cfg.CORSAllowedOrigin))
	router.Use(RateLimit(limiter, eh))

	router.HandleFunc("/health", healthCheck.Handler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := router.PathPrefix("/greetings").Subrouter()
	api.Use(BasicAuth(accounts, eh, logger))
	api.HandleFunc("", handlers.ListGreetings).Methods(http.MethodGet)
	api.HandleFunc("", handlers.CreateGreeting).Methods(http.MethodPost)
	api.HandleFunc("/{id}", handlers.GetGreeting).Methods(http.MethodGet)
	api.HandleFunc("/{id}", handlers.UpdateGreeting).Methods(http.MethodPut)
	api.HandleFunc("/{id}", handlers.DeleteGreeting).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/send", handlers.SendGreeting).Methods(http.MethodPost)

	httpServer := &http.Server{
		Addr:         cfg.EndpointAddrHTTP,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		router:     router,
		httpServer: httpServer,
		logger:     logger.With("module", "http_server"),
	}
}

// Router exposes the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.httpServer.WriteTimeout)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
