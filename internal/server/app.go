// Package server initializes and runs the greeting web service: it opens
// the database, runs migrations, wires caches and services, and starts the
// HTTP server plus any enabled background jobs, shutting everything down
// gracefully on a signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/greetingws/internal/logging"
	"github.com/dmitrijs2005/greetingws/internal/server/batch"
	"github.com/dmitrijs2005/greetingws/internal/server/cache"
	"github.com/dmitrijs2005/greetingws/internal/server/config"
	gwhttp "github.com/dmitrijs2005/greetingws/internal/server/http"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
	"github.com/dmitrijs2005/greetingws/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/greetingws/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	registry        *prometheus.Registry
	greetingService *services.GreetingService
	accountService  *services.AccountService
	emailService    *services.EmailService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	handler := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(handler)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	cacheCfg := cache.Config{Capacity: cfg.CacheCapacity, TTL: cfg.CacheTTL}
	greetingCache := cache.New[*models.Greeting](cacheCfg)
	accountCache := cache.New[*models.Account](cacheCfg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gs := services.NewGreetingService(db, m, greetingCache, logger)
	as := services.NewAccountService(db, m, accountCache, logger)
	es := services.NewEmailService(cfg.EmailSendDelay, logger)

	return &App{
		config:          cfg,
		logger:          logger,
		db:              db,
		registry:        registry,
		greetingService: gs,
		accountService:  as,
		emailService:    es,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gwhttp.NewServer(app.config, app.db, app.greetingService, app.greetingService,
		app.accountService, app.emailService, app.registry, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.BatchInterval > 0 {
		reporter := batch.NewGreetingReporter(app.greetingService, app.config.BatchInterval, app.logger, app.registry)
		wg.Add(1)
		go func() {
			defer wg.Done()
			reporter.Run(ctx)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}
