// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhiver/doxyde-sub000/adapters/clock"
	"github.com/jhiver/doxyde-sub000/adapters/idgen"
	"github.com/jhiver/doxyde-sub000/adapters/memory"
	"github.com/jhiver/doxyde-sub000/adapters/metrics"
	"github.com/jhiver/doxyde-sub000/adapters/sqlite"
	"github.com/jhiver/doxyde-sub000/app"
	"github.com/jhiver/doxyde-sub000/config"
	"github.com/jhiver/doxyde-sub000/ports"
	"github.com/jhiver/doxyde-sub000/web"
)

// App represents the running application.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	DB         *sqlite.DB // nil when running on the memory driver
	Engine     *app.Engine
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	holder *config.Holder
}

// New builds the application from a loaded configuration.
func New(cfg *config.Config) (*App, error) {
	logger := NewLogger(cfg.Logging)

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
	}

	var (
		pages      ports.PageStore
		versions   ports.VersionStore
		components ports.ComponentStore
		tx         ports.Transactor
	)

	switch cfg.Database.Driver {
	case "memory":
		db := memory.NewDB()
		pages = memory.NewPageStore(db)
		versions = memory.NewVersionStore(db)
		components = memory.NewComponentStore(db)
		tx = db
	default:
		db, err := sqlite.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.DB = db
		pages = sqlite.NewPageStore(db)
		versions = sqlite.NewVersionStore(db)
		components = sqlite.NewComponentStore(db)
		tx = db
	}

	a.Engine = app.NewEngine(pages, versions, components, tx, clock.Real{}, idgen.UUID{}, a.Metrics, logger)

	handler := web.NewHandler(web.Deps{
		Engine:    a.Engine,
		Collector: a.Metrics,
		Logger:    logger,
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return a, nil
}

// NewWithHotReload builds the application from a config file and watches it
// for changes. Only the reloadable fields (log level and format) take effect
// without a restart.
func NewWithHotReload(path string) (*App, error) {
	bootLogger := NewLogger(config.LoggingConfig{Level: "info", Format: "json"})

	holder, err := config.NewHolder(path, bootLogger)
	if err != nil {
		return nil, err
	}

	a, err := New(holder.Get())
	if err != nil {
		holder.Stop()
		return nil, err
	}
	a.holder = holder

	holder.OnChange(func(cfg *config.Config) {
		if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	})
	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	return a, nil
}

// NewLogger builds a zerolog logger from the logging configuration.
func NewLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return logger
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("server listening")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.holder != nil {
		a.holder.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown")
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}
