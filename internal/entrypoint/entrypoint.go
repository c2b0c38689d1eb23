package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	http_controllers "github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/logging"
	"github.com/mrlokans/librarian/internal/middleware"
	"github.com/mrlokans/librarian/internal/session"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve blocks until SIGINT or SIGTERM, then drains in-flight requests.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("server exiting")
	return nil
}

// Run opens the catalog database and serves the web application.
func Run(cfg *config.Config, version string) error {
	log.Info().Str("version", version).Msg("starting librarian")

	db, err := database.NewDatabase(cfg.Database, logging.GormLevel(cfg.Log.Level))
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	var sessions *session.Manager
	if cfg.Database.Driver == config.DriverSQLite {
		sqlDB, err := db.SQLDB()
		if err != nil {
			db.Close()
			return fmt.Errorf("session store: %w", err)
		}
		sessions, err = session.NewSQLiteManager(sqlDB, cfg.Session)
		if err != nil {
			db.Close()
			return fmt.Errorf("session store: %w", err)
		}
	} else {
		log.Warn().Msg("notices are kept in memory and do not survive restarts")
		sessions = session.NewMemoryManager(cfg.Session)
	}

	csrfKey, err := middleware.DeriveCSRFKey(cfg.Session.SecretKey)
	if err != nil {
		db.Close()
		return fmt.Errorf("csrf key: %w", err)
	}

	service := catalog.NewService(db)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Authors:       service,
		Books:         service,
		Health:        db,
		Sessions:      sessions,
		CSRFKey:       csrfKey,
		SecureCookies: cfg.Session.SecureCookies,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		Version:       version,
	})

	onShutdown := func(ctx context.Context) {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}

	return Serve(router, cfg, onShutdown)
}
