// Command calendard serves the appointment calendar over HTTP.
//
// Startup order: environment (.env), configuration, logging, tracing, blob
// store, appointment service, backup scheduler, HTTP server. The service
// loads its snapshot in the background; until it is ready, reads return an
// empty collection and writes are refused with 503.
//
// @title       Calendar API
// @version     1.0
// @description Appointment store with conflict detection, checklist flags, month/day views and iCalendar export.
// @BasePath    /api/v1
package main

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
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-calendar-backend/docs"
	"github.com/tbourn/go-calendar-backend/internal/config"
	httpapi "github.com/tbourn/go-calendar-backend/internal/http"
	"github.com/tbourn/go-calendar-backend/internal/jobs"
	"github.com/tbourn/go-calendar-backend/internal/observability"
	"github.com/tbourn/go-calendar-backend/internal/repo"
	"github.com/tbourn/go-calendar-backend/internal/services"
	"github.com/tbourn/go-calendar-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownGrace = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("calendard exited")
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	sysutil.ConfigureLogger(sysutil.LogOptions{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		NoColor: sysutil.IsTruthy(os.Getenv("NO_COLOR")),
		Service: cfg.OTEL.ServiceName,
	})
	gin.SetMode(cfg.GinMode)
	docs.SwaggerInfo.Version = ver
	docs.SwaggerInfo.BasePath = cfg.APIBasePath

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	log.Info().Str("backend", cfg.Storage.Backend).Msg("blob store opened")

	svc := services.NewAppointmentService(store, services.Options{
		TitleMaxLen:    cfg.Calendar.TitleMaxLen,
		PersistDelay:   cfg.Storage.PersistDelay,
		PersistTimeout: cfg.Storage.PersistTimeout,
	})
	go svc.Load(ctx)

	sched := jobs.NewScheduler(time.Minute)
	if cfg.Backup.Cron != "" {
		backup := &jobs.BackupJob{Store: svc, Path: cfg.Backup.Path, Name: cfg.Calendar.Name}
		if err := sched.Add("ics_backup", cfg.Backup.Cron, backup.Run); err != nil {
			return fmt.Errorf("backup schedule %q: %w", cfg.Backup.Cron, err)
		}
		log.Info().Str("cron", cfg.Backup.Cron).Str("path", cfg.Backup.Path).Msg("backup scheduled")
	}
	sched.Start()

	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", ver).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	// Stop accepting writes first, then drain pending snapshots.
	var errs []error
	if err := srv.Shutdown(sctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := sched.Stop(sctx); err != nil {
		errs = append(errs, fmt.Errorf("scheduler stop: %w", err))
	}
	if err := svc.Close(sctx); err != nil {
		errs = append(errs, fmt.Errorf("flush store: %w", err))
	}
	if err := store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if err := shutdownOTel(sctx); err != nil {
		errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info().Msg("bye")
	return nil
}

// openStore opens the configured blob backend.
func openStore(ctx context.Context, cfg config.Config) (repo.BlobStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := repo.OpenSQLite(cfg.Storage.DBPath)
		if err != nil {
			return nil, err
		}
		if err := repo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if cfg.OTEL.Enabled {
			if err := repo.EnableTracing(db); err != nil {
				return nil, fmt.Errorf("gorm tracing: %w", err)
			}
		}
		return repo.NewSQLiteStore(db), nil
	case config.BackendFile:
		return repo.NewFileStore(cfg.Storage.DataDir)
	case config.BackendPostgres:
		return repo.OpenPostgres(ctx, cfg.Storage.PostgresDSN)
	case config.BackendMemory:
		log.Warn().Msg("memory backend: appointments are lost on restart")
		return repo.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
