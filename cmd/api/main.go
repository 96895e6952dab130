package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pet-care-management/internal/adapters/auth/jwtauth"
	"pet-care-management/internal/adapters/auth/password"
	pg "pet-care-management/internal/adapters/storage/postgres"
	"pet-care-management/internal/config"
	"pet-care-management/internal/platform/logger"
	"pet-care-management/internal/router"

	"github.com/jmoiron/sqlx"
)

// @title Pet Care Management API
// @version 1.0.0
// @description Gestión de usuarios, mascotas, servicios, órdenes, hospedajes e historia clínica.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <token>
func main() {
	configPath := flag.String("config", "config.yaml", "ruta al archivo YAML de configuración")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: logger.ParseFormat(cfg.Logging.Format),
		App:    cfg.App.Name,
		Env:    cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sqlx.DB
	if cfg.Database.DSN != "" {
		if cfg.Database.AutoMigrate {
			if err := pg.Migrate(cfg.Database.DSN); err != nil {
				return err
			}
			log.Info("migrations applied", nil)
		}

		db, err = pg.Open(ctx, cfg.Database.DSN, pg.PoolOptions{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
	}

	tokens, err := jwtauth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	handler, err := router.NewRouter(ctx, router.Options{
		Logger:         log,
		App:            cfg.App,
		DB:             db,
		Verifier:       tokens,
		Issuer:         tokens,
		Passwords:      password.NewBcrypt(cfg.Auth.BcryptCost),
		RateLimit:      cfg.RateLimit,
		Metrics:        cfg.Metrics.Enabled,
		BootstrapAdmin: cfg.Auth.BootstrapAdmin,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "version": cfg.App.Version})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
