package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"petcare-marketplace/internal/adapters/auth/supabase"
	"petcare-marketplace/internal/adapters/realtime/redisbus"
	"petcare-marketplace/internal/adapters/storage/postgres"
	"petcare-marketplace/internal/config"
	"petcare-marketplace/internal/platform/logger"
	"petcare-marketplace/internal/ports/auth"
	"petcare-marketplace/internal/ports/realtime"
	"petcare-marketplace/internal/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	root := &cli.Command{
		Name:  "petcare-api",
		Usage: "Pet care marketplace API",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runServe(ctx)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run HTTP server",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runServe(ctx)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and exit",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}

			db, err := postgres.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("migrations applied", nil)
			return nil
		},
	}
}

func bootstrap() (config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid config: %w", err)
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	return cfg, log, nil
}

func runServe(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("migrations applied", nil)
		}
	}

	verifier, err := buildVerifier(cfg)
	if err != nil {
		return err
	}
	if verifier == nil {
		log.Warn("no auth provider configured, accepting X-Debug-User-ID", nil)
	}

	var bus realtime.Bus
	if cfg.RedisURL != "" {
		rb, err := redisbus.NewFromURL(ctx, cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer rb.Close()
		bus = rb
	}

	h := router.NewRouter(router.Options{
		Logger:         log,
		AuthVerifier:   verifier,
		DB:             db,
		Bus:            bus,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", map[string]any{"addr": srv.Addr, "env": cfg.AppEnv})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down", nil)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildVerifier devuelve nil cuando no hay credenciales (modo dev).
func buildVerifier(cfg config.Config) (auth.AuthVerifier, error) {
	if !cfg.HasAuthProvider() {
		return nil, nil
	}

	sc := supabase.Config{
		URL:       cfg.SupabaseURL,
		AnonKey:   cfg.SupabaseAnonKey,
		JWTSecret: cfg.SupabaseJWTSecret,
		Timeout:   5 * time.Second,
	}

	var client *supabase.Client
	if cfg.SupabaseURL != "" && cfg.SupabaseAnonKey != "" {
		c, err := supabase.NewClient(sc)
		if err != nil {
			return nil, err
		}
		client = c
	}

	v, err := supabase.NewVerifier(sc, client)
	if err != nil {
		return nil, err
	}
	return v, nil
}
