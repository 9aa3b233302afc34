// Package main is the entrypoint for the Culinary Notes API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/culinarynotes/culinarynotes/internal/cache"
	"github.com/culinarynotes/culinarynotes/internal/config"
	"github.com/culinarynotes/culinarynotes/internal/metrics"
	"github.com/culinarynotes/culinarynotes/internal/repository"
	"github.com/culinarynotes/culinarynotes/internal/seed"
	"github.com/culinarynotes/culinarynotes/internal/server"
	"github.com/culinarynotes/culinarynotes/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Schema first, so the pool never sees a half-migrated database.
	if cfg.RunMigrations {
		version, err := repository.Migrate(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to run migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return err
		}
		logger.Info("database migrated", "version", version)
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return err
	}
	logger.Info("connected to database")

	recorder := metrics.NewInMemory()

	categories := service.NewCategoryService(repo, logger, recorder)
	ingredients := service.NewIngredientService(repo, logger, recorder)
	users := service.NewUserService(repo, logger, recorder)
	recipes := service.NewRecipeService(repo, logger, recorder)

	files, err := service.NewFileStorage(cfg.UploadDir, logger, recorder)
	if err != nil {
		repo.Close()
		logger.Error("failed to initialize file storage", "upload_dir", cfg.UploadDir, "error", err)
		return err
	}

	if cfg.SeedData {
		if _, err := seed.New(categories, ingredients, recipes, logger).Run(ctx); err != nil {
			repo.Close()
			logger.Error("failed to seed sample data", "error", err)
			return err
		}
	}

	deps := server.Dependencies{
		Categories:  categories,
		Ingredients: ingredients,
		Users:       users,
		Recipes:     recipes,
		Files:       files,
		Metrics:     recorder,
		Database:    repo,
	}

	// Redis is optional; without it the API runs without IP rate limiting.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cache.DefaultOptions())
		if err != nil {
			repo.Close()
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return err
		}
		deps.Cache = cacheClient
		deps.Limiter = cacheClient
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set, IP rate limiting disabled")
	}

	srv := server.New(
		server.NewRouter(cfg, deps, logger),
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("database", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"upload_dir", cfg.UploadDir,
		"rate_limit", cfg.RateLimitActive(),
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
