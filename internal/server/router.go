package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/culinarynotes/culinarynotes/internal/config"
	"github.com/culinarynotes/culinarynotes/internal/handler"
	"github.com/culinarynotes/culinarynotes/internal/metrics"
	"github.com/culinarynotes/culinarynotes/internal/middleware"
	"github.com/culinarynotes/culinarynotes/internal/service"
)

// Dependencies are the components the router dispatches to.
type Dependencies struct {
	Categories  *service.CategoryService
	Ingredients *service.IngredientService
	Users       *service.UserService
	Recipes     *service.RecipeService
	Files       *service.FileStorage
	Metrics     metrics.Snapshotter

	// Database and Cache back the readiness check. Cache may be nil.
	Database handler.HealthChecker
	Cache    handler.HealthChecker
	// Limiter enables IP rate limiting on /api when non-nil.
	Limiter middleware.IPRateLimiter
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg *config.Config, deps Dependencies, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.GetCORSAllowedOrigins())))

	health := handler.NewHealthHandler(deps.Database, deps.Cache, deps.Files)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Get("/metrics", handler.NewMetricsHandler(deps.Metrics).Metrics)

	rateLimit := middleware.RateLimitIP(middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: deps.Limiter,
		Enabled: cfg.RateLimitEnabled,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit)

		// JSON resources share the request body limit; uploads set their own.
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
			r.Route("/categories", handler.NewCategoryHandler(deps.Categories, logger).Routes)
			r.Route("/ingredients", handler.NewIngredientHandler(deps.Ingredients, logger).Routes)
			r.Route("/users", handler.NewUserHandler(deps.Users, logger).Routes)
			r.Route("/recipes", handler.NewRecipeHandler(deps.Recipes, logger).Routes)
		})

		r.Route("/files", handler.NewFileHandler(deps.Files, cfg.MaxUploadSize, logger).Routes)
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}
