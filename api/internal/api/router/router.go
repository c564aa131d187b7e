// api/internal/api/router/router.go
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"todoapp/api/internal/api/handlers"
	app_middleware "todoapp/api/internal/api/middleware"
)

// RouterConfig defines the dependencies required to build the API routing tree.
type RouterConfig struct {
	AllowedOrigins []string
	TodoHandler    *handlers.TodoHandler
	CryptoHandler  *handlers.CryptoHandler
	HealthHandler  *handlers.HealthHandler
	RateLimiter    *app_middleware.RateLimiter
	Logger         *slog.Logger
}

// NewRouter constructs the Chi multiplexer, attaches global middleware, and wires all endpoints.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// =========================================================================
	// 1. Global Middleware Pipeline
	// =========================================================================

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app_middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Limit all incoming JSON requests to 1 Megabyte max
	r.Use(app_middleware.MaxBytes(1_048_576))

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", handlers.ClientKeyHeader},
		MaxAge:         300,
	}))

	// =========================================================================
	// 2. API Routing Tree
	// =========================================================================

	r.Route("/api", func(r chi.Router) {
		r.Route("/todos", func(r chi.Router) {
			// Sealed bodies are unwrapped before the handlers decode JSON.
			r.Use(cfg.CryptoHandler.UnsealBody)

			r.Get("/", cfg.TodoHandler.List)
			r.Post("/", cfg.TodoHandler.Create)
			r.Get("/{id}", cfg.TodoHandler.Get)
			r.Put("/{id}", cfg.TodoHandler.Update)
			r.Delete("/{id}", cfg.TodoHandler.Delete)
		})

		r.Post("/crypto/exchange", cfg.CryptoHandler.Exchange)
		r.Delete("/crypto/exchange", cfg.CryptoHandler.Revoke)
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Check)
	}

	return r
}
