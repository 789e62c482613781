package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendora/vendora/internal/auth"
	"github.com/vendora/vendora/internal/observability"
	"github.com/vendora/vendora/internal/orders"
	"github.com/vendora/vendora/internal/products"
	"github.com/vendora/vendora/internal/users"
	"github.com/vendora/vendora/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthMiddleware  *auth.Middleware
	AuthHandler     *auth.Handler
	OrdersHandler   *orders.Handler
	ProductsHandler *products.Handler
	UsersHandler    *users.Handler
	JobsHandler     *jobs.Handler
	Pool            *pgxpool.Pool
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Vendora defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Auth:    params.AuthMiddleware,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if params.Pool != nil {
			if err := params.Pool.Ping(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AuthHandler != nil {
		r.Route("/auth", func(sub chi.Router) {
			params.AuthHandler.MountRoutes(sub)
		})
	}
	if params.OrdersHandler != nil {
		r.Route("/orders", func(sub chi.Router) {
			params.OrdersHandler.MountRoutes(sub)
		})
	}
	if params.ProductsHandler != nil {
		r.Route("/products", func(sub chi.Router) {
			params.ProductsHandler.MountRoutes(sub)
		})
	}
	if params.UsersHandler != nil {
		r.Route("/users", func(sub chi.Router) {
			params.UsersHandler.MountRoutes(sub)
		})
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", func(sub chi.Router) {
			params.JobsHandler.MountRoutes(sub)
		})
	}

	return r
}
