package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-pos/meridian-pos/internal/auth"
	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/observability"
	reporthttp "github.com/meridian-pos/meridian-pos/internal/reports/http"
	"github.com/meridian-pos/meridian-pos/internal/sales"
	"github.com/meridian-pos/meridian-pos/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthService    *auth.Service
	AuthHandler    *auth.Handler
	CatalogHandler *catalog.Handler
	UsersHandler   *users.Handler
	SalesHandler   *sales.Handler
	ReportsHandler *reporthttp.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			params.AuthHandler.MountRoutes(ar)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(params.AuthService.RequireAuth)
			params.CatalogHandler.MountRoutes(protected)
			params.UsersHandler.MountRoutes(protected)
			params.SalesHandler.MountRoutes(protected)
			params.ReportsHandler.MountRoutes(protected)
		})
	})

	return r
}
