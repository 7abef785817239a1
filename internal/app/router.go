package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tsena-shop/tsena/internal/catalog/categories"
	"github.com/tsena-shop/tsena/internal/catalog/groups"
	"github.com/tsena-shop/tsena/internal/catalog/products"
	"github.com/tsena-shop/tsena/internal/catalog/watch"
	"github.com/tsena-shop/tsena/internal/customers"
	"github.com/tsena-shop/tsena/internal/ledger"
	"github.com/tsena-shop/tsena/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	GroupsHandler    *groups.Handler
	CategoriesHandler *categories.Handler
	ProductsHandler  *products.Handler
	LedgerHandler    *ledger.Handler
	CustomersHandler *customers.Handler
	WatchHandler     *watch.Handler
	JobsHandler      *jobs.Handler
	MediaRoot        string
}

// NewRouter constructs the chi.Router with Tsena defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Route("/groups", params.GroupsHandler.MountRoutes)
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/inventory", params.LedgerHandler.MountRoutes)
		if params.CustomersHandler != nil {
			r.Route("/customers", params.CustomersHandler.MountRoutes)
		}
		if params.WatchHandler != nil {
			r.Route("/catalog/watch", params.WatchHandler.MountRoutes)
		}
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	r.Route("/shop", func(r chi.Router) {
		r.Route("/products", params.ProductsHandler.MountPublicRoutes)
	})

	if params.MediaRoot != "" {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(params.MediaRoot)))
		r.Get("/media/*", func(w http.ResponseWriter, req *http.Request) {
			fileServer.ServeHTTP(w, req)
		})
	}

	return r
}
