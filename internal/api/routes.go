package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hotdeals/deal-harvester/internal/observability"
)

// NewRouter wires the handlers into the HTTP route tree.
func NewRouter(handlers *Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Get("/", handlers.Health)
	router.Handle("/metrics", observability.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/products", handlers.ListProducts)
		r.Get("/products/top-deals", handlers.TopDeals)
		r.Get("/products/stats", handlers.Stats)
		r.Get("/scrape/status", handlers.ScrapeStatus)
		r.Post("/scrape/trigger", handlers.TriggerScrape)
	})

	return router
}
