package api

import (
	"net/http"
	"time"

	appconfig "bond-terminal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *Handler, cfg *appconfig.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.HTTP.CORSAllowedOrigins},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(MetricsMiddleware)

	// Metrics endpoint for Prometheus
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Get("/meta", h.HandleMeta)

		// Generative analysis gateway
		r.Route("/analysis", func(r chi.Router) {
			r.Post("/insight", h.HandleInsight)
			r.Post("/news", h.HandleIssuerNews)
			r.Post("/macro", h.HandleMacro)
			r.Post("/background", h.HandleBackground)
			r.Post("/financial", h.HandleFinancial)
		})

		// Watchlist and session state
		r.Get("/watchlist", h.HandleWatchlist)
		r.Get("/watchlist/{id}/history", h.HandleHistory)
		r.Get("/rates", h.HandleRates)
		r.Get("/news", h.HandleNewsFeed)
		r.Get("/state", h.HandleState)
		r.Post("/select", h.HandleSelect)
		r.Delete("/select", h.HandleDeselect)
	})

	return r
}
