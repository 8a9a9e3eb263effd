package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lorekeep/gm-assist/internal/config"
)

// NewRouter assembles the panel routes with the standard middleware chain.
func NewRouter(cfg config.Config, srv *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer())
	r.Use(RequestID())
	r.Use(SecurityHeaders)
	r.Use(Metrics())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSAllowOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
	}))

	r.Get("/healthz", srv.HandleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(PanelAuth(cfg.PanelTokenHash))
		if cfg.RateLimitPerMin > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))
		}

		r.Post("/assistant/analyze", srv.HandleAnalyze)
		r.Post("/assistant/rules", srv.HandleRules)
		r.Post("/assistant/bridge", srv.HandleBridge)
		r.Post("/assistant/summary", srv.HandleSummary)
		r.Post("/artist/illustrate", srv.HandleIllustrate)

		r.Get("/queue", srv.HandleQueueSize)
		r.Delete("/queue", srv.HandleQueueClear)
	})

	return r
}
