package fikaserver

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/fika-analyzer/internal/config"
	"github.com/magabrotheeeer/fika-analyzer/internal/http/handlers/fika/invitees"
	"github.com/magabrotheeeer/fika-analyzer/internal/http/handlers/fika/pageviews"
	"github.com/magabrotheeeer/fika-analyzer/internal/http/handlers/fika/questions"
	"github.com/magabrotheeeer/fika-analyzer/internal/http/handlers/fika/report"
	"github.com/magabrotheeeer/fika-analyzer/internal/http/handlers/health"
	"github.com/magabrotheeeer/fika-analyzer/internal/http/middlewarectx"
	services "github.com/magabrotheeeer/fika-analyzer/internal/services/fika"

	_ "github.com/magabrotheeeer/fika-analyzer/docs"
)

// RegisterRoutes регистрирует маршруты сервера.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, service *services.Service, gatherer prometheus.Gatherer) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New().ServeHTTP)

		// Каждый запрос уходит в API Википедии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))
			r.Get("/pageviews", pageviews.New(logger, service).ServeHTTP)
			r.Get("/questions", questions.New(logger, service).ServeHTTP)
			r.Get("/invitees", invitees.New(logger, service).ServeHTTP)
			r.Get("/report", report.New(logger, service).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))
}
