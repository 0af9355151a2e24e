package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"learnmint-calculator/internal/calculator"
	"learnmint-calculator/internal/handlers"
	"learnmint-calculator/internal/observability"
)

// NewRouter mounts health, metrics and the calculator API behind the
// recovery, request-ID, tracing and logging middleware. A non-nil limiter
// applies to the calculator API only.
func NewRouter(calc *calculator.Handler, limiter *RateLimiter) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	sessionsGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "learnmint_calculator_sessions",
		Help: "Calculator sessions currently held in memory.",
	}, func() float64 {
		return float64(calc.ActiveSessions())
	})
	r.Handle("/metrics", observability.PrometheusHandler(sessionsGauge))

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		calculator.RegisterRoutes(r, calc)
	})

	return r
}
