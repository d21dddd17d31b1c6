package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	jwttoken "organmatch/internal/jwt_token"
	"organmatch/internal/platform/config"
	"organmatch/internal/platform/metrics"
	"organmatch/pkg/platform/httputil"
	"organmatch/pkg/platform/middleware/auth"
	"organmatch/pkg/platform/middleware/request"
	"organmatch/pkg/platform/middleware/requesttime"
)

const requestTimeout = 30 * time.Second

func newRouter(cfg config.Server, log *slog.Logger, a *app, in *infra) http.Handler {
	httpMetrics := metrics.New()
	verifier := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(request.Logger(log))
	r.Use(httpMetrics.Middleware)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", healthHandler(in))
	r.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Use(auth.RequireTenant(verifier, log))
		a.matching.Register(r)
		a.ledger.Register(r)
		a.registry.Register(r)
	})
	return r
}

func healthHandler(in *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, err := range in.health(ctx) {
			if err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = "unavailable"
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
