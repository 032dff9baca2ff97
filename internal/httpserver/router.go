package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"firewatch/internal/auth"
	"firewatch/internal/comments"
	"firewatch/internal/fires"
	"firewatch/internal/httpapi"
	"firewatch/internal/metrics"
)

const (
	loginRate  = rate.Limit(30.0 / 60.0) // 30 attempts/min per IP
	loginBurst = 30
)

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	fireSvc *fires.Service,
	commentSvc *comments.Service,
	collector *metrics.Collector,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger, collector))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	authHandler := &auth.Handler{Service: authSvc, Logger: logger}
	firesHandler := &fires.Handler{Service: fireSvc, Logger: logger, Metrics: collector}
	commentsHandler := &comments.Handler{Service: commentSvc, Logger: logger, Metrics: collector}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpapi.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))
	}

	limiter := newLoginLimiter(loginRate, loginBurst)
	secured := auth.Middleware(authSvc)

	r.Route("/api", func(r chi.Router) {
		r.With(limiter.middleware).Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(secured)
			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/fires", firesHandler.List)
			r.Post("/fires", firesHandler.Create)
			r.Get("/fires/{id}", firesHandler.Get)
			r.Patch("/fires/{id}/status", firesHandler.UpdateStatus)

			r.Get("/fires/{id}/comments", commentsHandler.List)
			r.Post("/fires/{id}/comments", commentsHandler.Create)
		})
	})

	return r
}
