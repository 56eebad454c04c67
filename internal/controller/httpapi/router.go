package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// RouterConfig всё, что нужно для сборки роутера
type RouterConfig struct {
	Handler  *Handler
	Verifier TokenVerifier
	Limiter  RateLimiter
	Checks   []ReadyCheck
	Logger   *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(cfg.Checks))

	h := cfg.Handler

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(RateLimit(cfg.Limiter, cfg.Logger))
		}
		r.Use(Authenticate(cfg.Verifier))

		r.Get("/providers", h.listProviders)
		r.Get("/providers/{id}/available", h.providerAvailability)

		r.Get("/appointments", h.listAppointments)
		r.Post("/appointments", h.createAppointment)
		r.Delete("/appointments/{id}", h.cancelAppointment)

		r.Get("/schedule", h.providerSchedule)

		r.Get("/notifications", h.listNotifications)
		r.Put("/notifications/{id}", h.markNotificationRead)
	})

	return r
}
