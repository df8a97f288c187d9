package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-rider-notify/internal/http/handlers"
	mw "service-rider-notify/internal/http/middleware"
	"service-rider-notify/internal/http/middleware/ratelimit"
	"service-rider-notify/internal/logx"
)

// Deps carries everything the router mounts.
type Deps struct {
	Base      *handlers.Handlers
	Notify    *handlers.NotifyHandler
	Webhook   *handlers.WebhookHandler
	RateLimit *ratelimit.Middleware
	Pprof     http.Handler
	Logger    logx.Logger
}

// New constructs a chi-based http.Handler with base middleware and routes.
// Dispatch routes get a long timeout: paced batches legitimately run for
// minutes. The webhook is the only rate-limited surface; it faces the
// provider, not operators.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.Observability(d.Logger))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(5 * time.Second))
		r.Get("/ping", d.Base.Ping)
		r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
		r.Handle("/metrics", promhttp.Handler())
	})

	r.Route("/notifications", func(r chi.Router) {
		r.With(middleware.Timeout(5 * time.Minute)).Post("/dispatch", d.Notify.Dispatch)
		r.With(middleware.Timeout(time.Minute)).Post("/{id}/send", d.Notify.SendOne)
		r.With(middleware.Timeout(5 * time.Second)).Get("/stats", d.Notify.Stats)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		if d.RateLimit != nil {
			r.Use(d.RateLimit.Handler())
		}
		r.Post("/webhooks/sms", d.Webhook.InboundSMS)
	})

	if d.Pprof != nil {
		r.Mount("/debug", d.Pprof)
	}

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
