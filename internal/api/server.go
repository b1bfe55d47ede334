package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adams521/everything-gift/internal/auth"
	"github.com/Adams521/everything-gift/internal/telemetry"
)

// NewRouter mounts every page. Identity is loaded for all of them; none
// requires a login.
func NewRouter(h *Handler, identity *auth.Middleware) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(telemetry.Middleware)
		r.Use(identity.LoadIdentity)

		r.Get("/", h.Home)

		r.Get("/recommend", h.RecommendForm)
		r.Post("/recommend", h.SubmitRecommendation)
		r.Get("/results", h.Results)
		r.Get("/products", h.Products)

		r.Get("/register", h.RegisterForm)
		r.Post("/register", h.Register)
		r.Get("/login", h.LoginForm)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	r.NotFound(identity.LoadIdentity(http.HandlerFunc(h.NotFound)).ServeHTTP)

	return r
}
