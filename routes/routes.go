package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/formloop/formloop/app"
	"github.com/formloop/formloop/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/health", health)
	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Route("/auth", func(r chi.Router) {
		r.Post("/register", Register(app))
		r.Post("/login", Login(app))
		r.Post("/otp/request", RequestOTP(app))
		r.Post("/otp/verify", VerifyOTP(app))

		r.With(middlewares.Owner(app.Tokens)).Get("/verify", VerifyToken(app))
	})

	api.Route("/forms", func(r chi.Router) {
		r.Use(middlewares.Owner(app.Tokens))

		// CRUD form
		r.Post("/", CreateForm(app))
		r.Get("/", ListForms(app))
		r.Get("/{id}", GetFormByID(app))
		r.Put("/{id}", UpdateForm(app))
		r.Delete("/{id}", DeleteForm(app))

		// read side
		r.Get("/{id}/responses", GetFormResponses(app))
		r.Get("/{id}/analytics", GetFormAnalytics(app))
		r.Get("/{id}/export", ExportFormResponses(app))
	})

	api.Get("/public/forms/{slug}", PublicGetForm(app))
	api.Post("/public/forms/{slug}/responses", PublicSubmitResponse(app))

	return api
}

var startedAt = time.Now()

func health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":    "healthy",
		"uptime":    time.Since(startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
