package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// Public routes
	r.Get("/signup", h.SignupPage)
	r.Post("/signup", h.Signup)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	// Session-gated routes
	r.Group(func(r chi.Router) {
		r.Use(h.SessionMiddleware)

		r.Get("/", h.Home)
		r.Get("/new", h.NewChat)
		r.Get("/chat/{chatID}", h.ChatPage)
		r.Post("/chat/{chatID}/send", h.Send)
		r.Post("/chat/{chatID}/delete", h.Delete)
	})

	return r
}
