package handler

import (
	"net/http"

	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the HTTP handlers served by the router.
// Auth may be nil when login is disabled.
type Handlers struct {
	Posts      *PostHandler
	Categories *CategoryHandler
	SEO        *SeoHandler
	Auth       *AuthHandler
}

// NewRouter creates and configures a new chi router.
// sm may be nil, in which case no session is loaded.
func NewRouter(h Handlers, log logger.Logger, sm session.Manager, authzMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	if sm != nil {
		r.Use(sm.LoadAndSave)
	}

	e := middleware.Error(log)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/posts", http.StatusFound)
	})
	r.Get("/robots.txt", h.SEO.robotsHandler)
	r.Method(http.MethodGet, "/sitemap.xml", e(h.SEO.sitemapHandler))

	r.Method(http.MethodGet, "/posts", e(h.Posts.listPublicHandler))
	r.Method(http.MethodGet, "/posts/{id}", e(h.Posts.viewHandler))
	r.Method(http.MethodGet, "/categories", e(h.Categories.listHandler))

	if h.Auth != nil {
		r.Get("/auth/login", h.Auth.handleLogin)
		r.Get("/auth/callback", h.Auth.handleCallback)
		r.Get("/auth/logout", h.Auth.handleLogout)
	}

	r.Route("/admin", func(r chi.Router) {
		r.Use(authzMiddleware)

		r.Method(http.MethodGet, "/posts", e(h.Posts.listAdminHandler))
		r.Method(http.MethodPost, "/posts", e(h.Posts.createHandler))
		r.Method(http.MethodGet, "/posts/{id}", e(h.Posts.editHandler))
		r.Method(http.MethodPut, "/posts/{id}", e(h.Posts.updateHandler))
		r.Method(http.MethodDelete, "/posts/{id}", e(h.Posts.deleteHandler))
		r.Method(http.MethodPost, "/posts/{id}/publish", e(h.Posts.publishHandler))
		r.Method(http.MethodPost, "/posts/{id}/unpublish", e(h.Posts.unpublishHandler))

		r.Method(http.MethodPost, "/categories", e(h.Categories.createHandler))
		r.Method(http.MethodDelete, "/categories/{id}", e(h.Categories.deleteHandler))
	})

	return r
}
