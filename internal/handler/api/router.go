package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/davrbek/folio/internal/middleware"
)

// RouterOptions tunes the middleware stack around the API handlers.
type RouterOptions struct {
	IsDev bool
	// Mutations per minute allowed from a single IP.
	ContactPerMinute int
	CommentPerMinute int
	// Directory served under /uploads/.
	UploadsDir string
}

// Routes builds the full HTTP router: shared middleware, the public API
// with viewer sessions, the bearer-authenticated admin API and the uploads
// file server.
func (h *Handler) Routes(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(opts.IsDev))

	contactLimiter := perMinuteLimiter(opts.ContactPerMinute)
	commentLimiter := perMinuteLimiter(opts.CommentPerMinute)
	// Login attempts share one tight bucket per IP.
	loginLimiter := middleware.NewRateLimiter(10.0/60.0, 5)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints ride on a viewer session cookie, which doubles as
		// the like identity. Cookie-authenticated mutations go through CSRF
		// origin checks.
		r.Group(func(r chi.Router) {
			r.Use(h.sessions.LoadAndSave)
			r.Use(middleware.Language(h.resolver))
			r.Use(middleware.CSRF(opts.IsDev))

			r.Get("/articles", h.ListArticles)
			r.Get("/articles/{id}", h.GetArticle)
			r.Get("/articles/{id}/like-status", h.LikeStatus)
			r.Patch("/articles/{id}/like", h.ToggleLike)
			r.Patch("/articles/{id}/view", h.RecordView)
			r.With(commentLimiter.Middleware()).
				Post("/articles/{id}/comments", h.CreateComment)

			r.Get("/projects", h.ListProjects)
			r.Get("/skills", h.ListSkills)
			r.Get("/experiences", h.ListExperiences)
			r.Get("/settings", h.PublicSettings)
			r.With(contactLimiter.Middleware()).Post("/contact", h.Contact)
		})

		r.With(loginLimiter.Middleware()).Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)
		r.With(middleware.BearerAuth(h.db)).Get("/auth/me", h.Me)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.BearerAuth(h.db))

			r.Get("/articles", h.AdminListArticles)
			r.Post("/articles", h.AdminCreateArticle)
			r.Get("/articles/{id}", h.AdminGetArticle)
			r.Put("/articles/{id}", h.AdminUpdateArticle)
			r.Patch("/articles/{id}/status", h.AdminUpdateArticleStatus)
			r.Delete("/articles/{id}", h.AdminDeleteArticle)
			r.Post("/articles/{id}/translate", h.AdminTranslateArticle)

			r.Post("/projects", h.AdminCreateProject)
			r.Put("/projects/{id}", h.AdminUpdateProject)
			r.Delete("/projects/{id}", h.AdminDeleteProject)

			r.Post("/skills", h.AdminCreateSkill)
			r.Put("/skills/{id}", h.AdminUpdateSkill)
			r.Delete("/skills/{id}", h.AdminDeleteSkill)

			r.Post("/experiences", h.AdminCreateExperience)
			r.Put("/experiences/{id}", h.AdminUpdateExperience)
			r.Delete("/experiences/{id}", h.AdminDeleteExperience)

			r.Get("/comments", h.AdminListComments)
			r.Patch("/comments/{id}/approve", h.AdminApproveComment)
			r.Delete("/comments/{id}", h.AdminDeleteComment)

			r.Get("/messages", h.AdminListMessages)
			r.Patch("/messages/{id}/read", h.AdminMarkMessageRead)
			r.Delete("/messages/{id}", h.AdminDeleteMessage)

			r.Get("/settings", h.AdminListSettings)
			r.Put("/settings", h.AdminUpdateSettings)
			r.Delete("/settings/{key}", h.AdminDeleteSetting)

			r.Get("/events", h.AdminListEvents)
			r.Post("/media", h.AdminUploadMedia)
		})
	})

	if opts.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}

func perMinuteLimiter(perMinute int) *middleware.RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return middleware.NewRateLimiter(float64(perMinute)/60.0, perMinute)
}
