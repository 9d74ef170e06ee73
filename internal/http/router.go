package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/linked-feed/internal/http/handlers"
	"github.com/pribylovaa/linked-feed/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
	Metrics  middleware.Observer
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // request-scoped логгер в контексте
		middleware.Metrics(opts.Metrics),
	)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, opts.Timeout)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, opts.Timeout)
	return root
}

// registerRoutes — единая точка регистрации всех эндпойнтов view.
// Поток /events живёт дольше таймаута запроса, поэтому он вне группы с Timeout.
func registerRoutes(r chi.Router, h *handlers.Handlers, timeout time.Duration) {
	r.Get("/events", h.Events)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		// auth
		r.Post("/auth/signin", h.SignIn)
		r.Post("/auth/signup", h.SignUp)
		r.Post("/auth/signout", h.SignOut)
		r.Post("/auth/password-check", h.PasswordCheck)

		// profile
		r.Get("/me", h.Me)
		r.Put("/me/photo", h.UploadPhoto)
		r.Patch("/me/password", h.ChangePassword)

		// feed
		r.Get("/feed", h.Feed)
		r.Post("/feed/posts", h.CreatePost)
		r.Get("/my/posts", h.MyPosts)

		// posts
		r.Get("/posts/{id}", h.OpenPost)
		r.Put("/posts/{id}", h.UpdatePost)
		r.Delete("/posts/{id}", h.DeletePost)

		// comments
		r.Get("/posts/{id}/comments", h.LoadComments)
		r.Post("/posts/{id}/comments", h.SubmitComment)
		r.Put("/posts/{id}/comments/draft", h.SetDraft)
		r.Delete("/posts/{id}/comments/edit", h.CancelEdit)
		r.Post("/posts/{id}/comments/{cid}/edit", h.StartEdit)
		r.Delete("/posts/{id}/comments/{cid}", h.DeleteComment)
	})
}
