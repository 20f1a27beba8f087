package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.handleHealth)

	// JSON auth endpoints plus the older form-based variants the frontend
	// still posts to.
	r.Post("/signup", s.handleSignUpJSON)
	r.Post("/signin", s.handleSignInJSON)
	r.Post("/logout", s.handleLogout)
	r.Post("/auth/signup", s.handleSignUpForm)
	r.Post("/auth/login", s.handleSignInForm)
	r.Post("/auth/logout", s.handleLogout)
	r.Get("/auth/google/login", s.handleGoogleLogin)
	r.Get("/auth/google/callback", s.handleGoogleCallback)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/me", s.handleMe)
		r.Post("/vocab/today/auto", s.handleVocabToday)
		r.Get("/vocab/list", s.handleVocabList)
		r.Get("/vocab/random", s.handleVocabRandom)
		r.Post("/vocab/reset", s.handleVocabReset)
		r.Post("/quiz/start", s.handleQuizStart)
		r.Post("/quiz/answer", s.handleQuizAnswer)
		r.Post("/quiz/finish", s.handleQuizFinish)
		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusFound)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))))
	return r
}
