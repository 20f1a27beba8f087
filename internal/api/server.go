package api

import (
	"vocapsule/internal/auth"
	"vocapsule/internal/services"
)

// Server bundles the services and auth helpers behind the HTTP handlers.
type Server struct {
	AuthService  services.AuthService
	VocabService services.VocabService
	QuizService  services.QuizService
	StatsService services.StatsService

	Tokens       *auth.TokenIssuer
	Google       *auth.GoogleOAuth
	CookieSecure bool
	StaticDir    string
}
