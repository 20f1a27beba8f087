package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"vocapsule/internal/errors"
	"vocapsule/internal/logger"
	"vocapsule/internal/models"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type authResponse struct {
	OK    bool   `json:"ok"`
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (s *Server) handleSignUpJSON(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	s.signUp(w, r, req.Email, req.Password)
}

func (s *Server) handleSignUpForm(w http.ResponseWriter, r *http.Request) {
	req := credentialsRequest{Email: r.FormValue("email"), Password: r.FormValue("password")}
	if err := validateStruct(&req); err != nil {
		handleError(w, r, err)
		return
	}
	s.signUp(w, r, req.Email, req.Password)
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request, email, password string) {
	user, err := s.AuthService.SignUp(r.Context(), email, password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.startSession(w, user); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{OK: true, ID: user.ID, Email: user.Email})
}

func (s *Server) handleSignInJSON(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	s.signIn(w, r, req.Email, req.Password)
}

func (s *Server) handleSignInForm(w http.ResponseWriter, r *http.Request) {
	email, password := r.FormValue("email"), r.FormValue("password")
	if email == "" || password == "" {
		handleError(w, r, errors.NewBadRequestError("email and password required"))
		return
	}
	s.signIn(w, r, email, password)
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, email, password string) {
	user, err := s.AuthService.SignIn(r.Context(), email, password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.startSession(w, user); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{OK: true, ID: user.ID, Email: user.Email})
}

func (s *Server) startSession(w http.ResponseWriter, user *models.User) error {
	token, err := s.Tokens.IssueSession(user.ID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	s.setSessionCookie(w, token)
	return nil
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.AuthService.User(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": user.ID, "email": user.Email})
}

func newStateNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.Google.Enabled() {
		http.Error(w, "google oauth not configured", http.StatusServiceUnavailable)
		return
	}

	state := newStateNonce()
	signed, err := s.Tokens.IssueState(state)
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.CookieSecure,
		MaxAge:   600,
	})
	http.Redirect(w, r, s.Google.AuthURL(state), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" {
		handleError(w, r, errors.NewBadRequestError("missing oauth state"))
		return
	}
	state, err := s.Tokens.ParseState(cookie.Value)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("bad oauth state"))
		return
	}
	if q := r.URL.Query().Get("state"); q != state {
		handleError(w, r, errors.NewBadRequestError("invalid oauth state"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		handleError(w, r, errors.NewBadRequestError("missing code"))
		return
	}
	if !s.Google.Enabled() {
		http.Error(w, "google oauth not configured", http.StatusServiceUnavailable)
		return
	}

	email, err := s.Google.FetchEmail(r.Context(), code)
	if err != nil {
		log.Warn("google sign-in failed: %v", err)
		handleError(w, r, errors.NewBadRequestError("oauth exchange failed"))
		return
	}

	user, err := s.AuthService.EnsureOAuthUser(r.Context(), email)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.startSession(w, user); err != nil {
		handleError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:    oauthStateCookie,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
