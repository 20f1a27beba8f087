package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"vocapsule/internal/logger"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleOAuth drives the Google sign-in redirect dance: building the consent
// URL, exchanging the callback code and fetching the verified email.
type GoogleOAuth struct {
	cfg        *oauth2.Config
	httpClient *http.Client
}

func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether Google sign-in is configured.
func (g *GoogleOAuth) Enabled() bool {
	return g.cfg.ClientID != "" && g.cfg.ClientSecret != "" && g.cfg.RedirectURL != ""
}

// AuthURL builds the consent-screen URL carrying the given state nonce.
func (g *GoogleOAuth) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// FetchEmail exchanges the callback code for a token and returns the
// account's email from the userinfo endpoint.
func (g *GoogleOAuth) FetchEmail(ctx context.Context, code string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("google")

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		log.Warn("code exchange failed: %v", err)
		return "", fmt.Errorf("oauth exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("User-Agent", "vocapsule")

	res, err := g.httpClient.Do(req)
	if err != nil {
		log.Warn("userinfo request failed: %v", err)
		return "", fmt.Errorf("oauth userinfo failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		log.Warn("userinfo returned %d: %s", res.StatusCode, body)
		return "", fmt.Errorf("oauth userinfo returned %d", res.StatusCode)
	}

	var profile struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return "", fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.Email == "" {
		return "", fmt.Errorf("no email in userinfo response")
	}
	return profile.Email, nil
}
