package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type sessionClaims struct {
	UID int64 `json:"uid"`
	jwt.RegisteredClaims
}

type stateClaims struct {
	State string `json:"state"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the HS256 tokens used for session cookies
// and the short-lived OAuth state cookie.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// IssueSession creates a session token for the given user.
func (i *TokenIssuer) IssueSession(userID int64) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// ParseSession verifies a session token and returns the user id.
func (i *TokenIssuer) ParseSession(token string) (int64, error) {
	claims := &sessionClaims{}
	if err := i.parse(token, claims); err != nil {
		return 0, err
	}
	if claims.UID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UID, nil
}

// IssueState wraps an OAuth state nonce in a signed token valid for ten
// minutes, long enough for one redirect round trip.
func (i *TokenIssuer) IssueState(state string) (string, error) {
	now := time.Now()
	claims := stateClaims{
		State: state,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// ParseState verifies a state token and returns the embedded nonce.
func (i *TokenIssuer) ParseState(token string) (string, error) {
	claims := &stateClaims{}
	if err := i.parse(token, claims); err != nil {
		return "", err
	}
	if claims.State == "" {
		return "", ErrInvalidToken
	}
	return claims.State, nil
}

func (i *TokenIssuer) parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
