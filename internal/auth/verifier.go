// Package auth gates the admin API: bearer tokens are verified as HS256
// JWTs and the carried email must appear on the configured allow-list.
// There is no sign-up or role model; the dashboard trusts the marketplace's
// identity provider to mint tokens and only decides who is an admin.
package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// DefaultLeeway is clock skew tolerance for token validation.
const DefaultLeeway = 15 * time.Second

// Identity is the verified admin identity placed on the request context.
type Identity struct {
	Email string
	Name  string
}

// Claims are the JWT claims the dashboard cares about.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 session tokens.
type TokenVerifier struct {
	secret []byte
	leeway time.Duration
}

// NewTokenVerifier creates a verifier for tokens signed with the given
// shared secret.
func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session token secret is required")
	}
	return &TokenVerifier{
		secret: []byte(secret),
		leeway: DefaultLeeway,
	}, nil
}

// Verify validates the token's signature and expiry and returns the identity
// it carries. Tokens without an email claim are rejected regardless of
// signature validity.
func (v *TokenVerifier) Verify(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("token required")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unsupported signing method")
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return nil, errors.New("email claim required")
	}

	return &Identity{Email: email, Name: claims.Name}, nil
}
