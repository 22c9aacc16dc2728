package sessions

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Credentials is the bearer token pair issued by the API on login.
// Exactly one pair is active per store; there is no history.
type Credentials struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

func (c Credentials) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Token returns the pair as an oauth2 bearer token. Expiry is taken from the
// access token's exp claim when it is a JWT.
func (c Credentials) Token() *oauth2.Token {
	t := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
	}
	if exp, ok := c.AccessExpiry(); ok {
		t.Expiry = exp
	}
	return t
}

// AccessExpiry is the exp claim of the access token, if it carries one
func (c Credentials) AccessExpiry() (time.Time, bool) {
	return TokenExpiry(c.AccessToken)
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Verification is the API's job; the dashboard only uses the value to size cookie lifetimes.
func TokenExpiry(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Store holds the active credentials. Implementations are free to be shared
// between goroutines; the last writer wins.
type Store interface {
	Get(ctx context.Context) (Credentials, error)
	Set(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying store. The API client prefers a
// store found in the request context over its default one.
func NewContext(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, contextKey{}, store)
}

func FromContext(ctx context.Context) (Store, bool) {
	store, ok := ctx.Value(contextKey{}).(Store)
	return store, ok && store != nil
}
