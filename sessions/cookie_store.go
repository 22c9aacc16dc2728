package sessions

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// AccessTokenCookie is read by the dashboard's redirect gate, so its presence alone means "signed in"
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	// SessionIDCookie scopes per-browser caches; it lives exactly as long as the token pair
	SessionIDCookie = "dashboard_sid"
)

// CookieStore keeps the credentials of one browser in cookies. It is bound to a
// single request/response pair and must not outlive the handler.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	sealer *Sealer
	maxAge time.Duration

	mu        sync.Mutex
	pending   *Credentials // written during this request, not yet visible in r.Cookies()
	sessionID string
}

var _ Store = (*CookieStore)(nil)

type CookieOption func(*CookieStore)

// WithSealer encrypts the refresh token cookie
func WithSealer(s *Sealer) CookieOption {
	return func(cs *CookieStore) {
		cs.sealer = s
	}
}

// WithRefreshMaxAge sets the lifetime of the refresh token and session id cookies
func WithRefreshMaxAge(d time.Duration) CookieOption {
	return func(cs *CookieStore) {
		cs.maxAge = d
	}
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts ...CookieOption) *CookieStore {
	cs := &CookieStore{
		w:      w,
		r:      r,
		maxAge: 7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(cs)
	}
	if c, err := r.Cookie(SessionIDCookie); err == nil {
		cs.sessionID = c.Value
	}
	return cs
}

// SessionID identifies the browser session; empty when signed out
func (cs *CookieStore) SessionID() string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.sessionID
}

func (cs *CookieStore) Get(_ context.Context) (Credentials, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.pending != nil {
		return *cs.pending, nil
	}

	creds := Credentials{}
	if c, err := cs.r.Cookie(AccessTokenCookie); err == nil {
		creds.AccessToken = c.Value
	}
	if c, err := cs.r.Cookie(RefreshTokenCookie); err == nil && c.Value != "" {
		creds.RefreshToken = c.Value
		if cs.sealer != nil {
			plain, err := cs.sealer.Open(c.Value)
			if err != nil {
				// A cookie sealed with a rotated secret is as good as missing
				log.Warn().Err(err).Msg("discarding refresh token cookie")
				plain = ""
			}
			creds.RefreshToken = plain
		}
	}
	return creds, nil
}

func (cs *CookieStore) Set(_ context.Context, creds Credentials) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	refreshValue := creds.RefreshToken
	if cs.sealer != nil && refreshValue != "" {
		sealed, err := cs.sealer.Seal(refreshValue)
		if err != nil {
			return err
		}
		refreshValue = sealed
	}

	// The gate only checks that the access cookie exists, so it must live as
	// long as the refresh token can renew it. Without one it dies with its exp claim.
	access := cs.cookie(AccessTokenCookie, creds.AccessToken)
	if creds.RefreshToken != "" {
		access.MaxAge = int(cs.maxAge.Seconds())
	} else if exp, ok := creds.AccessExpiry(); ok {
		access.Expires = exp
	}
	http.SetCookie(cs.w, access)

	refresh := cs.cookie(RefreshTokenCookie, refreshValue)
	refresh.MaxAge = int(cs.maxAge.Seconds())
	http.SetCookie(cs.w, refresh)

	if cs.sessionID == "" {
		cs.sessionID = uuid.NewString()
	}
	sid := cs.cookie(SessionIDCookie, cs.sessionID)
	sid.MaxAge = int(cs.maxAge.Seconds())
	http.SetCookie(cs.w, sid)

	cs.pending = &creds
	return nil
}

func (cs *CookieStore) Clear(_ context.Context) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, SessionIDCookie} {
		c := cs.cookie(name, "")
		c.MaxAge = -1
		http.SetCookie(cs.w, c)
	}
	cs.pending = &Credentials{}
	cs.sessionID = ""
	return nil
}

func (cs *CookieStore) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(cs.r),
		SameSite: http.SameSiteLaxMode,
	}
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
