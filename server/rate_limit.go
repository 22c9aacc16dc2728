package server

import (
	"net/http"
	"sync"
	"time"

	apperrors "github.com/pdpkitchen/dashboard/internal/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter throttles sign-in attempts per client IP
type loginLimiter struct {
	mu        sync.Mutex
	perMinute int
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newLoginLimiter(perMinute int) *loginLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &loginLimiter{
		perMinute: perMinute,
		visitors:  make(map[string]*visitor),
		lastSweep: time.Now(),
	}
}

func (l *loginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > time.Minute {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

// LoginRateLimitMiddleware answers 429 with the sign-in page once a client
// exceeds its sign-in budget
func (s *Server) LoginRateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.logins == nil {
			next(w, r)
			return
		}
		ip := clientIP(r, s.config.GetTrustProxy())
		if !s.logins.Allow(ip) {
			zerolog.Ctx(r.Context()).Warn().Err(apperrors.ErrRateLimited).Str("ip", ip).Msg("sign-in rejected")
			s.renderSignIn(w, r, http.StatusTooManyRequests, r.FormValue("username"), msgTooManyAttempts)
			return
		}
		next(w, r)
	}
}
