package server

import (
	"net/http"

	"github.com/pdpkitchen/dashboard/query"
	"github.com/pdpkitchen/dashboard/sessions"
	"github.com/pdpkitchen/dashboard/stats"
	"github.com/pdpkitchen/dashboard/students"
)

// RedirectGate keeps signed-out browsers on the sign-in page and signed-in
// ones away from it. Presence of the access token cookie is all it checks;
// an expired token is caught by the API client, which redirects here.
func (s *Server) RedirectGate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RouteHealth || isStaticAsset(r.URL.Path) {
			next(w, r)
			return
		}

		cookie, err := r.Cookie(sessions.AccessTokenCookie)
		signedIn := err == nil && cookie.Value != ""
		onSignIn := r.URL.Path == RouteSignIn

		switch {
		case !signedIn && !onSignIn:
			redirectSuccess(w, r, RouteSignIn)
		case signedIn && onSignIn:
			redirectSuccess(w, r, RouteDashboard)
		default:
			next(w, r)
		}
	}
}

// SessionMiddleware binds a cookie store to the request so every API call
// made while serving it uses, and updates, this browser's token pair
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := sessions.NewCookieStore(w, r, s.cookieOptions()...)
		ctx := sessions.NewContext(r.Context(), store)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) cookieOptions() []sessions.CookieOption {
	opts := []sessions.CookieOption{sessions.WithRefreshMaxAge(s.config.GetRefreshCookieMaxAge())}
	if s.sealer != nil {
		opts = append(opts, sessions.WithSealer(s.sealer))
	}
	return opts
}

// queriesFor returns the query client whose cache is private to the browser
// session of r. Requests without a session id are never cached.
func (s *Server) queriesFor(r *http.Request) *query.Client {
	if store, ok := sessions.FromContext(r.Context()); ok {
		if cs, ok := store.(*sessions.CookieStore); ok {
			return s.queries.Scoped(cs.SessionID())
		}
	}
	return s.queries.Scoped("")
}

func (s *Server) studentsFor(r *http.Request) *students.Service {
	return students.NewService(s.queriesFor(r))
}

func (s *Server) statsFor(r *http.Request) *stats.Service {
	return stats.NewService(s.queriesFor(r))
}
