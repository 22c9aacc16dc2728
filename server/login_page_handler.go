package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const msgCredentialsRequired = "Login va parol majburiy"

// SignInPageData contains data for rendering the sign-in page
type SignInPageData struct {
	Username string // Preserve username on error
}

// SignInPageHandler displays the sign-in page (GET /auth/sign-in)
func (s *Server) SignInPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderSignIn(w, r, http.StatusOK, r.URL.Query().Get("username"), r.URL.Query().Get("error"))
	}
}

// SignInSubmissionHandler exchanges the submitted credentials for a token
// pair. The API's own message is shown when it rejects them.
func (s *Server) SignInSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if username == "" || password == "" {
			s.renderSignIn(w, r, http.StatusBadRequest, username, msgCredentialsRequired)
			return
		}

		if _, err := s.api.Login(r.Context(), username, password); err != nil {
			zerolog.Ctx(r.Context()).Info().Err(err).Str("username", username).Msg("sign-in rejected")
			s.renderSignIn(w, r, http.StatusUnauthorized, username, err.Error())
			return
		}

		zerolog.Ctx(r.Context()).Info().Str("username", username).Msg("signed in")
		redirectSuccess(w, r, RouteDashboard)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.api.Logout(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Logout: failed to clear session")
		}
		redirectSuccess(w, r, RouteSignIn)
	}
}

func (s *Server) renderSignIn(w http.ResponseWriter, r *http.Request, status int, username, errorMsg string) {
	data := s.page(r, "Kirish", "", SignInPageData{Username: username})
	data.Error = errorMsg
	s.render(w, r, status, "sign_in.html", data)
}
