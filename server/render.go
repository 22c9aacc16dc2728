package server

import (
	"bytes"
	"net/http"

	"github.com/pdpkitchen/dashboard/apiclient"
	"github.com/pdpkitchen/dashboard/sessions"
	"github.com/rs/zerolog"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"

	msgErrorPrefix     = "Xatolik yuz berdi: "
	msgSessionExpired  = "Sessiya muddati tugadi, qaytadan kiring"
	msgTooManyAttempts = "Juda ko'p urinish. Birozdan so'ng qayta urinib ko'ring"
)

// PageData is the model every page template receives
type PageData struct {
	AppName  string
	Title    string
	Active   string // nav entry to highlight
	SignedIn bool
	Success  string
	Error    string
	Data     any
}

func (s *Server) page(r *http.Request, title, active string, data any) PageData {
	cookie, err := r.Cookie(sessions.AccessTokenCookie)
	return PageData{
		AppName:  s.config.GetAppName(),
		Title:    title,
		Active:   active,
		SignedIn: err == nil && cookie.Value != "",
		Success:  r.URL.Query().Get("success"),
		Error:    r.URL.Query().Get("error"),
		Data:     data,
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data PageData) {
	tmpl, ok := s.pages[name]
	if !ok {
		zerolog.Ctx(r.Context()).Error().Str("template", name).Msg("unknown page template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Str("template", name).Msg("failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows an API failure verbatim. An expired session sends the
// browser back to sign-in; the client has already cleared its cookies.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, title string, err error) {
	if apiclient.IsAuthExpired(err) {
		redirectWithError(w, r, RouteSignIn, msgSessionExpired)
		return
	}
	zerolog.Ctx(r.Context()).Warn().Err(err).Str("kind", apiclient.KindOf(err).String()).Msg("api call failed")

	data := s.page(r, title, "", nil)
	data.Error = msgErrorPrefix + err.Error()
	s.render(w, r, statusFor(err), "error.html", data)
}

func statusFor(err error) int {
	switch apiclient.KindOf(err) {
	case apiclient.KindHTTP:
		switch status := apiclient.StatusCode(err); status {
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return status
		}
		return http.StatusBadGateway
	case apiclient.KindTransport, apiclient.KindDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
