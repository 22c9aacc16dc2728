package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteRoot, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))

	// SIGN IN
	s.RegisterRouteHandler("GET "+RouteSignIn, ChainMiddleware(s.SignInPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignIn, ChainMiddleware(s.SignInSubmissionHandler(), s.HTMLMiddleWare(s.LoginRateLimitMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Dashboard
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteOverview, ChainMiddleware(s.OverviewHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteNoEating, ChainMiddleware(s.NoEatingHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.HTMLMiddleWare()...))

	// Students
	s.RegisterRouteHandler("GET "+RouteStudents, ChainMiddleware(s.StudentListHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteStudents, ChainMiddleware(s.StudentCreateHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteStudentNew, ChainMiddleware(s.StudentNewHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteStudent, ChainMiddleware(s.StudentEditHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteStudent, ChainMiddleware(s.StudentUpdateHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteStudentDelete, ChainMiddleware(s.StudentDeleteHandler(), s.HTMLMiddleWare()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError(r.Method, filePath, err)
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func logError(method, path string, err error) {
	log.Error().Err(err).Msgf("[%-19s] %s", colouredMethod(method), path)
}
