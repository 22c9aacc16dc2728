package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/pdpkitchen/dashboard/apiclient"
	"github.com/pdpkitchen/dashboard/internal/config"
	"github.com/pdpkitchen/dashboard/query"
	"github.com/pdpkitchen/dashboard/server/ui"
	"github.com/pdpkitchen/dashboard/sessions"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	handler http.HandlerFunc
	routes  []string
	config  config.Config
	api     *apiclient.Client
	queries *query.Client
	sealer  *sessions.Sealer
	logins  *loginLimiter
	pages   map[string]*template.Template
}

func New(config config.Config, api *apiclient.Client, cache query.Cache) (*Server, error) {
	s := &Server{
		mux:     http.NewServeMux(),
		config:  config,
		api:     api,
		queries: query.NewClient(api, cache),
	}
	s.env = config.GetEnv()

	if secret := config.GetCookieSecret(); secret != "" {
		sealer, err := sessions.NewSealer(secret)
		if err != nil {
			return nil, fmt.Errorf("[Server New] failed to create cookie sealer: %w", err)
		}
		s.sealer = sealer
	} else {
		log.Warn().Msg("COOKIE_SECRET is not set, refresh token cookies are stored unsealed")
	}

	if config.GetEnableRateLimiting() {
		s.logins = newLoginLimiter(config.GetLoginRatePerMinute())
	}

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}
	s.pages = pages

	s.initRoutes()
	s.logRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.RedirectGate)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := ui.MethodColors[method]; ok {
		return color + paddedMethod + ui.ResetColor
	}
	return ui.Gray + paddedMethod + ui.ResetColor
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}
