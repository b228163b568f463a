package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/observability"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/service"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
	"github.com/aussiebroadwan/bartab-sso/pkg/httpx"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	settings     *domain.Settings
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	LoginService *service.LoginService
	TokenService *service.TokenService
	Metrics      *observability.Metrics

	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

func NewRouter(
	settings *domain.Settings,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		settings:     settings,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerToken()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLogin() {
	loginHandler := &LoginHandler{
		Settings:     r.settings,
		LoginService: r.LoginService,
		CookieSecure: r.CookieSecure,
		TrustProxy:   r.TrustProxy,
	}
	logoutHandler := &LogoutHandler{
		LoginService: r.LoginService,
		CookieSecure: r.CookieSecure,
	}

	// "/{$}" matches only the root, anything else falls through to 404
	r.Mux.HandleFunc("GET /{$}", loginHandler.HandlePage)
	r.Mux.HandleFunc("POST /login", loginHandler.HandleLogin)
	r.Mux.Handle("GET /logout", logoutHandler)
}

func (r *Router) registerToken() {
	r.Mux.Handle("GET /token", &TokenHandler{TokenService: r.TokenService})
	r.Mux.Handle("GET /iframe", IframeHandler(r.settings))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.TokenService.Signer))

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
