package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/winnersswap/swap-web/internal/auth"
	"github.com/winnersswap/swap-web/internal/i18n"
	"github.com/winnersswap/swap-web/internal/logging"
	"github.com/winnersswap/swap-web/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Logger         *zap.Logger
	SessionManager *scs.SessionManager
	AuthHandlers   *auth.Handlers
	AuthMiddleware *auth.Middleware
	Languages      *i18n.Store
	Catalog        *i18n.Catalog
	LoginFlow      Submitter
	SecureCookies  bool
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(deps.SessionManager.LoadAndSave)
	r.Use(deps.AuthMiddleware.OptionalUser)

	// Static assets (embedded). Use fs.Sub so the file server sees
	// css/app.css directly, not static/css/... paths.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))
	r.Handle("/metrics", promhttp.Handler())

	shell := NewShell(deps.Languages, deps.Catalog)
	pages := NewPagesHandler(shell)
	loginHandler := NewLoginHandler(shell, deps.LoginFlow, deps.AuthHandlers)
	language := NewLanguageHandler(deps.Languages, deps.SecureCookies)

	r.Get("/login", loginHandler.Show)
	r.Post("/login", loginHandler.Submit)
	r.Post("/login/validate", loginHandler.Validate)
	r.Post("/logout", deps.AuthHandlers.Logout)
	r.Post("/language", language.Set)

	r.Get("/", pages.Home)
	r.Get("/trade", pages.Section("nav.trade"))
	r.Get("/rewards", pages.Section("nav.rewards"))
	r.Get("/register", pages.Section("nav.register"))
	r.Get("/forget-password", pages.Section("nav.forget-password"))

	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		r.Get("/perfil", pages.Section("nav.perfil"))
	})

	r.NotFound(pages.NotFound)

	return r
}
