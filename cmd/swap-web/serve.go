package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/winnersswap/swap-web/internal/auth"
	"github.com/winnersswap/swap-web/internal/authclient"
	"github.com/winnersswap/swap-web/internal/build"
	"github.com/winnersswap/swap-web/internal/config"
	"github.com/winnersswap/swap-web/internal/db"
	"github.com/winnersswap/swap-web/internal/handler"
	"github.com/winnersswap/swap-web/internal/i18n"
	"github.com/winnersswap/swap-web/internal/logging"
	"github.com/winnersswap/swap-web/internal/login"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)

			languages := i18n.NewStore(cfg.I18N.Supported, cfg.I18N.Default)
			languages.Subscribe(func(s i18n.State) {
				logger.Info("supported languages changed",
					zap.String("supported", s.SupportedAsString()),
					zap.String("default", s.Language))
			})
			catalog, err := i18n.NewCatalog(cfg.I18N.Supported)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reloadCh := make(chan []string, 8)
			v.OnConfigChange(func(e fsnotify.Event) {
				select {
				case reloadCh <- config.SupportedLanguages(v):
				default:
					logger.Warn("config reload dropped", zap.String("file", e.Name))
				}
			})
			v.WatchConfig()
			go runLanguageReloader(ctx, reloadCh, languages, logger)

			client := authclient.New(cfg.Auth.BaseURL, cfg.Auth.Timeout)

			router := handler.NewRouter(handler.Deps{
				Logger:         logger,
				SessionManager: sessionManager,
				AuthHandlers:   auth.NewHandlers(sessionManager),
				AuthMiddleware: auth.NewMiddleware(sessionManager),
				Languages:      languages,
				Catalog:        catalog,
				LoginFlow:      login.NewFlow(client),
				SecureCookies:  !cfg.InsecureCookies,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					zap.String("addr", cfg.HTTP.Addr),
					zap.String("version", build.Version),
					zap.String("auth_base_url", cfg.Auth.BaseURL))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Auth.Timeout+5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
