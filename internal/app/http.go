package app

import (
	"context"
	"net/http"
	"strings"

	"connect-service/internal/auth/connect"
	"connect-service/internal/auth/handler"
	"connect-service/internal/auth/notify"
	"connect-service/internal/auth/profile"
	"connect-service/internal/auth/provider"
	"connect-service/internal/auth/provider/github"
	"connect-service/internal/auth/provider/google"
	"connect-service/internal/auth/provider/keycloak"
	"connect-service/internal/auth/resolver"
	"connect-service/internal/config"
	"connect-service/internal/logger"
	"connect-service/internal/metrics"
	"connect-service/internal/middleware"
	"connect-service/internal/templates"

	"github.com/gin-gonic/gin"
)

// callbackURL defaults a provider's redirect URL to its callback route
// under BASE_URL.
func callbackURL(cfg config.Config, configured, name string) string {
	if configured != "" {
		return configured
	}
	return strings.TrimRight(cfg.BaseURL, "/") + "/social/" + name + "/callback"
}

// setupProviders builds every provider whose credentials are configured.
func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleEnabled() {
		p, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, callbackURL(cfg, cfg.GoogleRedirectURL, "google"))
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.KeycloakEnabled() {
		p, err := keycloak.New(
			ctx,
			cfg.KeycloakIssuer,
			cfg.KeycloakClientID,
			cfg.KeycloakClientSecret,
			callbackURL(cfg, cfg.KeycloakRedirectURL, "keycloak"),
			cfg.KeycloakPublicBaseURL,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.GitHubEnabled() {
		p, err := github.New(cfg.GitHubClientID, cfg.GitHubClientSecret, callbackURL(cfg, cfg.GitHubRedirectURL, "github"))
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	registry := provider.NewRegistry(list...)
	if registry.Len() == 0 {
		logger.Warn("no login providers configured", nil)
	}
	logger.Info("login providers ready", map[string]any{"providers": registry.Names()})

	return registry, nil
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	router, err := newRouter(ctx, cfg, infra)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

func newRouter(ctx context.Context, cfg config.Config, infra *Infra) (*gin.Engine, error) {

	// ----------------------------
	// Dependencies
	// ----------------------------

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts, err := setupOptions(cfg)
	if err != nil {
		return nil, err
	}

	profiles := profile.NewDBRepository(infra.DB)
	identityResolver := resolver.NewDBResolver(infra.DB)

	notifiers := notify.Multi{notify.Log{}}
	if cfg.EventsChannel != "" && infra.Redis != nil {
		notifiers = append(notifiers, notify.NewRedis(infra.Redis.Client, cfg.EventsChannel))
	}

	flow := connect.NewFlow(profiles, identityResolver, notifiers, connect.FlowOptions{
		AllowOpenIDSignups: cfg.AllowOpenIDSignups,
		HomeURL:            cfg.LoginRedirectURL,
		SetupURL:           handler.SetupPath,
	})
	setup := connect.NewSetup(profiles, identityResolver, notifiers, opts)

	authHandler := handler.NewHandler(
		registry,
		infra.Sessions,
		infra.Pending,
		profiles,
		flow,
		setup,
		handler.Options{
			SessionTTL:        cfg.SessionTTL,
			SessionIdleTTL:    cfg.SessionIdleTTL,
			PendingTTL:        cfg.PendingTTL,
			ProviderTimeout:   cfg.ProviderTimeout,
			CookieSecure:      cfg.CookieSecure,
			LogoutRedirectURL: cfg.LogoutRedirectURL,
		},
	)

	authMiddleware := middleware.NewAuthMiddleware(infra.Sessions, cfg.SessionIdleTTL)

	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ----------------------------
	// Social login routes
	// ----------------------------

	web := router.Group("/")
	web.Use(middleware.GinLoadSession(authMiddleware))
	authHandler.RegisterRoutes(web)

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))
	authHandler.RegisterAPI(api)

	for _, route := range router.Routes() {
		logger.Debug("route", map[string]any{"method": route.Method, "path": route.Path})
	}

	return router, nil
}
