// Package openid implements OpenID Connect providers on top of go-oidc.
// Google and Keycloak are configured presets of this provider.
package openid

import (
	"context"
	"errors"
	"fmt"

	"connect-service/internal/auth"
	"connect-service/internal/auth/provider"
	"connect-service/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Provider implements OAuth + OIDC authentication against one issuer.
// It returns identity facts only; no user/session decisions are made here.
type Provider struct {
	name        string
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// Config describes an OpenID Connect client registration.
type Config struct {
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Discover initializes a provider from the issuer's discovery document.
func Discover(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Name == "" || cfg.Issuer == "" || cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, errors.New("openid: config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init %s oidc provider: %w", cfg.Name, err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	return New(cfg.Name, OAuthConfig(cfg, oidcProvider.Endpoint()), verifier), nil
}

// OAuthConfig builds the oauth2 client config for cfg against endpoint.
func OAuthConfig(cfg Config, endpoint oauth2.Endpoint) *oauth2.Config {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}

// New assembles a provider from an already built oauth2 config and ID token
// verifier.
func New(name string, oauthConfig *oauth2.Config, verifier *oidc.IDTokenVerifier) *Provider {
	return &Provider{
		name:        name,
		oauthConfig: oauthConfig,
		verifier:    verifier,
	}
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) Kind() provider.Kind {
	return provider.KindOpenID
}

func (p *Provider) SessionKey() string {
	return provider.SessionKey(p.name)
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(_ context.Context, state string, codeChallenge string) (string, error) {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	), nil
}

// ExchangeCode exchanges the authorization code and returns a normalized
// identity built from the verified ID token.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange failed: %w", p.name, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%s did not return id_token", p.name)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%s id_token verification failed: %w", p.name, err)
	}

	var claims struct {
		Subject           string `json:"sub"`
		Email             string `json:"email"`
		EmailVerified     bool   `json:"email_verified"`
		PreferredUsername string `json:"preferred_username"`
		Name              string `json:"name"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s id_token claims parse failed: %w", p.name, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%s id_token missing sub claim", p.name)
	}

	logger.Info("oidc verified", map[string]any{
		"provider":       p.name,
		"issuer":         idToken.Issuer,
		"email_present":  claims.Email != "",
		"email_verified": claims.EmailVerified,
		"audience":       idToken.Audience,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:       p.name,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
		Username:       claims.PreferredUsername,
		Name:           claims.Name,
	}, nil
}
