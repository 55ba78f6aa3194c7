package keycloak

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"connect-service/internal/auth/provider/openid"

	"github.com/coreos/go-oidc/v3/oidc"
)

const providerName = "keycloak"

// New initializes a Keycloak OIDC provider using discovery.
// issuer must be the realm issuer URL, e.g.
// http://keycloak:8080/realms/connect
//
// When Keycloak is reached through a different address from inside the
// network than from the browser, publicBaseURL replaces the scheme and host
// of the authorization endpoint so the browser is sent to the public one.
func New(
	ctx context.Context,
	issuer string,
	clientID string,
	clientSecret string,
	redirectURL string,
	publicBaseURL string,
) (*openid.Provider, error) {

	if issuer == "" || clientID == "" || redirectURL == "" {
		return nil, errors.New("keycloak oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init keycloak oidc provider: %w", err)
	}

	ep := oidcProvider.Endpoint()
	if publicBaseURL != "" {
		authURL, err := PublicAuthURL(ep.AuthURL, publicBaseURL)
		if err != nil {
			return nil, err
		}
		ep.AuthURL = authURL
	}

	cfg := openid.Config{
		Name:         providerName,
		Issuer:       issuer,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	return openid.New(providerName, openid.OAuthConfig(cfg, ep), verifier), nil
}

// PublicAuthURL moves authURL onto the scheme and host of publicBaseURL,
// keeping its path.
func PublicAuthURL(authURL, publicBaseURL string) (string, error) {
	u, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("keycloak: parse auth url: %w", err)
	}
	pub, err := url.Parse(publicBaseURL)
	if err != nil || pub.Host == "" {
		return "", fmt.Errorf("keycloak: invalid public base url %q", publicBaseURL)
	}

	u.Scheme = pub.Scheme
	u.Host = pub.Host
	return u.String(), nil
}
