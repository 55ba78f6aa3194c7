package google

import (
	"context"
	"errors"

	"connect-service/internal/auth/provider/openid"
)

const (
	providerName = "google"
	issuer       = "https://accounts.google.com"
)

// New discovers Google's OpenID configuration and returns a provider
// registered as "google".
func New(
	ctx context.Context,
	clientID string,
	clientSecret string,
	redirectURL string,
) (*openid.Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	return openid.Discover(ctx, openid.Config{
		Name:         providerName,
		Issuer:       issuer,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
	})
}
