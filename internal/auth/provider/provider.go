package provider

import (
	"context"

	"connect-service/internal/auth"
)

// Kind tells OAuth2 providers apart from OpenID Connect ones. Signup policy
// can differ per kind.
type Kind string

const (
	KindOAuth2 Kind = "oauth2"
	KindOpenID Kind = "openid"
)

// OAuthProvider defines the contract every external auth provider
// must implement. Implementations return identity facts only and
// must not perform user creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "github").
	Name() string

	Kind() Kind

	// SessionKey is the stable key the provider's client state is stored
	// under in the pending session.
	SessionKey() string

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller.
	AuthCodeURL(ctx context.Context, state string, codeChallenge string) (string, error)

	// ExchangeCode exchanges the authorization code for provider credentials
	// and returns a normalized identity. No auth decisions are made here.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Identity, error)
}

// SessionKey builds the conventional session key for a provider name.
func SessionKey(name string) string {
	return "social:client:" + name
}
