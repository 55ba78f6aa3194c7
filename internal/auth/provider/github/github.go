// Package github implements the GitHub OAuth2 provider. GitHub does not
// issue ID tokens, so the identity is read from the REST API with the
// access token.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"connect-service/internal/auth"
	"connect-service/internal/auth/provider"
	"connect-service/internal/logger"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

const providerName = "github"

type Provider struct {
	oauthConfig *oauth2.Config
	apiBaseURL  *url.URL
}

type Option func(*Provider) error

// WithEndpoint overrides the OAuth endpoints (GitHub Enterprise, tests).
func WithEndpoint(ep oauth2.Endpoint) Option {
	return func(p *Provider) error {
		p.oauthConfig.Endpoint = ep
		return nil
	}
}

// WithAPIBaseURL overrides the REST API base URL (GitHub Enterprise, tests).
func WithAPIBaseURL(raw string) Option {
	return func(p *Provider) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("github: invalid api base url: %w", err)
		}
		p.apiBaseURL = u
		return nil
	}
}

func New(
	clientID string,
	clientSecret string,
	redirectURL string,
	opts ...Option,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	p := &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oauthgithub.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Kind() provider.Kind {
	return provider.KindOAuth2
}

func (p *Provider) SessionKey() string {
	return provider.SessionKey(providerName)
}

func (p *Provider) AuthCodeURL(_ context.Context, state string, codeChallenge string) (string, error) {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	), nil
}

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
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	client := gh.NewClient(p.oauthConfig.Client(ctx, token))
	if p.apiBaseURL != nil {
		client.BaseURL = p.apiBaseURL
	}

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("github user lookup failed: %w", err)
	}
	if user.GetID() == 0 {
		return nil, errors.New("github user has no id")
	}

	identity := &auth.Identity{
		Provider:       providerName,
		ProviderUserID: strconv.FormatInt(user.GetID(), 10),
		Username:       user.GetLogin(),
		Name:           user.GetName(),
		Email:          user.GetEmail(),
	}

	// The public profile email is unverified; prefer the primary verified
	// address when the token may read it.
	emails, _, err := client.Users.ListEmails(ctx, nil)
	if err != nil {
		logger.Warn("github email lookup failed", map[string]any{
			"error": err.Error(),
		})
	}
	for _, e := range emails {
		if e.GetPrimary() && e.GetVerified() {
			identity.Email = e.GetEmail()
			identity.EmailVerified = true
			break
		}
	}

	logger.Info("github user verified", map[string]any{
		"login":          identity.Username,
		"email_present":  identity.Email != "",
		"email_verified": identity.EmailVerified,
	})

	return identity, nil
}
