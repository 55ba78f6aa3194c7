package connect_test

import (
	"context"
	"testing"

	"connect-service/internal/auth"
	"connect-service/internal/auth/notify"
	"connect-service/internal/auth/profile"
	"connect-service/internal/auth/provider"
	"connect-service/internal/auth/resolver"
	"connect-service/internal/db"
	"connect-service/internal/session"
	"connect-service/internal/testutil"

	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	userID  string
	pending *session.Pending

	saves   int
	cleared bool
}

func (s *fakeSession) UserID() string            { return s.userID }
func (s *fakeSession) Pending() *session.Pending { return s.pending }

func (s *fakeSession) SavePending(context.Context) error {
	s.saves++
	return nil
}

func (s *fakeSession) ClearPending(context.Context) error {
	s.pending = nil
	s.cleared = true
	return nil
}

func (s *fakeSession) Login(_ context.Context, user *auth.User) error {
	s.userID = user.ID
	return nil
}

type stubProvider struct {
	name string
	kind provider.Kind
}

func (p stubProvider) Name() string        { return p.name }
func (p stubProvider) Kind() provider.Kind { return p.kind }
func (p stubProvider) SessionKey() string  { return provider.SessionKey(p.name) }

func (p stubProvider) AuthCodeURL(context.Context, string, string) (string, error) {
	return "https://idp.example.com/authorize", nil
}

func (p stubProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, error) {
	return nil, nil
}

var (
	github = stubProvider{name: "github", kind: provider.KindOAuth2}
	google = stubProvider{name: "google", kind: provider.KindOpenID}
)

type fixture struct {
	db       *db.DB
	repo     *profile.DBRepository
	resolver *resolver.DBResolver
	notes    *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d := testutil.OpenDB(t)
	return &fixture{
		db:       d,
		repo:     profile.NewDBRepository(d),
		resolver: resolver.NewDBResolver(d),
		notes:    &notify.Recorder{},
	}
}

func (f *fixture) createUser(t *testing.T, username, provider, providerUserID string) (*auth.User, *auth.Profile) {
	t.Helper()
	u, p, err := f.repo.CreateAccount(context.Background(), profile.NewAccount{
		User:    auth.UnsavedUser{Username: username, Email: username + "@example.com"},
		Profile: auth.UnsavedProfile{Provider: provider, ProviderUserID: providerUserID},
	})
	require.NoError(t, err)
	return u, p
}

func completedClient(p stubProvider, providerUserID string) auth.ClientState {
	return auth.ClientState{
		Provider:     p.name,
		State:        "state",
		CodeVerifier: "verifier",
		Identity: &auth.Identity{
			Provider:       p.name,
			ProviderUserID: providerUserID,
			Email:          "octo@example.com",
			EmailVerified:  true,
			Username:       "Octo Cat",
			Name:           "Octo",
		},
	}
}

func pendingWith(p stubProvider, client auth.ClientState, next string) *session.Pending {
	pending := &session.Pending{Next: next}
	pending.SetClient(p.SessionKey(), client)
	return pending
}
