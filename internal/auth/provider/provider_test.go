package provider_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"connect-service/internal/auth"
	"connect-service/internal/auth/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name     string
	identity *auth.Identity
	err      error
	gotCode  string
	verifier string
}

func (f *fakeProvider) Name() string        { return f.name }
func (f *fakeProvider) Kind() provider.Kind { return provider.KindOAuth2 }
func (f *fakeProvider) SessionKey() string  { return provider.SessionKey(f.name) }
func (f *fakeProvider) AuthCodeURL(context.Context, string, string) (string, error) {
	return "https://provider.example.com/auth", nil
}

func (f *fakeProvider) ExchangeCode(_ context.Context, code, verifier string) (*auth.Identity, error) {
	f.gotCode = code
	f.verifier = verifier
	if f.err != nil {
		return nil, f.err
	}
	id := *f.identity
	return &id, nil
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		p := &fakeProvider{name: "github", identity: &auth.Identity{ProviderUserID: "42"}}
		client := &auth.ClientState{Provider: "github", State: "st", CodeVerifier: "v"}

		err := provider.Complete(ctx, p, client, url.Values{"state": {"st"}, "code": {"c"}})
		require.NoError(t, err)

		assert.True(t, client.Completed())
		assert.Equal(t, "github", client.Identity.Provider)
		assert.Equal(t, "c", p.gotCode)
		assert.Equal(t, "v", p.verifier)
	})

	tests := []struct {
		name   string
		params url.Values
		err    error
		kind   error
	}{
		{
			name:   "provider error parameter",
			params: url.Values{"error": {"access_denied"}, "state": {"st"}},
			kind:   auth.ErrHandshake,
		},
		{
			name:   "state mismatch",
			params: url.Values{"state": {"other"}, "code": {"c"}},
			kind:   auth.ErrHandshake,
		},
		{
			name:   "missing code",
			params: url.Values{"state": {"st"}},
			kind:   auth.ErrHandshake,
		},
		{
			name:   "exchange rejected",
			params: url.Values{"state": {"st"}, "code": {"c"}},
			err:    errors.New("oauth2: invalid_grant"),
			kind:   auth.ErrHandshake,
		},
		{
			name:   "exchange timed out",
			params: url.Values{"state": {"st"}, "code": {"c"}},
			err:    fmt.Errorf("post token: %w", context.DeadlineExceeded),
			kind:   auth.ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{name: "github", identity: &auth.Identity{ProviderUserID: "42"}, err: tt.err}
			client := &auth.ClientState{Provider: "github", State: "st"}

			err := provider.Complete(ctx, p, client, tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.False(t, client.Completed())

			var flowErr *auth.Error
			require.ErrorAs(t, err, &flowErr)
			assert.NotEmpty(t, flowErr.Message)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, provider.Classify(nil))

	err := provider.Classify(&url.Error{Op: "Post", URL: "https://x", Err: timeoutErr{}})
	assert.ErrorIs(t, err, auth.ErrTimeout)
	assert.Equal(t, "Could not connect to service (timed out)", auth.Message(err))

	already := auth.NewError(auth.ErrSessionExpired, "Session expired.")
	assert.Same(t, already, provider.Classify(already))
}

func TestRegistry(t *testing.T) {
	r := provider.NewRegistry(&fakeProvider{name: "google"}, &fakeProvider{name: "github"})

	p, err := r.Get("github")
	require.NoError(t, err)
	assert.Equal(t, "github", p.Name())

	_, err = r.Get("myspace")
	assert.Error(t, err)

	assert.Equal(t, []string{"github", "google"}, r.Names())
	assert.Equal(t, 2, r.Len())
}
