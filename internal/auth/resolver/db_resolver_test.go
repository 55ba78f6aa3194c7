package resolver_test

import (
	"context"
	"testing"

	"connect-service/internal/auth"
	"connect-service/internal/auth/profile"
	"connect-service/internal/auth/resolver"
	"connect-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	d := testutil.OpenDB(t)
	repo := profile.NewDBRepository(d)
	r := resolver.NewDBResolver(d)

	created, _, err := repo.CreateAccount(ctx, profile.NewAccount{
		User:    auth.UnsavedUser{Username: "ada"},
		Profile: auth.UnsavedProfile{Provider: "github", ProviderUserID: "42"},
	})
	require.NoError(t, err)

	t.Run("known identity", func(t *testing.T) {
		user, err := r.Authenticate(ctx, auth.LookupKeys{Provider: "github", ProviderUserID: "42"})
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.ID, user.ID)
		assert.True(t, user.IsActive)
	})

	t.Run("unknown identity", func(t *testing.T) {
		user, err := r.Authenticate(ctx, auth.LookupKeys{Provider: "google", ProviderUserID: "42"})
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("inactive user still resolves", func(t *testing.T) {
		testutil.SetUserActive(t, d, created.ID, false)

		user, err := r.Authenticate(ctx, auth.LookupKeys{Provider: "github", ProviderUserID: "42"})
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.False(t, user.IsActive)
	})

	t.Run("incomplete keys", func(t *testing.T) {
		_, err := r.Authenticate(ctx, auth.LookupKeys{Provider: "github"})
		assert.Error(t, err)
	})
}
