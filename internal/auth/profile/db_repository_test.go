package profile_test

import (
	"context"
	"testing"

	"connect-service/internal/auth"
	"connect-service/internal/auth/credentials"
	"connect-service/internal/auth/profile"
	"connect-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAccount(username, providerUserID string) profile.NewAccount {
	return profile.NewAccount{
		User: auth.UnsavedUser{
			Username:      username,
			Email:         username + "@example.com",
			EmailVerified: true,
		},
		Profile: auth.UnsavedProfile{
			Provider:       "github",
			ProviderUserID: providerUserID,
		},
	}
}

func TestCreateAccountAndLookups(t *testing.T) {
	ctx := context.Background()
	repo := profile.NewDBRepository(testutil.OpenDB(t))

	user, p, err := repo.CreateAccount(ctx, newAccount("ada", "42"))
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.HasUsablePassword)
	assert.Equal(t, user.ID, p.UserID)

	found, err := repo.FindProfile(ctx, auth.LookupKeys{Provider: "github", ProviderUserID: "42"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, user.ID, found.UserID)

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.True(t, got.EmailVerified)

	exists, err := repo.UsernameExists(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists(ctx, "grace")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFindProfileNotFound(t *testing.T) {
	ctx := context.Background()
	repo := profile.NewDBRepository(testutil.OpenDB(t))

	_, err := repo.FindProfile(ctx, auth.LookupKeys{Provider: "github", ProviderUserID: "nope"})
	assert.ErrorIs(t, err, auth.ErrProfileNotFound)

	_, err = repo.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestCreateProfileForExistingUser(t *testing.T) {
	ctx := context.Background()
	repo := profile.NewDBRepository(testutil.OpenDB(t))

	user, _, err := repo.CreateAccount(ctx, newAccount("ada", "42"))
	require.NoError(t, err)

	keys := auth.LookupKeys{Provider: "google", ProviderUserID: "sub-1"}
	p, err := repo.CreateProfile(ctx, user.ID, keys)
	require.NoError(t, err)
	assert.Equal(t, keys, p.LookupKeys())

	own, err := repo.FindUserProfile(ctx, user.ID, keys)
	require.NoError(t, err)
	assert.Equal(t, p.ID, own.ID)

	_, err = repo.FindUserProfile(ctx, "someone-else", keys)
	assert.ErrorIs(t, err, auth.ErrProfileNotFound)

	list, err := repo.ListProfiles(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// the same remote identity cannot be linked twice
	_, err = repo.CreateProfile(ctx, user.ID, keys)
	assert.Error(t, err)
}

func TestCreateAccountUsernameTaken(t *testing.T) {
	ctx := context.Background()
	repo := profile.NewDBRepository(testutil.OpenDB(t))

	_, _, err := repo.CreateAccount(ctx, newAccount("ada", "42"))
	require.NoError(t, err)

	_, _, err = repo.CreateAccount(ctx, newAccount("ada", "43"))
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)

	// nothing from the failed transaction is left behind
	_, err = repo.FindProfile(ctx, auth.LookupKeys{Provider: "github", ProviderUserID: "43"})
	assert.ErrorIs(t, err, auth.ErrProfileNotFound)
}

func TestCreateAccountWithPassword(t *testing.T) {
	ctx := context.Background()
	d := testutil.OpenDB(t)
	repo := profile.NewDBRepository(d)

	acct := newAccount("ada", "42")
	acct.Password = "correct horse"

	user, _, err := repo.CreateAccount(ctx, acct)
	require.NoError(t, err)
	assert.True(t, user.HasUsablePassword)

	var hash string
	err = d.QueryRowContext(ctx, d.Rebind(`SELECT password_hash FROM credentials WHERE user_id = ?`), user.ID).Scan(&hash)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse")))
}

func TestCreateAccountShortPasswordRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := profile.NewDBRepository(testutil.OpenDB(t))

	acct := newAccount("ada", "42")
	acct.Password = "short"

	_, _, err := repo.CreateAccount(ctx, acct)
	require.ErrorIs(t, err, credentials.ErrPasswordTooShort)

	exists, err := repo.UsernameExists(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, exists)
}
