package connect_test

import (
	"strings"
	"testing"

	"connect-service/internal/auth"
	"connect-service/internal/auth/connect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalUsername(t *testing.T) {
	name, err := connect.CanonicalUsername("  Ada.Lovelace ")
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace", name)

	_, err = connect.CanonicalUsername("   ")
	assert.ErrorIs(t, err, connect.ErrEmptyUsername)

	for _, bad := range []string{"ab", "has space", "emoji😀", strings.Repeat("a", 33)} {
		_, err = connect.CanonicalUsername(bad)
		assert.ErrorIs(t, err, connect.ErrInvalidUsername, bad)
	}
}

func TestIdentityUsername(t *testing.T) {
	tests := []struct {
		name string
		user auth.UnsavedUser
		want string
	}{
		{"preferred username", auth.UnsavedUser{Username: "Octo Cat"}, "octocat"},
		{"email local part", auth.UnsavedUser{Username: "é", Email: "grace.h@example.com"}, "grace.h"},
		{"truncated", auth.UnsavedUser{Username: strings.Repeat("x", 40)}, strings.Repeat("x", 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connect.IdentityUsername(&auth.Signup{User: tt.user}))
		})
	}

	generated := connect.IdentityUsername(&auth.Signup{})
	assert.True(t, strings.HasPrefix(generated, "user-"))
}

func TestUUIDUsernameIsValid(t *testing.T) {
	a := connect.UUIDUsername(nil)
	b := connect.UUIDUsername(nil)
	assert.NotEqual(t, a, b)

	_, err := connect.CanonicalUsername(a)
	assert.NoError(t, err)
}

func TestWithSuffixStaysInLimit(t *testing.T) {
	got := connect.WithSuffix(strings.Repeat("a", 32))
	assert.Len(t, got, 32)

	_, err := connect.CanonicalUsername(got)
	assert.NoError(t, err)
}
