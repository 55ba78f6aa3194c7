package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("token endpoint returned 401")
	err := fmt.Errorf("callback: %w", WrapError(ErrHandshake, "Could not complete login.", cause))

	assert.ErrorIs(t, err, ErrHandshake)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "Could not complete login.", Message(err))
	assert.Contains(t, err.Error(), "token endpoint returned 401")
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "Something went wrong. Please try again.", Message(errors.New("db down")))
	assert.Equal(t, "Session expired.", Message(NewError(ErrSessionExpired, "Session expired.")))
}

func TestNewSignupCopiesIdentity(t *testing.T) {
	client := ClientState{
		Provider: "github",
		State:    "s",
		Identity: &Identity{
			Provider:       "github",
			ProviderUserID: "42",
			Email:          "ada@example.com",
			EmailVerified:  true,
			Username:       "ada",
		},
	}

	s := NewSignup(client)

	assert.Equal(t, "ada", s.User.Username)
	assert.Equal(t, "ada@example.com", s.User.Email)
	assert.True(t, s.User.EmailVerified)
	assert.Equal(t, LookupKeys{Provider: "github", ProviderUserID: "42"}, s.Profile.LookupKeys())
	assert.True(t, s.Client.Completed())
}
