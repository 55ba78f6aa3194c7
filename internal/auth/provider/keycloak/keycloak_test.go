package keycloak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAuthURL(t *testing.T) {
	got, err := PublicAuthURL(
		"http://keycloak:8080/realms/connect/protocol/openid-connect/auth",
		"https://login.example.com",
	)
	require.NoError(t, err)
	assert.Equal(t, "https://login.example.com/realms/connect/protocol/openid-connect/auth", got)

	_, err = PublicAuthURL("http://keycloak:8080/auth", "not a url")
	assert.Error(t, err)
}
