package openid

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"connect-service/internal/auth/provider"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testIssuer   = "https://issuer.example.com"
	testClientID = "connect-client"
)

type tokenServer struct {
	key    *rsa.PrivateKey
	claims jwt.MapClaims
}

func (s *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		return
	}

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, s.claims).SignedString(s.key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": "at",
		"token_type":   "Bearer",
		"expires_in":   3600,
		"id_token":     idToken,
	})
}

func newTestProvider(t *testing.T, claims jwt.MapClaims) *Provider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := httptest.NewServer(&tokenServer{key: key, claims: claims})
	t.Cleanup(srv.Close)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	verifier := oidc.NewVerifier(testIssuer, keySet, &oidc.Config{ClientID: testClientID})

	cfg := OAuthConfig(Config{
		Name:        "google",
		ClientID:    testClientID,
		RedirectURL: "http://localhost/callback",
	}, oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	})

	return New("google", cfg, verifier)
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":                testIssuer,
		"aud":                testClientID,
		"sub":                "1234567890",
		"email":              "ada@example.com",
		"email_verified":     true,
		"preferred_username": "ada",
		"iat":                now.Unix(),
		"exp":                now.Add(time.Hour).Unix(),
	}
}

func TestExchangeCode(t *testing.T) {
	p := newTestProvider(t, validClaims())

	identity, err := p.ExchangeCode(context.Background(), "good-code", "verifier")
	require.NoError(t, err)

	assert.Equal(t, "google", identity.Provider)
	assert.Equal(t, "1234567890", identity.ProviderUserID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "ada", identity.Username)
}

func TestExchangeCodeRejectsWrongAudience(t *testing.T) {
	claims := validClaims()
	claims["aud"] = "someone-else"
	p := newTestProvider(t, claims)

	_, err := p.ExchangeCode(context.Background(), "good-code", "verifier")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id_token verification failed")
}

func TestExchangeCodeRejectsMissingSubject(t *testing.T) {
	claims := validClaims()
	delete(claims, "sub")
	p := newTestProvider(t, claims)

	_, err := p.ExchangeCode(context.Background(), "good-code", "verifier")
	assert.Error(t, err)
}

func TestExchangeCodeBadGrant(t *testing.T) {
	p := newTestProvider(t, validClaims())

	_, err := p.ExchangeCode(context.Background(), "bad-code", "verifier")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token exchange failed")
}

func TestAuthCodeURL(t *testing.T) {
	p := newTestProvider(t, validClaims())

	raw, err := p.AuthCodeURL(context.Background(), "st", "challenge")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "st", q.Get("state"))
	assert.Equal(t, "challenge", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "openid profile email", q.Get("scope"))

	assert.Equal(t, provider.KindOpenID, p.Kind())
	assert.Equal(t, "social:client:google", p.SessionKey())
}

func TestDiscoverRequiresFields(t *testing.T) {
	_, err := Discover(context.Background(), Config{Name: "x"})
	assert.Error(t, err)
}
