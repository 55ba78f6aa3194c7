package auth

// Identity represents a normalized external authentication identity
// returned by a provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string `json:"provider"`         // e.g. "google", "github"
	ProviderUserID string `json:"provider_user_id"` // provider-scoped unique user identifier (sub, numeric id)
	Email          string `json:"email,omitempty"`
	EmailVerified  bool   `json:"email_verified,omitempty"`
	Username       string `json:"username,omitempty"` // preferred_username, login
	Name           string `json:"name,omitempty"`
}

// LookupKeys returns the keys used to find the profile for this identity.
func (i *Identity) LookupKeys() LookupKeys {
	return LookupKeys{
		Provider:       i.Provider,
		ProviderUserID: i.ProviderUserID,
	}
}

// LookupKeys identify one remote identity. At most one Profile exists per
// (Provider, ProviderUserID) pair.
type LookupKeys struct {
	Provider       string
	ProviderUserID string
}

// ClientState is the per-browser half of an identity client: everything a
// provider needs to finish one handshake, plus its result. It is stored in
// the pending session state between requests.
type ClientState struct {
	Provider     string    `json:"provider"`
	State        string    `json:"state"`
	CodeVerifier string    `json:"code_verifier"`
	Identity     *Identity `json:"identity,omitempty"`
}

// Completed reports whether the provider handshake finished.
func (c *ClientState) Completed() bool {
	return c != nil && c.Identity != nil
}
