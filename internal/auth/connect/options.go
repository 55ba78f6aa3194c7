package connect

import (
	"net/http"

	"connect-service/internal/auth"
)

// InitialDataFunc pre-fills the setup form.
type InitialDataFunc func(r *http.Request, signup *auth.Signup) map[string]string

// ContextFunc adds template data to the setup page.
type ContextFunc func(r *http.Request, signup *auth.Signup) map[string]any

// SetupOptions holds the setup strategies, resolved once at startup.
type SetupOptions struct {
	// AutoGenerate skips the form and creates a passwordless account
	// with a generated username.
	AutoGenerate bool

	GenerateUsername UsernameFunc
	NewForm          FormFactory
	InitialData      InitialDataFunc
	ExtraContext     ContextFunc

	HomeURL string
}

func (o *SetupOptions) withDefaults() {
	if o.GenerateUsername == nil {
		o.GenerateUsername = UUIDUsername
	}
	if o.NewForm == nil {
		o.NewForm = NewUserForm
	}
	if o.InitialData == nil {
		o.InitialData = NoInitialData
	}
	if o.ExtraContext == nil {
		o.ExtraContext = NoContext
	}
	if o.HomeURL == "" {
		o.HomeURL = "/"
	}
}

// IdentityInitialData proposes a username and the provider email.
func IdentityInitialData(_ *http.Request, signup *auth.Signup) map[string]string {
	data := map[string]string{}
	if signup.User.Username != "" || signup.User.Email != "" {
		data["username"] = IdentityUsername(signup)
	}
	if signup.User.Email != "" {
		data["email"] = signup.User.Email
	}
	return data
}

func NoInitialData(*http.Request, *auth.Signup) map[string]string {
	return map[string]string{}
}

// ProviderContext exposes the provider and the display name to the page.
func ProviderContext(_ *http.Request, signup *auth.Signup) map[string]any {
	ctx := map[string]any{
		"Provider": signup.Profile.Provider,
	}
	if id := signup.Client.Identity; id != nil {
		ctx["Name"] = id.Name
	}
	return ctx
}

func NoContext(*http.Request, *auth.Signup) map[string]any {
	return map[string]any{}
}
