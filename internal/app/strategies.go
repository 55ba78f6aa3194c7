package app

import (
	"fmt"

	"connect-service/internal/auth/connect"
	"connect-service/internal/config"
)

// setupOptions resolves the configured setup strategy names once, at startup.
func setupOptions(cfg config.Config) (connect.SetupOptions, error) {
	opts := connect.SetupOptions{
		AutoGenerate: cfg.GenerateUsername,
		HomeURL:      cfg.LoginRedirectURL,
	}

	switch cfg.UsernameGenerator {
	case "uuid":
		opts.GenerateUsername = connect.UUIDUsername
	case "identity":
		opts.GenerateUsername = connect.IdentityUsername
	default:
		return opts, fmt.Errorf("config: unknown USERNAME_GENERATOR %q", cfg.UsernameGenerator)
	}

	switch cfg.SetupForm {
	case "user":
		opts.NewForm = connect.NewUserForm
	case "username":
		opts.NewForm = connect.NewUsernameForm
	default:
		return opts, fmt.Errorf("config: unknown SETUP_FORM %q", cfg.SetupForm)
	}

	switch cfg.SetupInitialData {
	case "identity":
		opts.InitialData = connect.IdentityInitialData
	case "none":
		opts.InitialData = connect.NoInitialData
	default:
		return opts, fmt.Errorf("config: unknown SETUP_INITIAL_DATA %q", cfg.SetupInitialData)
	}

	switch cfg.SetupContext {
	case "provider":
		opts.ExtraContext = connect.ProviderContext
	case "none":
		opts.ExtraContext = connect.NoContext
	default:
		return opts, fmt.Errorf("config: unknown SETUP_CONTEXT %q", cfg.SetupContext)
	}

	return opts, nil
}
