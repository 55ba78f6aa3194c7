package provider

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"net/url"

	"connect-service/internal/auth"
	"connect-service/internal/logger"
)

const timeoutMessage = "Could not connect to service (timed out)"

// Complete finishes the handshake recorded in client using the callback
// query parameters. On success client.Identity is set.
//
// Every failure is an *auth.Error of kind auth.ErrHandshake or
// auth.ErrTimeout.
func Complete(
	ctx context.Context,
	p OAuthProvider,
	client *auth.ClientState,
	params url.Values,
) error {

	if errParam := params.Get("error"); errParam != "" {
		logger.Warn("provider callback returned error", map[string]any{
			"provider": p.Name(),
			"error":    errParam,
			"desc":     params.Get("error_description"),
		})
		msg := "The provider denied the login request."
		if desc := params.Get("error_description"); desc != "" {
			msg = desc
		}
		return auth.NewError(auth.ErrHandshake, msg)
	}

	state := params.Get("state")
	if state == "" || subtle.ConstantTimeCompare([]byte(state), []byte(client.State)) != 1 {
		return auth.NewError(auth.ErrHandshake, "Invalid login state. Please try again.")
	}

	code := params.Get("code")
	if code == "" {
		return auth.NewError(auth.ErrHandshake, "The provider did not return an authorization code.")
	}

	identity, err := p.ExchangeCode(ctx, code, client.CodeVerifier)
	if err != nil {
		return Classify(err)
	}

	if identity.Provider == "" {
		identity.Provider = p.Name()
	}
	client.Identity = identity
	return nil
}

// Classify converts a provider failure into a timeout or handshake
// *auth.Error.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var already *auth.Error
	if errors.As(err, &already) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return auth.WrapError(auth.ErrTimeout, timeoutMessage, err)
	}

	return auth.WrapError(auth.ErrHandshake, "Could not complete the login with the provider.", err)
}
