package connect

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connect-service/internal/auth"
	"connect-service/internal/auth/notify"
	"connect-service/internal/auth/profile"
	"connect-service/internal/auth/resolver"
	"connect-service/internal/logger"
)

const (
	msgSignupMissingShow   = "Social profile is missing from your session."
	msgSignupMissingSubmit = "A social profile is missing from your session."
	msgAlreadyLoggedIn     = "You are already logged in."

	maxUsernameAttempts = 5
)

// SetupResult is either a redirect or a form to render.
type SetupResult struct {
	Redirect string

	Form    Form
	Context map[string]any
	User    *auth.User
	Profile *auth.Profile
}

// Setup is the second signup step: it turns the unsaved signup left by
// the decision flow into a local account.
type Setup struct {
	profiles profile.Repository
	resolver resolver.Resolver
	notifier notify.Notifier
	opts     SetupOptions
}

func NewSetup(
	profiles profile.Repository,
	resolver resolver.Resolver,
	notifier notify.Notifier,
	opts SetupOptions,
) *Setup {
	opts.withDefaults()
	return &Setup{
		profiles: profiles,
		resolver: resolver,
		notifier: notifier,
		opts:     opts,
	}
}

// Show renders the setup form, or in auto-generate mode creates the
// account right away.
func (s *Setup) Show(ctx context.Context, sess Session, r *http.Request) (*SetupResult, error) {
	pending := sess.Pending()

	if sess.UserID() != "" {
		return &SetupResult{Redirect: pending.NextOr(s.opts.HomeURL)}, nil
	}

	if pending == nil || pending.Signup == nil {
		return nil, auth.NewError(auth.ErrSessionExpired, msgSignupMissingShow)
	}
	signup := pending.Signup

	if s.opts.AutoGenerate {
		user, prof, err := s.createGenerated(ctx, signup)
		if err != nil {
			return nil, err
		}
		return s.finish(ctx, sess, user, prof, &signup.Client)
	}

	return &SetupResult{
		Form:    s.opts.NewForm(s.opts.InitialData(r, signup)),
		Context: s.opts.ExtraContext(r, signup),
	}, nil
}

// Submit validates the posted form and creates the account. A rejected
// form returns both a result to re-render and an auth.ErrFormValidation.
func (s *Setup) Submit(ctx context.Context, sess Session, r *http.Request) (*SetupResult, error) {
	if sess.UserID() != "" {
		return nil, auth.NewError(auth.ErrAlreadyLoggedIn, msgAlreadyLoggedIn)
	}

	pending := sess.Pending()
	if pending == nil || pending.Signup == nil {
		return nil, auth.NewError(auth.ErrSessionExpired, msgSignupMissingSubmit)
	}
	signup := pending.Signup

	form := s.opts.NewForm(s.opts.InitialData(r, signup))
	invalid := func(err error) (*SetupResult, error) {
		return &SetupResult{
			Form:    form,
			Context: s.opts.ExtraContext(r, signup),
		}, err
	}

	if err := form.Bind(r); err != nil {
		if errors.Is(err, auth.ErrFormValidation) {
			return invalid(err)
		}
		return nil, err
	}

	user, prof, err := form.Save(ctx, s.profiles, signup)
	if err != nil {
		if errors.Is(err, auth.ErrFormValidation) {
			return invalid(err)
		}
		return nil, err
	}

	return s.finish(ctx, sess, user, prof, &signup.Client)
}

func (s *Setup) createGenerated(ctx context.Context, signup *auth.Signup) (*auth.User, *auth.Profile, error) {
	base := s.opts.GenerateUsername(signup)
	name := base

	for attempt := 1; ; attempt++ {
		user := signup.User
		user.Username = name

		u, p, err := s.profiles.CreateAccount(ctx, profile.NewAccount{
			User:    user,
			Profile: signup.Profile,
		})
		if err == nil {
			return u, p, nil
		}
		if !errors.Is(err, auth.ErrUsernameTaken) || attempt == maxUsernameAttempts {
			return nil, nil, err
		}

		logger.Debug("generated username taken", map[string]any{
			"username": name,
			"attempt":  attempt,
		})
		name = WithSuffix(base)
	}
}

func (s *Setup) finish(
	ctx context.Context,
	sess Session,
	user *auth.User,
	prof *auth.Profile,
	client *auth.ClientState,
) (*SetupResult, error) {

	authed, err := s.resolver.Authenticate(ctx, prof.LookupKeys())
	if err != nil {
		return nil, err
	}
	if authed == nil {
		return nil, fmt.Errorf("setup: account %s does not resolve", user.ID)
	}

	s.notifier.Connected(ctx, authed, prof, client)

	if err := sess.Login(ctx, authed); err != nil {
		return nil, err
	}

	s.notifier.LoggedIn(ctx, authed, prof, client)

	next := sess.Pending().NextOr(s.opts.HomeURL)
	if err := sess.ClearPending(ctx); err != nil {
		return nil, err
	}

	return &SetupResult{
		Redirect: next,
		User:     authed,
		Profile:  prof,
	}, nil
}
