package connect

import (
	"context"
	"errors"
	"fmt"

	"connect-service/internal/auth"
	"connect-service/internal/auth/notify"
	"connect-service/internal/auth/profile"
	"connect-service/internal/auth/provider"
	"connect-service/internal/auth/resolver"
)

// Outcome names the branch the decision flow took.
type Outcome string

const (
	OutcomeConnected Outcome = "connected"
	OutcomeLoggedIn  Outcome = "logged_in"
	OutcomeInactive  Outcome = "inactive"
	OutcomeSignup    Outcome = "signup"
)

const (
	msgSessionExpired   = "Session expired."
	msgAlreadyConnected = "This profile is already connected to another user account."
	msgSignupsDisabled  = "We are not currently accepting new OpenID signups."
)

// Result is the single next action for the browser. Redirect is empty for
// OutcomeInactive, which renders a page instead.
type Result struct {
	Outcome  Outcome
	Redirect string
	User     *auth.User
	Profile  *auth.Profile
}

type FlowOptions struct {
	AllowOpenIDSignups bool

	// HomeURL is the redirect target when the browser stored no "next".
	HomeURL string

	// SetupURL is the second signup step.
	SetupURL string
}

// Flow is the account-linking decision flow.
type Flow struct {
	profiles profile.Repository
	resolver resolver.Resolver
	notifier notify.Notifier
	opts     FlowOptions
}

func NewFlow(
	profiles profile.Repository,
	resolver resolver.Resolver,
	notifier notify.Notifier,
	opts FlowOptions,
) *Flow {
	if opts.HomeURL == "" {
		opts.HomeURL = "/"
	}
	return &Flow{
		profiles: profiles,
		resolver: resolver,
		notifier: notifier,
		opts:     opts,
	}
}

// Decide runs after p's handshake completed. In order: the handshake must
// still be in the session; an authenticated browser connects the profile;
// an anonymous browser with a known identity logs in; an unknown identity
// starts a signup.
func (f *Flow) Decide(ctx context.Context, sess Session, p provider.OAuthProvider) (*Result, error) {
	pending := sess.Pending()
	client, ok := pending.Client(p.SessionKey())
	if !ok || !client.Completed() {
		return nil, auth.NewError(auth.ErrSessionExpired, msgSessionExpired)
	}

	keys := client.Identity.LookupKeys()

	if userID := sess.UserID(); userID != "" {
		return f.connect(ctx, sess, userID, keys, &client)
	}

	user, err := f.resolver.Authenticate(ctx, keys)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return f.signup(ctx, sess, p, client)
	}

	if !user.IsActive {
		return &Result{Outcome: OutcomeInactive, User: user}, nil
	}

	return f.login(ctx, sess, user, keys, &client)
}

func (f *Flow) connect(
	ctx context.Context,
	sess Session,
	userID string,
	keys auth.LookupKeys,
	client *auth.ClientState,
) (*Result, error) {

	user, err := f.profiles.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("connect: load session user: %w", err)
	}

	prof, err := f.profiles.FindProfile(ctx, keys)
	switch {
	case errors.Is(err, auth.ErrProfileNotFound):
		prof, err = f.profiles.CreateProfile(ctx, user.ID, keys)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case prof.UserID != user.ID:
		// one local account per profile
		if err := sess.ClearPending(ctx); err != nil {
			return nil, err
		}
		return nil, auth.NewError(auth.ErrAlreadyConnected, msgAlreadyConnected)
	}

	f.notifier.Connected(ctx, user, prof, client)

	return f.finish(ctx, sess, OutcomeConnected, user, prof)
}

func (f *Flow) login(
	ctx context.Context,
	sess Session,
	user *auth.User,
	keys auth.LookupKeys,
	client *auth.ClientState,
) (*Result, error) {

	if err := sess.Login(ctx, user); err != nil {
		return nil, err
	}

	prof, err := f.profiles.FindUserProfile(ctx, user.ID, keys)
	if err != nil {
		return nil, fmt.Errorf("connect: load login profile: %w", err)
	}

	f.notifier.LoggedIn(ctx, user, prof, client)

	return f.finish(ctx, sess, OutcomeLoggedIn, user, prof)
}

func (f *Flow) signup(
	ctx context.Context,
	sess Session,
	p provider.OAuthProvider,
	client auth.ClientState,
) (*Result, error) {

	if !f.opts.AllowOpenIDSignups && p.Kind() == provider.KindOpenID {
		return nil, auth.NewError(auth.ErrSignupsDisabled, msgSignupsDisabled)
	}

	pending := sess.Pending()
	pending.Signup = auth.NewSignup(client)
	if err := sess.SavePending(ctx); err != nil {
		return nil, err
	}

	return &Result{Outcome: OutcomeSignup, Redirect: f.opts.SetupURL}, nil
}

func (f *Flow) finish(
	ctx context.Context,
	sess Session,
	outcome Outcome,
	user *auth.User,
	prof *auth.Profile,
) (*Result, error) {

	next := sess.Pending().NextOr(f.opts.HomeURL)
	if err := sess.ClearPending(ctx); err != nil {
		return nil, err
	}

	return &Result{
		Outcome:  outcome,
		Redirect: next,
		User:     user,
		Profile:  prof,
	}, nil
}
