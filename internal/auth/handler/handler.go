package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"connect-service/internal/auth"
	"connect-service/internal/auth/connect"
	"connect-service/internal/auth/profile"
	"connect-service/internal/auth/provider"
	"connect-service/internal/logger"
	"connect-service/internal/metrics"
	"connect-service/internal/session"
	"connect-service/internal/templates"
)

const (
	SetupPath  = "/social/setup"
	LogoutPath = "/social/logout"

	msgSessionExpired  = "Session expired."
	msgUnknownProvider = "Unknown login provider."
)

type Options struct {
	SessionTTL      time.Duration
	SessionIdleTTL  time.Duration
	PendingTTL      time.Duration
	ProviderTimeout time.Duration
	CookieSecure    bool

	LogoutRedirectURL string
}

type Handler struct {
	providers *provider.Registry
	sessions  session.Store
	pending   session.PendingStore
	profiles  profile.Repository
	flow      *connect.Flow
	setup     *connect.Setup
	opts      Options
	now       func() time.Time
}

func NewHandler(
	registry *provider.Registry,
	sessions session.Store,
	pending session.PendingStore,
	profiles profile.Repository,
	flow *connect.Flow,
	setup *connect.Setup,
	opts Options,
) *Handler {
	if opts.LogoutRedirectURL == "" {
		opts.LogoutRedirectURL = "/"
	}
	return &Handler{
		providers: registry,
		sessions:  sessions,
		pending:   pending,
		profiles:  profiles,
		flow:      flow,
		setup:     setup,
		opts:      opts,
		now:       time.Now,
	}
}

// DecisionPath is where the callback hands a completed handshake over to
// the decision flow.
func DecisionPath(providerName string) string {
	return "/social/" + providerName + "/setup"
}

// RegisterRoutes mounts the social login routes. The group must load the
// browser session.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/social/:provider/redirect", h.redirect)
	r.POST("/social/:provider/redirect", h.redirect)
	r.GET("/social/:provider/callback", h.callback)
	r.GET("/social/:provider/setup", h.decide)
	r.GET(SetupPath, h.showSetup)
	r.POST(SetupPath, h.submitSetup)
	r.GET(LogoutPath, h.logout)
}

// RegisterAPI mounts the JSON routes. The group must require auth.
func (h *Handler) RegisterAPI(r gin.IRoutes) {
	r.GET("/me", h.me)
}

func (h *Handler) provider(c *gin.Context) (provider.OAuthProvider, bool) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.HTML(http.StatusNotFound, templates.Error, templates.ErrorView{
			Status:  http.StatusNotFound,
			Message: msgUnknownProvider,
		})
		return nil, false
	}
	return p, true
}

func (h *Handler) providerContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.opts.ProviderTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.opts.ProviderTimeout)
}

// redirect starts a handshake: it records a fresh client and the "next"
// target in the pending state and sends the browser to the provider.
func (h *Handler) redirect(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	b, err := h.browser(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	state, err := newState()
	if err != nil {
		h.fail(c, err)
		return
	}
	verifier, challenge := newPKCE()

	ctx, cancel := h.providerContext(c)
	defer cancel()

	authURL, err := p.AuthCodeURL(ctx, state, challenge)
	if err != nil {
		metrics.Handshakes.WithLabelValues(p.Name(), kindLabel(provider.Classify(err))).Inc()
		h.fail(c, provider.Classify(err))
		return
	}

	pending := b.ensurePending()
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}
	// every handshake carries its own next; a stale one must not leak in
	pending.Next = safeNext(next)
	pending.SetClient(p.SessionKey(), auth.ClientState{
		Provider:     p.Name(),
		State:        state,
		CodeVerifier: verifier,
	})

	if err := b.SavePending(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// callback completes the handshake and hands over to the decision flow.
func (h *Handler) callback(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	b, err := h.browser(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	client, found := b.Pending().Client(p.SessionKey())
	if !found {
		metrics.Handshakes.WithLabelValues(p.Name(), "expired").Inc()
		h.fail(c, auth.NewError(auth.ErrSessionExpired, msgSessionExpired))
		return
	}

	ctx, cancel := h.providerContext(c)
	defer cancel()

	if err := provider.Complete(ctx, p, &client, c.Request.URL.Query()); err != nil {
		metrics.Handshakes.WithLabelValues(p.Name(), kindLabel(err)).Inc()
		h.fail(c, err)
		return
	}
	metrics.Handshakes.WithLabelValues(p.Name(), "ok").Inc()

	b.Pending().SetClient(p.SessionKey(), client)
	if err := b.SavePending(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, DecisionPath(p.Name()))
}

func (h *Handler) decide(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	b, err := h.browser(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.flow.Decide(c.Request.Context(), b, p)
	if err != nil {
		metrics.Decisions.WithLabelValues(kindLabel(err)).Inc()
		h.fail(c, err)
		return
	}
	metrics.Decisions.WithLabelValues(string(res.Outcome)).Inc()

	if res.Outcome == connect.OutcomeInactive {
		c.HTML(http.StatusForbidden, templates.Inactive, templates.InactiveView{
			Username: res.User.Username,
		})
		return
	}

	c.Redirect(http.StatusFound, res.Redirect)
}

func (h *Handler) showSetup(c *gin.Context) {
	b, err := h.browser(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.setup.Show(c.Request.Context(), b, c.Request)
	if err != nil {
		h.fail(c, err)
		return
	}
	if res.Redirect != "" {
		c.Redirect(http.StatusFound, res.Redirect)
		return
	}

	h.renderSetup(c, http.StatusOK, res, "")
}

func (h *Handler) submitSetup(c *gin.Context) {
	b, err := h.browser(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.setup.Submit(c.Request.Context(), b, c.Request)
	if err != nil {
		if errors.Is(err, auth.ErrFormValidation) && res != nil && res.Form != nil {
			h.renderSetup(c, http.StatusUnprocessableEntity, res, auth.Message(err))
			return
		}
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, res.Redirect)
}

func (h *Handler) renderSetup(c *gin.Context, status int, res *connect.SetupResult, message string) {
	c.HTML(status, templates.Setup, templates.SetupView{
		Action:  SetupPath,
		Fields:  res.Form.Fields(),
		Values:  res.Form.Values(),
		Errors:  res.Form.Errors(),
		Message: message,
		Context: res.Context,
	})
}

// logout ends the local session only. Provider sessions are untouched.
func (h *Handler) logout(c *gin.Context) {
	ctx := c.Request.Context()

	if sessionID := session.ReadCookie(c.Request, session.CookieName); sessionID != "" {
		// best-effort
		if err := h.sessions.Delete(ctx, sessionID); err != nil {
			logger.Warn("delete session failed", map[string]any{"error": err})
		}
		logger.Info("logout", map[string]any{
			"session_id": sessionID,
			"ip":         c.ClientIP(),
		})
	}
	if pendingID := session.ReadCookie(c.Request, session.PendingCookieName); pendingID != "" {
		if err := h.pending.Delete(ctx, pendingID); err != nil {
			logger.Warn("delete pending state failed", map[string]any{"error": err})
		}
		session.ClearCookie(c.Writer, session.PendingCookieName, h.cookieOptions())
	}

	session.ClearCookie(c.Writer, session.CookieName, h.cookieOptions())

	c.Redirect(http.StatusFound, h.opts.LogoutRedirectURL)
}

type profileResponse struct {
	ID             string    `json:"id"`
	Provider       string    `json:"provider"`
	ProviderUserID string    `json:"provider_user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type meResponse struct {
	ID            string            `json:"id"`
	Username      string            `json:"username"`
	Email         string            `json:"email,omitempty"`
	EmailVerified bool              `json:"email_verified"`
	HasPassword   bool              `json:"has_password"`
	Profiles      []profileResponse `json:"profiles"`
}

func (h *Handler) me(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.profiles.GetUser(ctx, c.GetString("userID"))
	if errors.Is(err, auth.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	profiles, err := h.profiles.ListProfiles(ctx, user.ID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profiles"})
		return
	}

	resp := meResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		HasPassword:   user.HasUsablePassword,
		Profiles:      make([]profileResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		resp.Profiles = append(resp.Profiles, profileResponse{
			ID:             p.ID,
			Provider:       p.Provider,
			ProviderUserID: p.ProviderUserID,
			CreatedAt:      p.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}
