package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"connect-service/internal/auth"
	"connect-service/internal/logger"
	"connect-service/internal/middleware"
	"connect-service/internal/session"
)

// browserSession is the connect.Session of one request: the user loaded by
// the session middleware and the pending state behind the social cookie.
type browserSession struct {
	h *Handler
	c *gin.Context

	userID    string
	pendingID string
	pending   *session.Pending
}

func (h *Handler) browser(c *gin.Context) (*browserSession, error) {
	b := &browserSession{h: h, c: c}
	b.userID, _ = middleware.UserIDFromContext(c.Request.Context())

	id := session.ReadCookie(c.Request, session.PendingCookieName)
	if id == "" {
		return b, nil
	}

	p, err := h.pending.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		b.pendingID = id
		b.pending = p
	}
	return b, nil
}

func (b *browserSession) UserID() string { return b.userID }

func (b *browserSession) Pending() *session.Pending { return b.pending }

func (b *browserSession) ensurePending() *session.Pending {
	if b.pending == nil {
		b.pending = &session.Pending{}
	}
	return b.pending
}

func (b *browserSession) SavePending(ctx context.Context) error {
	if b.pending == nil {
		return nil
	}

	if b.pendingID == "" {
		id, err := session.GenerateID()
		if err != nil {
			return err
		}
		b.pendingID = id
	}

	ttl := b.h.opts.PendingTTL
	if err := b.h.pending.Save(ctx, b.pendingID, b.pending, ttl); err != nil {
		return err
	}

	session.SetCookie(b.c.Writer, session.PendingCookieName, b.pendingID, b.h.now().Add(ttl), b.h.cookieOptions())
	return nil
}

func (b *browserSession) ClearPending(ctx context.Context) error {
	b.pending = nil
	if b.pendingID == "" {
		return nil
	}

	err := b.h.pending.Delete(ctx, b.pendingID)
	b.pendingID = ""
	session.ClearCookie(b.c.Writer, session.PendingCookieName, b.h.cookieOptions())
	return err
}

// Login replaces any previous authenticated session with one for user.
func (b *browserSession) Login(ctx context.Context, user *auth.User) error {
	previous := session.ReadCookie(b.c.Request, session.CookieName)

	sessionID, err := b.h.startSession(ctx, b.c.Writer, user.ID)
	if err != nil {
		return err
	}

	if previous != "" {
		if err := b.h.sessions.Delete(ctx, previous); err != nil {
			logger.Warn("drop previous session failed", map[string]any{"error": err})
		}
	}

	b.userID = user.ID
	b.c.Set("userID", user.ID)

	logger.Info("login success", map[string]any{
		"user_id":    user.ID,
		"session_id": sessionID,
		"ip":         b.c.ClientIP(),
	})
	return nil
}
