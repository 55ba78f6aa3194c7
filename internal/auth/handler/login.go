package handler

import (
	"context"
	"net/http"

	"connect-service/internal/session"
)

// startSession persists a new authenticated session for userID and issues
// its cookie.
func (h *Handler) startSession(ctx context.Context, w http.ResponseWriter, userID string) (string, error) {
	sessionID, err := session.GenerateID()
	if err != nil {
		return "", err
	}

	now := h.now()
	absoluteExpiry := now.Add(h.opts.SessionTTL)

	sess := session.Session{
		SessionID:         sessionID,
		UserID:            userID,
		CreatedAt:         now,
		AbsoluteExpiresAt: absoluteExpiry,
		ExpiresAt:         session.ExpiryAt(now, absoluteExpiry, h.opts.SessionIdleTTL),
	}

	if err := h.sessions.Create(ctx, sess); err != nil {
		return "", err
	}

	session.SetCookie(w, session.CookieName, sessionID, absoluteExpiry, h.cookieOptions())

	return sessionID, nil
}

func (h *Handler) cookieOptions() session.CookieOptions {
	return session.CookieOptions{
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
