package middleware

import (
	"context"
	"net/http"
	"time"

	"connect-service/internal/logger"
	"connect-service/internal/session"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

type AuthMiddleware struct {
	Store session.Store
	idle  time.Duration
	now   func() time.Time
}

// NewAuthMiddleware resolves session cookies against store. Each
// authenticated request pushes the session's idle deadline idle into the
// future, capped by its absolute expiry; idle <= 0 disables sliding.
func NewAuthMiddleware(store session.Store, idle time.Duration) *AuthMiddleware {
	return &AuthMiddleware{Store: store, idle: idle, now: time.Now}
}

// userID resolves the session cookie to a user. Missing, unknown and
// expired sessions resolve to "".
func (a *AuthMiddleware) userID(r *http.Request) string {
	sessionID := session.ReadCookie(r, session.CookieName)
	if sessionID == "" {
		return ""
	}

	sess, err := a.Store.Get(r.Context(), sessionID)
	if err != nil {
		logger.Error("load session failed", map[string]any{"error": err})
		return ""
	}
	if sess == nil {
		return ""
	}

	// enforce expiry even if the store has not evicted yet
	now := a.now()
	if now.After(sess.ExpiresAt) || (!sess.AbsoluteExpiresAt.IsZero() && now.After(sess.AbsoluteExpiresAt)) {
		if err := a.Store.Delete(r.Context(), sessionID); err != nil {
			logger.Warn("delete expired session failed", map[string]any{"error": err})
		}
		return ""
	}

	if updated, ok := sess.Refresh(now, a.idle); ok {
		if err := a.Store.Update(r.Context(), updated); err != nil {
			logger.Warn("refresh session failed", map[string]any{"error": err})
		}
	}

	return sess.UserID
}

// LoadSession attaches the user ID to the request context when the browser
// has a valid session, and lets anonymous requests through.
func (a *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := a.userID(r); userID != "" {
			r = r.WithContext(WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a valid session.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := a.userID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
