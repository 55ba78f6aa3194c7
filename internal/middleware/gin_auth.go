package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts RequireAuth to Gin. Auth decisions stay
// session-based and provider-agnostic.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return adapt(auth.RequireAuth)
}

// GinLoadSession adapts LoadSession to Gin.
func GinLoadSession(auth *AuthMiddleware) gin.HandlerFunc {
	return adapt(auth.LoadSession)
}

func adapt(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			if userID, ok := UserIDFromContext(r.Context()); ok {
				c.Set("userID", userID)
			}
			c.Next()
		})

		mw(next).ServeHTTP(c.Writer, c.Request)

		// If the middleware already handled the response, stop Gin chain
		if c.Writer.Written() {
			c.Abort()
		}
	}
}
