package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"

	"github.com/campbelljlowman/mopify-api/auth"
)

// jwtAuthMiddleware lets requests through when auth isn't configured. Browsers can't set headers
// on a websocket, so the token is also read from the token query parameter.
func jwtAuthMiddleware(authService *auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil || !authService.Enabled() {
			c.Next()
			return
		}

		bearerToken := c.Request.Header.Get("Authorization")
		if bearerToken == "" {
			bearerToken = c.Query("token")
		}

		err := authService.Verify(bearerToken)
		if err != nil {
			slog.Info("Rejected request", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
