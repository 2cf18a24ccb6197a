package middleware

import (
	"strings"

	"resume-penelitian/helper"
	"resume-penelitian/models"
	"resume-penelitian/services"
	"resume-penelitian/sessions"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	KeyUser      = "user"
	KeyUserID    = "user_id"
	KeyUsername  = "username"
	KeyRole      = "role"
	KeySessionID = "session_id"
)

// AuthMiddleware accepts a bearer token only while the session it names is
// still logged in, so logout revokes the token.
func AuthMiddleware(authService services.AuthService, sessionService *sessions.Service, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			h.SendUnauthorizedError(c, "Authorization header required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			h.SendUnauthorizedError(c, "Bearer token required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(tokenString)
		if err != nil {
			h.SendUnauthorizedError(c, "Invalid token: "+err.Error(), h.EmptyJsonMap())
			c.Abort()
			return
		}

		sess, err := sessionService.Get(c.Request.Context(), claims.SessionID)
		if err != nil || !sess.Authenticated || sess.User == nil || sess.User.Username != claims.Username {
			h.SendUnauthorizedError(c, "Session expired, please log in again", h.EmptyJsonMap())
			c.Abort()
			return
		}

		c.Set(KeyUser, sess.User)
		c.Set(KeyUserID, sess.User.ID)
		c.Set(KeyUsername, sess.User.Username)
		c.Set(KeyRole, sess.User.Role)
		c.Set(KeySessionID, sess.ID)

		c.Next()
	}
}

// CurrentUser returns the identity stored by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.UserIdentity {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.UserIdentity)
	return user
}

// SessionID returns the session bound to the request token.
func SessionID(c *gin.Context) string {
	return c.GetString(KeySessionID)
}
