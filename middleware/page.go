package middleware

import (
	"resume-penelitian/access"
	"resume-penelitian/helper"
	"resume-penelitian/logger"
	"resume-penelitian/metrics"
	"resume-penelitian/sessions"

	"github.com/gin-gonic/gin"
)

// DeniedMessage is the flash left on a session that hit a page it may not see.
const DeniedMessage = "Anda tidak memiliki akses ke halaman ini"

// RequirePage runs after AuthMiddleware. A role without the page is sent
// back to the dashboard and the handler never runs.
func RequirePage(policy *access.Policy, sessionService *sessions.Service, h *helper.HTTPHelper, page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			h.SendUnauthorizedError(c, "User not found in context", h.EmptyJsonMap())
			c.Abort()
			return
		}

		if policy.Allowed(user.Role, page) {
			c.Next()
			return
		}

		metrics.AccessDenied.WithLabelValues(page).Inc()
		logger.Warnf("access denied: %s (%s) -> %s", user.Username, user.Role, page)
		if _, err := sessionService.Deny(c.Request.Context(), SessionID(c), DeniedMessage); err != nil {
			logger.Warnf("record denied access on session: %v", err)
		}

		h.SendForbiddenError(c, DeniedMessage, gin.H{"redirect": access.PageDashboard})
		c.Abort()
	}
}
