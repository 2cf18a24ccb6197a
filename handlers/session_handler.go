package handlers

import (
	"resume-penelitian/access"
	"resume-penelitian/helper"
	"resume-penelitian/logger"
	"resume-penelitian/metrics"
	"resume-penelitian/middleware"
	"resume-penelitian/models"
	"resume-penelitian/sessions"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *sessions.Service
	policy         *access.Policy
	Helper         *helper.HTTPHelper
}

func NewSessionHandler(sessionService *sessions.Service, policy *access.Policy, h *helper.HTTPHelper) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, policy: policy, Helper: h}
}

type sessionView struct {
	*sessions.Session
	Pages []string `json:"pages"`
}

// GetSession returns the session with the pages its role may open. A
// pending flash is delivered once and then cleared.
func (h *SessionHandler) GetSession(c *gin.Context) {
	ctx := c.Request.Context()
	sess, err := h.sessionService.Get(ctx, middleware.SessionID(c))
	if err != nil {
		h.Helper.SendUnauthorizedError(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if sess.Flash != "" {
		if _, err := h.sessionService.TakeFlash(ctx, sess.ID); err != nil {
			logger.Warnf("clear flash on %s: %v", sess.ID, err)
		}
	}

	h.Helper.SendSuccess(c, "Session loaded", sessionView{Session: sess, Pages: h.policy.PagesFor(sess.Role())})
}

// Navigate moves the session to another page. A page outside the role's
// list leaves the session on the dashboard with an error flash.
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req models.NavigateRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)
	sid := middleware.SessionID(c)

	if !h.policy.Allowed(user.Role, req.Page) {
		metrics.AccessDenied.WithLabelValues(req.Page).Inc()
		logger.Warnf("access denied: %s (%s) -> %s", user.Username, user.Role, req.Page)
		if _, err := h.sessionService.Deny(ctx, sid, middleware.DeniedMessage); err != nil {
			h.Helper.SendErrorFor(c, err)
			return
		}
		h.Helper.SendForbiddenError(c, middleware.DeniedMessage, gin.H{"redirect": access.PageDashboard})
		return
	}

	sess, err := h.sessionService.Navigate(ctx, sid, req.Page)
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Page changed", sess)
}

// Select remembers the record open in a detail view. A null record_id clears it.
func (h *SessionHandler) Select(c *gin.Context) {
	var req models.SelectRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	sess, err := h.sessionService.Select(c.Request.Context(), middleware.SessionID(c), req.RecordID)
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Selection changed", sess)
}
