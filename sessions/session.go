package sessions

import (
	"time"

	"resume-penelitian/models"
)

// Session is the per-visitor state: who is logged in, which page is open,
// which record is selected and a one-shot flash message.
type Session struct {
	ID             string               `json:"id"`
	Authenticated  bool                 `json:"authenticated"`
	User           *models.UserIdentity `json:"user,omitempty"`
	Page           string               `json:"page"`
	SelectedRecord *uint                `json:"selected_record,omitempty"`
	Flash          string               `json:"flash,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	ExpiresAt      time.Time            `json:"expires_at"`
}

// Role returns the logged-in role, or "" for anonymous sessions.
func (s *Session) Role() models.UserRole {
	if !s.Authenticated || s.User == nil {
		return ""
	}
	return s.User.Role
}
