package sessions

import (
	"context"
	"time"

	"resume-penelitian/access"
	"resume-penelitian/models"

	"github.com/google/uuid"
)

var ErrSessionNotFound = models.ErrorUnauthorized{Message: "session not found or expired"}

// Service owns the session lifecycle. Every mutation loads, changes and saves
// the session explicitly; nothing is shared between sessions.
type Service struct {
	repo Repository
	ttl  time.Duration
}

func NewService(r Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{repo: r, ttl: ttl}
}

// Start creates a logged-out session on the dashboard.
func (s *Service) Start(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Page:      access.PageDashboard,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Authenticate records a successful login and lands on the dashboard.
func (s *Service) Authenticate(ctx context.Context, id string, user *models.UserIdentity) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) {
		sess.Authenticated = true
		sess.User = user
		sess.Page = access.PageDashboard
		sess.SelectedRecord = nil
		sess.Flash = ""
	})
}

// Navigate sets the active page. Callers check the page gate first.
func (s *Service) Navigate(ctx context.Context, id, page string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) {
		sess.Page = page
	})
}

// Select remembers the record opened in a detail view; nil clears it.
func (s *Service) Select(ctx context.Context, id string, recordID *uint) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) {
		sess.SelectedRecord = recordID
	})
}

// Deny sends the session back to the dashboard with an error flash.
func (s *Service) Deny(ctx context.Context, id, message string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) {
		sess.Page = access.PageDashboard
		sess.Flash = message
	})
}

// TakeFlash returns the pending flash message and clears it.
func (s *Service) TakeFlash(ctx context.Context, id string) (string, error) {
	var flash string
	_, err := s.update(ctx, id, func(sess *Session) {
		flash = sess.Flash
		sess.Flash = ""
	})
	return flash, err
}

// Reset is logout: the session returns to its logged-out defaults.
func (s *Service) Reset(ctx context.Context, id string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) {
		sess.Authenticated = false
		sess.User = nil
		sess.Page = access.PageDashboard
		sess.SelectedRecord = nil
		sess.Flash = ""
	})
}

// update applies mutate and saves the session with a fresh expiry, so a
// session stays alive as long as it keeps being used.
func (s *Service) update(ctx context.Context, id string, mutate func(*Session)) (*Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(sess)
	sess.ExpiresAt = time.Now().UTC().Add(s.ttl)
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
