package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"resume-penelitian/config"
	"resume-penelitian/models"
	"resume-penelitian/repositories"
	"resume-penelitian/sessions"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "laporan.db"),
	})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	return db
}

type AuthServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	userRepo repositories.UserRepository
	sessions *sessions.Service
	auth     AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.userRepo = repositories.NewUserRepository(openTestDB(s.T()))
	s.sessions = sessions.NewService(sessions.NewMemoryRepository(), time.Hour)
	s.auth = NewAuthService(s.userRepo, s.sessions, []byte("test-secret"), time.Hour)
	s.Require().NoError(s.auth.SeedDemoUsers(s.ctx))
}

func (s *AuthServiceTestSuite) TestAuthenticate() {
	identity, err := s.auth.Authenticate(s.ctx, "editor", "editor123")
	s.Require().NoError(err)
	s.Equal("editor", identity.Username)
	s.Equal(models.RoleEditor, identity.Role)
	s.Equal("Editor Laporan", identity.DisplayName)
	s.NotZero(identity.ID)
}

func (s *AuthServiceTestSuite) TestAuthenticate_GenericFailure() {
	_, errWrongPassword := s.auth.Authenticate(s.ctx, "editor", "salah")
	_, errUnknownUser := s.auth.Authenticate(s.ctx, "tidak-ada", "editor123")

	s.ErrorIs(errWrongPassword, models.ErrInvalidCredentials)
	s.ErrorIs(errUnknownUser, models.ErrInvalidCredentials)
	s.Equal(errWrongPassword.Error(), errUnknownUser.Error())
}

func (s *AuthServiceTestSuite) TestRegister_IsInsertIfAbsent() {
	created, err := s.auth.Register(s.ctx, models.RegisterRequest{Username: "admin", Password: "lain", Role: models.RoleViewer})
	s.Require().NoError(err)
	s.False(created)

	identity, err := s.auth.Authenticate(s.ctx, "admin", "admin123")
	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, identity.Role)

	_, err = s.auth.Authenticate(s.ctx, "admin", "lain")
	s.ErrorIs(err, models.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestRegister_RejectsUnknownRole() {
	_, err := s.auth.Register(s.ctx, models.RegisterRequest{Username: "tamu", Password: "tamu123", Role: "tamu"})
	s.ErrorIs(err, models.ErrInvalidRole)
}

func (s *AuthServiceTestSuite) TestStoredDigestIsSaltedArgon() {
	user, err := s.userRepo.GetByUsername(s.ctx, "viewer")
	s.Require().NoError(err)
	s.True(strings.HasPrefix(user.PasswordHash, "$argon2id$"))
	s.NotContains(user.PasswordHash, "viewer123")
}

func (s *AuthServiceTestSuite) TestLegacyDigestIsUpgradedOnLogin() {
	sum := sha256.Sum256([]byte("lama123"))
	_, err := s.userRepo.CreateIfAbsent(s.ctx, &models.User{
		Username: "lama", PasswordHash: hex.EncodeToString(sum[:]), Role: models.RoleViewer,
	})
	s.Require().NoError(err)

	_, err = s.auth.Authenticate(s.ctx, "lama", "lama123")
	s.Require().NoError(err)

	user, err := s.userRepo.GetByUsername(s.ctx, "lama")
	s.Require().NoError(err)
	s.True(strings.HasPrefix(user.PasswordHash, "$argon2id$"))

	_, err = s.auth.Authenticate(s.ctx, "lama", "lama123")
	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestLoginIssuesTokenBoundToSession() {
	resp, err := s.auth.Login(s.ctx, models.LoginRequest{Username: "reviewer", Password: "reviewer123"})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)

	claims, err := s.auth.ParseToken(resp.Token)
	s.Require().NoError(err)
	s.Equal("reviewer", claims.Username)
	s.Equal(models.RoleReviewer, claims.Role)
	s.Equal(resp.SessionID, claims.SessionID)

	sess, err := s.sessions.Get(s.ctx, resp.SessionID)
	s.Require().NoError(err)
	s.True(sess.Authenticated)
	s.Equal("reviewer", sess.User.Username)

	s.Require().NoError(s.auth.Logout(s.ctx, resp.SessionID))
	sess, err = s.sessions.Get(s.ctx, resp.SessionID)
	s.Require().NoError(err)
	s.False(sess.Authenticated)
}

func (s *AuthServiceTestSuite) TestParseToken_RejectsForeignSecret() {
	other := NewAuthService(s.userRepo, s.sessions, []byte("other-secret"), time.Hour)
	resp, err := other.Login(s.ctx, models.LoginRequest{Username: "admin", Password: "admin123"})
	s.Require().NoError(err)

	_, err = s.auth.ParseToken(resp.Token)
	s.Error(err)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
