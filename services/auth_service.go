package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-penelitian/logger"
	"resume-penelitian/metrics"
	"resume-penelitian/models"
	"resume-penelitian/repositories"
	"resume-penelitian/security"
	"resume-penelitian/sessions"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the bearer token payload; SessionID ties the token to server-side session state.
type Claims struct {
	UserID    uint            `json:"user_id"`
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	SessionID string          `json:"sid"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (bool, error)
	Authenticate(ctx context.Context, username, password string) (*models.UserIdentity, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	ParseToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SeedDemoUsers(ctx context.Context) error
}

type authService struct {
	userRepo   repositories.UserRepository
	sessions   *sessions.Service
	secret     []byte
	expiration time.Duration
}

func NewAuthService(userRepo repositories.UserRepository, sessionService *sessions.Service, secret []byte, expiration time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessionService,
		secret:     secret,
		expiration: expiration,
	}
}

// DemoUsers are the bootstrap accounts created by SeedDemoUsers.
var DemoUsers = []models.RegisterRequest{
	{Username: "admin", Password: "admin123", DisplayName: "Administrator", Role: models.RoleAdmin},
	{Username: "editor", Password: "editor123", DisplayName: "Editor Laporan", Role: models.RoleEditor},
	{Username: "viewer", Password: "viewer123", DisplayName: "Pembaca", Role: models.RoleViewer},
	{Username: "reviewer", Password: "reviewer123", DisplayName: "Peninjau", Role: models.RoleReviewer},
}

// Register is insert-if-absent: an existing username keeps its password and role.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (bool, error) {
	if !req.Role.Valid() {
		return false, fmt.Errorf("role %q: %w", req.Role, models.ErrInvalidRole)
	}
	if req.Username == "" || req.Password == "" {
		return false, models.ErrorBadRequest{Message: "username and password are required"}
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return false, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         req.Role,
	}
	created, err := s.userRepo.CreateIfAbsent(ctx, user)
	if err != nil {
		return false, err
	}
	if created {
		logger.Infof("registered user %s (%s)", user.Username, user.Role)
	}
	return created, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.UserIdentity, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := security.VerifyPassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, security.ErrMismatch) {
			logger.Warnf("user %s has an unreadable password hash: %v", user.Username, err)
		}
		return nil, models.ErrInvalidCredentials
	}

	if security.NeedsRehash(user.PasswordHash) {
		if hash, err := security.HashPassword(password); err == nil {
			if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
				logger.Warnf("rehash password for %s: %v", user.Username, err)
			}
		}
	}

	return user.Identity(), nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	identity, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
		}
		return nil, err
	}

	sess, err := s.sessions.Start(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Authenticate(ctx, sess.ID, identity); err != nil {
		return nil, err
	}

	token, err := s.generateToken(identity, sess.ID)
	if err != nil {
		return nil, err
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	return &models.AuthResponse{
		Token:     token,
		SessionID: sess.ID,
		User:      identity,
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	_, err := s.sessions.Reset(ctx, sessionID)
	return err
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *authService) SeedDemoUsers(ctx context.Context) error {
	for _, u := range DemoUsers {
		if _, err := s.Register(ctx, u); err != nil {
			return fmt.Errorf("seed %s: %w", u.Username, err)
		}
	}
	return nil
}

func (s *authService) generateToken(user *models.UserIdentity, sessionID string) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.Username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
