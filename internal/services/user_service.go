package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
	"github.com/BasanLidzhiev/bank-rest/internal/auth"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	repo "github.com/BasanLidzhiev/bank-rest/internal/repository"
)

// ErrInvalidCredentials deliberately hides whether the username or the
// password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserService struct {
	users repo.Users
	tm    *auth.TokenManager
	log   *slog.Logger
}

func NewUserService(users repo.Users, tm *auth.TokenManager, log *slog.Logger) *UserService {
	return &UserService{users: users, tm: tm, log: log}
}

// Register creates a regular user account.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	return s.CreateWithRole(ctx, username, email, password, models.RoleUser)
}

// CreateWithRole creates a user with an explicit role. Used by Register
// and by the startup admin bootstrap.
func (s *UserService) CreateWithRole(ctx context.Context, username, email, password, role string) (models.User, error) {
	u := models.User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Role:     role,
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}

	if taken, err := s.users.ExistsByUsername(ctx, u.Username); err != nil {
		return models.User{}, err
	} else if taken {
		return models.User{}, apperr.New(apperr.CodeUserAlreadyExists)
	}
	if taken, err := s.users.ExistsByEmail(ctx, u.Email); err != nil {
		return models.User{}, err
	} else if taken {
		return models.User{}, apperr.New(apperr.CodeUserAlreadyExists)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user registered", "username", created.Username, "role", created.Role)
	return created, nil
}

// Login authenticates by username and password and issues a token pair.
func (s *UserService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	access, refresh, exp, err := s.tm.GeneratePair(u.ID, u.Username, u.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *UserService) Refresh(refreshToken string) (TokenPair, error) {
	claims, isRefresh, err := s.tm.ParseAny(refreshToken)
	if err != nil || !isRefresh {
		return TokenPair{}, ErrInvalidCredentials
	}
	access, refresh, exp, err := s.tm.GeneratePair(claims.UserID, claims.Username, claims.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Update(ctx context.Context, u models.User) (models.User, error) {
	if err := s.users.Update(ctx, u); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, u.ID)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
