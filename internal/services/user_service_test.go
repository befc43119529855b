package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
	"github.com/BasanLidzhiev/bank-rest/internal/auth"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/repository/memory"
)

func newUserService() (*memory.Store, *UserService) {
	store := memory.NewStore()
	tm := auth.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	return store, NewUserService(store.Users(), tm, testLogger())
}

func TestRegister(t *testing.T) {
	_, svc := newUserService()

	u, err := svc.Register(context.Background(), "alex", "alex@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "alex", u.Username)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secret123", u.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alex", "alex@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alex", "other@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUserAlreadyExists, apperr.CodeOf(err))

	_, err = svc.Register(ctx, "other", "alex@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUserAlreadyExists, apperr.CodeOf(err))
}

func TestRegisterTrimsInput(t *testing.T) {
	_, svc := newUserService()

	u, err := svc.Register(context.Background(), "  alex ", " alex@example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alex", u.Username)
	assert.Equal(t, "alex@example.com", u.Email)
}

func TestLogin(t *testing.T) {
	_, svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alex", "alex@example.com", "secret123")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "alex", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alex", "alex@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alex", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	_, svc := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alex", "alex@example.com", "secret123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "alex", "secret123")
	require.NoError(t, err)

	fresh, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)

	// An access token must not pass as a refresh token.
	_, err = svc.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Refresh("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateWithRoleAdmin(t *testing.T) {
	_, svc := newUserService()

	u, err := svc.CreateWithRole(context.Background(), "root", "root@example.com", "secret123", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}
