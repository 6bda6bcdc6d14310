package service

import (
	"context"
	"testing"
	"time"

	"fin-dashboard/internal/dto"
	"fin-dashboard/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService() *AuthService {
	return NewAuthService(newMemUsers(), auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour), zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{Username: "ann", Email: " Ann@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", registered.TokenType)
	assert.Equal(t, int64(3600), registered.ExpiresIn)
	assert.Equal(t, "ann@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.AccessToken)

	loggedIn, err := svc.Login(ctx, &dto.LoginRequest{Email: "ann@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "ann2", Email: "ann@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginFailures(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "right-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "bob@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "right-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRefreshToken(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, &dto.RegisterRequest{Username: "cy", Email: "cy@example.com", Password: "pass-word"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User, refreshed.User)

	_, err = svc.RefreshToken(ctx, registered.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "access tokens cannot refresh")

	_, err = svc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
