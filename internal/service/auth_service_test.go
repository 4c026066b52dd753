package service_test

import (
	"context"
	"testing"
	"time"

	"rocktalk-be/internal/config"
	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/pkg/serverutils"
	"rocktalk-be/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	auth := service.NewAuthService(config.AuthConfig{
		Enabled:      true,
		Username:     "admin",
		PasswordHash: string(hash),
		JwtSecret:    "test-secret",
		TokenTTL:     time.Hour,
	}, logger.NewNopLogger())
	ctx := context.Background()

	res, err := auth.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)

	claims, err := serverutils.ParseToken("test-secret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["sub"])

	_, err = auth.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &dto.LoginRequest{Username: "root", Password: "s3cret"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_Disabled(t *testing.T) {
	auth := service.NewAuthService(config.AuthConfig{}, logger.NewNopLogger())
	assert.False(t, auth.Enabled())

	_, err := auth.Login(context.Background(), &dto.LoginRequest{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, service.ErrAuthDisabled)
}
