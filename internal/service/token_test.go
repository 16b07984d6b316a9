package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, auth *AuthService) *TokenService {
	t.Helper()
	return &TokenService{
		Repo:          auth.Repo,
		JWTSecret:     auth.JWTSecret,
		RefreshSecret: auth.RefreshSecret,
	}
}

func TestTokenService_RotateToken(t *testing.T) {
	t.Parallel()

	auth := newTestAuthService(t)
	svc := newTestTokenService(t, auth)
	ctx := context.Background()

	res, err := auth.Register(ctx, "a@b.c", "Some One", "secret")
	require.NoError(t, err)

	pair, err := svc.RotateToken(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, res.RefreshToken, pair.RefreshToken)

	// the rotated-out token cannot be replayed
	_, err = svc.RotateToken(ctx, res.RefreshToken)
	require.Error(t, err)
}

func TestTokenService_RejectsRevokedRefreshToken(t *testing.T) {
	t.Parallel()

	auth := newTestAuthService(t)
	svc := newTestTokenService(t, auth)
	ctx := context.Background()

	res, err := auth.Register(ctx, "a@b.c", "Some One", "secret")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, res.RefreshToken))

	_, err = svc.ValidateRefresh(ctx, res.RefreshToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
}

func TestTokenService_RejectsUnknownRefreshToken(t *testing.T) {
	t.Parallel()

	auth := newTestAuthService(t)
	svc := newTestTokenService(t, auth)
	other := newTestAuthService(t)
	ctx := context.Background()

	// signed with the same secret but saved in a different store
	other.JWTSecret = auth.JWTSecret
	other.RefreshSecret = auth.RefreshSecret
	res, err := other.Register(ctx, "a@b.c", "Some One", "secret")
	require.NoError(t, err)

	_, err = svc.ValidateRefresh(ctx, res.RefreshToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
