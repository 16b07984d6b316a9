package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/scatch/internal/models"
	"github.com/Skotchmaster/scatch/internal/repo"
	"github.com/Skotchmaster/scatch/internal/tokens"
)

type TokenService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// ValidateRefresh checks the signature, the typ claim and the stored row:
// a refresh token that was never saved, was revoked, or has expired is
// rejected even if its signature still verifies.
func (t *TokenService) ValidateRefresh(ctx context.Context, raw string) (*tokens.RefreshClaims, error) {
	claims, err := tokens.RefreshClaimsFromToken(raw, t.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	stored, err := t.Repo.GetRefreshToken(ctx, raw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if stored.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("refresh token expired")
	}

	return claims, nil
}

// RotateToken exchanges a valid refresh token for a fresh pair. The old
// refresh token is revoked so it cannot be replayed.
func (t *TokenService) RotateToken(ctx context.Context, raw string) (*TokenPair, error) {
	claims, err := t.ValidateRefresh(ctx, raw)
	if err != nil {
		return nil, err
	}

	userID, err := tokens.UserID(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	user, err := t.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	accessExp := time.Now().Add(AccessTTL)
	refreshExp := time.Now().Add(RefreshTTL)

	newAccess, err := tokens.SignAccessToken(user.ID, user.Role, accessExp, t.JWTSecret)
	if err != nil {
		return nil, err
	}

	newRefresh, err := tokens.SignRefreshToken(user.ID, refreshExp, t.RefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := t.Repo.RevokeRefreshToken(ctx, raw); err != nil {
		return nil, err
	}
	if err := t.Repo.SaveRefreshToken(ctx, &models.RefreshToken{
		Token:     newRefresh,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
