package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/scatch/internal/hash"
	"github.com/Skotchmaster/scatch/internal/models"
	"github.com/Skotchmaster/scatch/internal/repo"
	"github.com/Skotchmaster/scatch/internal/tokens"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	User         models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, email, fullname, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	fullname = strings.TrimSpace(fullname)

	switch {
	case email == "":
		return nil, fmt.Errorf("email is required: %w", ErrValidation)
	case fullname == "":
		return nil, fmt.Errorf("fullname is required: %w", ErrValidation)
	case password == "":
		return nil, fmt.Errorf("password is required: %w", ErrValidation)
	}

	_, err := s.Repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		FullName:     fullname,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, *user)
}

// Logout revokes the presented refresh token. The access token stays valid
// until its expiry; the client-held cookies are cleared by the handler.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, user models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(AccessTTL)
	refreshExp := time.Now().Add(RefreshTTL)

	accessToken, err := tokens.SignAccessToken(user.ID, user.Role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := tokens.SignRefreshToken(user.ID, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, &models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
