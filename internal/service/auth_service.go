package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/identity"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// AuthService handles registration and login.
type AuthService interface {
	// Register performs the two-phase create: an identity-provider
	// credential, then a profile row keyed by the returned id. If the
	// profile insert fails the credential is removed again so neither
	// side is left orphaned.
	Register(ctx context.Context, username, email, password string) (token string, profile *model.Profile, err error)
	Login(ctx context.Context, email, password string) (token string, profile *model.Profile, err error)
}

type authService struct {
	profiles repository.ProfileRepository
	provider identity.Provider
	jwt      *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(profiles repository.ProfileRepository, provider identity.Provider, jwt *auth.JWTService) AuthService {
	return &authService{
		profiles: profiles,
		provider: provider,
		jwt:      jwt,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (string, *model.Profile, error) {
	id, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	profile := &model.Profile{
		ID:       id,
		Username: strings.TrimSpace(username),
		Email:    email,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		// compensate so no credential exists without a profile
		_ = s.provider.Remove(ctx, id)
		return "", nil, fmt.Errorf("%w: %v", apperrors.ErrProfileCreation, err)
	}

	token, err := s.jwt.GenerateToken(profile.ID, profile.Username, profile.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, profile, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *model.Profile, error) {
	id, err := s.provider.VerifyPassword(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil, apperrors.ErrProfileNotFound
		}
		return "", nil, fmt.Errorf("load profile: %w", err)
	}

	token, err := s.jwt.GenerateToken(profile.ID, profile.Username, profile.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, profile, nil
}
