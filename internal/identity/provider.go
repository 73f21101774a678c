// Package identity owns account credentials: sign-up and password
// verification. Passwords never leave this package; the rest of the
// application only ever sees the opaque credential id.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
)

const bcryptCost = 10

// Credential is a stored login credential. It lives in its own table,
// separate from profiles, mirroring an external identity provider.
type Credential struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

// Provider is the identity-provider surface used by the auth service.
type Provider interface {
	// SignUp creates a credential and returns its id.
	SignUp(ctx context.Context, email, password string) (uuid.UUID, error)
	// VerifyPassword checks email/password and returns the credential id.
	VerifyPassword(ctx context.Context, email, password string) (uuid.UUID, error)
	// Remove deletes a credential. Used to compensate when the second step
	// of registration fails.
	Remove(ctx context.Context, id uuid.UUID) error
}

type store struct {
	db *gorm.DB
}

// NewStore builds a GORM-backed credential store.
func NewStore(db *gorm.DB) Provider {
	return &store{db: db}
}

func (s *store) SignUp(ctx context.Context, email, password string) (uuid.UUID, error) {
	var existing Credential
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return uuid.Nil, apperrors.ErrEmailTaken
	}
	if err != gorm.ErrRecordNotFound {
		return uuid.Nil, fmt.Errorf("check credential existence: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	cred := Credential{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&cred).Error; err != nil {
		return uuid.Nil, fmt.Errorf("create credential: %w", err)
	}

	return cred.ID, nil
}

func (s *store) VerifyPassword(ctx context.Context, email, password string) (uuid.UUID, error) {
	var cred Credential
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error; err != nil {
		return uuid.Nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return uuid.Nil, apperrors.ErrInvalidCredentials
	}

	return cred.ID, nil
}

func (s *store) Remove(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&Credential{}, "id = ?", id).Error
}
