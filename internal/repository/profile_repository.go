package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogapi/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository builds a GORM-backed repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
