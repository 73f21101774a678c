package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public identity of a registered user. Its primary key is
// the id assigned by the identity provider at sign-up, so a profile row
// always mirrors exactly one credential record.
type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:30;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
