package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog post. Username is a denormalized copy of the author's
// username captured at creation time; it is not reconciled if the author
// later renames, keeping historical bylines intact.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:120;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ImageURL  *string   `json:"image_url" gorm:"size:2048"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);index;not null"`
	Username  string    `json:"username" gorm:"size:30;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}
