package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a named foodstuff tagged with an aisle category. Created
// lazily the first time a recipe references a new name and immutable after
// that except for thumbnail backfill.
type Ingredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Category     string    `gorm:"size:50;default:'Pantry'" json:"category"`
	ThumbnailURL string    `gorm:"size:255" json:"thumbnail_url"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
