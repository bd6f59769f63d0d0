package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PantryItem is the current on-hand stock for one ingredient. The unique
// index on IngredientID enforces the one-row-per-ingredient invariant.
type PantryItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	IngredientID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"ingredient_id"`
	Quantity     float64    `gorm:"type:float;not null;default:0" json:"quantity"`
	Unit         string     `gorm:"size:50;not null" json:"unit"`
	MinThreshold float64    `gorm:"type:float;not null;default:1" json:"min_threshold"`
	ExpiryDate   *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`

	Ingredient Ingredient `json:"ingredient"`
}

func (p *PantryItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
