package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile holds the household's biometric inputs and the daily macro
// goals derived from them. Exactly one row exists; it is created lazily
// with these defaults on first read.
type UserProfile struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"size:100;default:'User'" json:"name"`
	Age           int       `gorm:"default:25" json:"age"`
	WeightKg      float64   `gorm:"type:float;default:70" json:"weight_kg"`
	HeightCm      float64   `gorm:"type:float;default:175" json:"height_cm"`
	Gender        string    `gorm:"size:20;default:'male'" json:"gender"`
	ActivityLevel string    `gorm:"size:20;default:'moderate'" json:"activity_level"`

	// Derived targets, recomputed on every profile write.
	GoalCalories float64 `gorm:"type:float" json:"goal_calories"`
	GoalProteinG float64 `gorm:"type:float" json:"goal_protein_g"`
	GoalCarbsG   float64 `gorm:"type:float" json:"goal_carbs_g"`
	GoalFatsG    float64 `gorm:"type:float" json:"goal_fats_g"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
