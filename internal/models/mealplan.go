package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlan schedules one dish on a calendar date in a named slot. The row
// is deleted either explicitly or when the meal is marked cooked; there is
// no completed state.
type MealPlan struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	DishID    uuid.UUID `gorm:"type:uuid;not null;index" json:"dish_id"`
	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	MealType  string    `gorm:"size:50;not null" json:"meal_type"`

	Dish Dish `json:"dish"`
}

func (m *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
