package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartkitchen/backend/internal/models"
	"gorm.io/gorm"
)

// MealPlanService schedules dishes onto calendar dates.
type MealPlanService struct {
	db *gorm.DB
}

// NewMealPlanService creates a new MealPlanService instance
func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

// Schedule creates a plan entry for the given dish, date and meal slot.
func (s *MealPlanService) Schedule(ctx context.Context, dishID uuid.UUID, date time.Time, mealType string) (*models.MealPlan, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, "id = ?", dishID).Error; err != nil {
		return nil, err
	}

	plan := models.MealPlan{
		DishID:   dishID,
		Date:     date,
		MealType: mealType,
	}
	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return nil, err
	}

	plan.Dish = dish
	return &plan, nil
}

// List returns all scheduled meals ordered by date then slot, with each
// dish's ingredient list expanded.
func (s *MealPlanService) List(ctx context.Context) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).
		Preload("Dish.Ingredients.Ingredient").
		Order("date, meal_type").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Remove deletes a plan entry without touching the pantry.
func (s *MealPlanService) Remove(ctx context.Context, id uuid.UUID) error {
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&plan).Error
}
