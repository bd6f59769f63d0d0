package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartkitchen/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PantryService manages on-hand stock: purchases add to it, meal
// completions consume it.
type PantryService struct {
	db        *gorm.DB
	converter UnitConverter
}

// NewPantryService creates a new PantryService instance
func NewPantryService(db *gorm.DB, converter UnitConverter) *PantryService {
	return &PantryService{db: db, converter: converter}
}

// List returns the full pantry snapshot ordered by ingredient name.
func (s *PantryService) List(ctx context.Context) ([]models.PantryItem, error) {
	var items []models.PantryItem
	if err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Joins("JOIN ingredients ON ingredients.id = pantry_items.ingredient_id").
		Order("ingredients.name").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Purchase records bought stock. The ingredient is created on first sight;
// an existing pantry row is incremented, converting the purchased quantity
// into the pantry's unit when they differ.
func (s *PantryService) Purchase(ctx context.Context, name, category string, quantity float64, unit string, minThreshold float64, expiry *time.Time) (*models.PantryItem, error) {
	var result models.PantryItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if category == "" {
			category = "Pantry"
		}
		var ingredient models.Ingredient
		if err := tx.Where("name = ?", name).
			Attrs(models.Ingredient{Category: category}).
			FirstOrCreate(&ingredient, models.Ingredient{Name: name}).Error; err != nil {
			return err
		}

		var item models.PantryItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("ingredient_id = ?", ingredient.ID).
			First(&item).Error
		if err == gorm.ErrRecordNotFound {
			item = models.PantryItem{
				IngredientID: ingredient.ID,
				Quantity:     quantity,
				Unit:         unit,
				MinThreshold: minThreshold,
				ExpiryDate:   expiry,
			}
			if item.MinThreshold <= 0 {
				item.MinThreshold = 1
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			added := quantity
			if !strings.EqualFold(item.Unit, unit) {
				conv := s.converter.Convert(ctx, name, quantity, unit, item.Unit)
				if !conv.Converted {
					log.Printf("[PantryService] Unconverted purchase of %s: adding %g %s as %s",
						name, quantity, unit, item.Unit)
				}
				added = conv.Quantity
			}
			updates := map[string]interface{}{"quantity": item.Quantity + added}
			if minThreshold > 0 {
				updates["min_threshold"] = minThreshold
			}
			if expiry != nil {
				updates["expiry_date"] = expiry
			}
			if err := tx.Model(&item).Updates(updates).Error; err != nil {
				return err
			}
		}

		item.Ingredient = ingredient
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// CompleteMeal marks a scheduled meal as cooked: every ingredient of the
// plan's dish is deducted from pantry stock (converted into the pantry's
// unit where needed, floored at zero) and the plan row is deleted. The
// whole operation commits as one transaction; any failure leaves the plan
// schedulable and the pantry untouched.
func (s *PantryService) CompleteMeal(ctx context.Context, planID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.MealPlan
		if err := tx.Preload("Dish.Ingredients.Ingredient").
			First(&plan, "id = ?", planID).Error; err != nil {
			return err
		}

		for _, di := range plan.Dish.Ingredients {
			var item models.PantryItem
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("ingredient_id = ?", di.IngredientID).
				First(&item).Error
			if err == gorm.ErrRecordNotFound {
				// No stock tracked for this ingredient; nothing to deduct.
				continue
			}
			if err != nil {
				return err
			}

			deduction := di.Quantity
			if !strings.EqualFold(item.Unit, di.Unit) {
				// The pantry row is the mutation target, so the required
				// quantity is converted into the pantry's unit.
				conv := s.converter.Convert(ctx, di.Ingredient.Name, di.Quantity, di.Unit, item.Unit)
				if !conv.Converted {
					log.Printf("[PantryService] Unconverted deduction for %s: %g %s deducted as %s",
						di.Ingredient.Name, di.Quantity, di.Unit, item.Unit)
				}
				deduction = conv.Quantity
			}

			newQuantity := item.Quantity - deduction
			if newQuantity < 0 {
				newQuantity = 0
			}
			if err := tx.Model(&item).Update("quantity", newQuantity).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&plan).Error
	})
}
