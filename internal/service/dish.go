package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/smartkitchen/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DishService handles dish storage and the extraction cache gate.
type DishService struct {
	db *gorm.DB
}

// NewDishService creates a new DishService instance
func NewDishService(db *gorm.DB) *DishService {
	return &DishService{db: db}
}

// FindCached looks for an existing dish whose name contains the query,
// case-insensitively. First match wins; no fuzzy scoring. A hit lets
// callers skip a paid extraction call. Returns nil without error on miss.
func (s *DishService) FindCached(ctx context.Context, query string) (*models.Dish, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var dish models.Dish
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("PairedWith").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("created_at").
		First(&dish).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

// CreateFromRecipe stores an extracted recipe as a dish, creating any
// previously unseen ingredients on the fly.
func (s *DishService) CreateFromRecipe(ctx context.Context, recipe *RecipeData) (*models.Dish, error) {
	var created models.Dish

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dish := models.Dish{
			Name:        recipe.Name,
			Description: recipe.Description,
			Cuisine:     recipe.Cuisine,
			MealTypes:   models.JSONBStringArray(recipe.SuitableFor),
			PrepSteps:   models.JSONBStringArray(recipe.PrepSteps),
			Nutrition: models.Nutrition{
				Calories: recipe.Nutrition.Calories,
				Protein:  recipe.Nutrition.Protein,
				Carbs:    recipe.Nutrition.Carbs,
				Fats:     recipe.Nutrition.Fats,
			},
			Embedding:         GenerateEmbedding(recipe.Name + " " + recipe.Description),
			SuggestedPairings: models.JSONBStringArray(recipe.SuggestedPairings),
		}
		if err := tx.Create(&dish).Error; err != nil {
			return err
		}

		for _, ing := range recipe.Ingredients {
			category := ing.Category
			if category == "" {
				category = "Pantry"
			}
			var ingredient models.Ingredient
			if err := tx.Where("name = ?", ing.Name).
				Attrs(models.Ingredient{Category: category}).
				FirstOrCreate(&ingredient, models.Ingredient{Name: ing.Name}).Error; err != nil {
				return err
			}

			link := models.DishIngredient{
				DishID:       dish.ID,
				IngredientID: ingredient.ID,
				Quantity:     ing.Quantity,
				Unit:         ing.Unit,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		if err := linkPairings(tx, &dish, recipe.SuggestedPairings); err != nil {
			return err
		}

		created = dish
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetDish(ctx, created.ID)
}

// linkPairings connects the dish to already stored dishes whose names
// match its suggested pairings, case-insensitively. Names that do not
// resolve stay in SuggestedPairings only.
func linkPairings(tx *gorm.DB, dish *models.Dish, names []string) error {
	var paired []models.Dish
	for _, name := range names {
		var other models.Dish
		err := tx.Where("LOWER(name) = ? AND id <> ?", strings.ToLower(strings.TrimSpace(name)), dish.ID).
			First(&other).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return err
		}
		paired = append(paired, other)
	}
	return tx.Model(dish).Association("PairedWith").Replace(&paired)
}

// GetDish retrieves a dish by ID with its ingredients and pairings.
func (s *DishService) GetDish(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("PairedWith").
		First(&dish, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

// ListDishes lists stored dishes. A non-empty query orders by embedding
// distance on Postgres and falls back to keyword matching elsewhere.
func (s *DishService) ListDishes(ctx context.Context, query string) ([]models.Dish, error) {
	var dishes []models.Dish

	dbQuery := s.db.WithContext(ctx).Preload("Ingredients.Ingredient")
	if query != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			dbQuery = dbQuery.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(query) + "%"
			dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}

	if err := dbQuery.Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}

// UpdateDish applies an explicit operator edit to a dish's own fields.
// Ingredient links are replaced wholesale when the recipe provides any.
func (s *DishService) UpdateDish(ctx context.Context, id uuid.UUID, recipe *RecipeData) (*models.Dish, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dish models.Dish
		if err := tx.First(&dish, "id = ?", id).Error; err != nil {
			return err
		}

		updates := models.Dish{
			Name:        recipe.Name,
			Description: recipe.Description,
			Cuisine:     recipe.Cuisine,
			MealTypes:   models.JSONBStringArray(recipe.SuitableFor),
			PrepSteps:   models.JSONBStringArray(recipe.PrepSteps),
			Nutrition: models.Nutrition{
				Calories: recipe.Nutrition.Calories,
				Protein:  recipe.Nutrition.Protein,
				Carbs:    recipe.Nutrition.Carbs,
				Fats:     recipe.Nutrition.Fats,
			},
			Embedding:         GenerateEmbedding(recipe.Name + " " + recipe.Description),
			SuggestedPairings: models.JSONBStringArray(recipe.SuggestedPairings),
		}
		if err := tx.Model(&dish).Updates(updates).Error; err != nil {
			return err
		}

		if err := linkPairings(tx, &dish, recipe.SuggestedPairings); err != nil {
			return err
		}

		if len(recipe.Ingredients) == 0 {
			return nil
		}

		if err := tx.Where("dish_id = ?", id).Delete(&models.DishIngredient{}).Error; err != nil {
			return err
		}
		for _, ing := range recipe.Ingredients {
			category := ing.Category
			if category == "" {
				category = "Pantry"
			}
			var ingredient models.Ingredient
			if err := tx.Where("name = ?", ing.Name).
				Attrs(models.Ingredient{Category: category}).
				FirstOrCreate(&ingredient, models.Ingredient{Name: ing.Name}).Error; err != nil {
				return err
			}
			link := models.DishIngredient{
				DishID:       id,
				IngredientID: ingredient.ID,
				Quantity:     ing.Quantity,
				Unit:         ing.Unit,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetDish(ctx, id)
}

// DeleteDish removes a dish, its ingredient links, and any meal plan
// entries that still reference it. Dangling plan rows would otherwise
// point at a dish that no longer resolves.
func (s *DishService) DeleteDish(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dish models.Dish
		if err := tx.First(&dish, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Where("dish_id = ?", id).Delete(&models.MealPlan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dish_id = ?", id).Delete(&models.DishIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM dish_pairings WHERE dish_id = ? OR paired_dish_id = ?", id, id).Error; err != nil {
			return err
		}
		return tx.Delete(&dish).Error
	})
}

// SetThumbnail backfills a dish's thumbnail reference.
func (s *DishService) SetThumbnail(ctx context.Context, id uuid.UUID, url string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Dish{}).
		Where("id = ?", id).
		Update("thumbnail_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
