package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartkitchen/backend/internal/models"
)

// IDishService defines the interface for dish storage and the cache gate
type IDishService interface {
	FindCached(ctx context.Context, query string) (*models.Dish, error)
	CreateFromRecipe(ctx context.Context, recipe *RecipeData) (*models.Dish, error)
	GetDish(ctx context.Context, id uuid.UUID) (*models.Dish, error)
	ListDishes(ctx context.Context, query string) ([]models.Dish, error)
	UpdateDish(ctx context.Context, id uuid.UUID, recipe *RecipeData) (*models.Dish, error)
	DeleteDish(ctx context.Context, id uuid.UUID) error
	SetThumbnail(ctx context.Context, id uuid.UUID, url string) error
}

// IMealPlanService defines the interface for meal scheduling
type IMealPlanService interface {
	Schedule(ctx context.Context, dishID uuid.UUID, date time.Time, mealType string) (*models.MealPlan, error)
	List(ctx context.Context) ([]models.MealPlan, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// IPantryService defines the interface for stock mutation
type IPantryService interface {
	List(ctx context.Context) ([]models.PantryItem, error)
	Purchase(ctx context.Context, name, category string, quantity float64, unit string, minThreshold float64, expiry *time.Time) (*models.PantryItem, error)
	CompleteMeal(ctx context.Context, planID uuid.UUID) error
}

// IShoppingService defines the interface for gap reconciliation
type IShoppingService interface {
	AggregateDemand(ctx context.Context) ([]DemandItem, error)
	BuildShoppingList(ctx context.Context) ([]ShoppingListItem, error)
}

// IProfileService defines the interface for the household profile
type IProfileService interface {
	Get(ctx context.Context) (*models.UserProfile, error)
	Update(ctx context.Context, req *ProfileUpdate) (*models.UserProfile, error)
	HealthStats(ctx context.Context, date time.Time) (*HealthStats, error)
}

// AIServiceInterface defines the oracle surface used by handlers
type AIServiceInterface interface {
	ExtractRecipe(ctx context.Context, text string) (*RecipeData, error)
	ExtractIngredientsFromImage(ctx context.Context, image string) ([]IngredientData, error)
	ExtractDishFromImage(ctx context.Context, image string) (*RecipeData, error)
	SuggestDish(ctx context.Context, query string, pantry []string) (string, error)
	ConvertUnit(ctx context.Context, ingredient string, quantity float64, fromUnit, toUnit string) (float64, error)
}
