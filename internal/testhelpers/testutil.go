package testhelpers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartkitchen/backend/internal/database"
	"github.com/smartkitchen/backend/internal/models"
	"github.com/smartkitchen/backend/internal/service"
)

// SetupTestDB creates an isolated in-memory SQLite database with the full
// schema migrated. Each call gets its own named shared-cache database so
// parallel tests cannot see each other's rows.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.RunMigrations(db, ""); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TestIngredient describes one ingredient line for CreateDish.
type TestIngredient struct {
	Name     string
	Category string
	Quantity float64
	Unit     string
}

// CreateDish stores a dish with the given ingredient lines, creating the
// ingredients on first use the way recipe extraction does.
func CreateDish(t *testing.T, db *gorm.DB, name string, lines ...TestIngredient) *models.Dish {
	t.Helper()

	// The embedding must be populated: a zero pgvector value stores as
	// "[]", which cannot be scanned back.
	dish := models.Dish{
		Name:      name,
		MealTypes: models.JSONBStringArray{"Dinner"},
		PrepSteps: models.JSONBStringArray{"Cook"},
		Embedding: service.GenerateEmbedding(name),
	}
	if err := db.Create(&dish).Error; err != nil {
		t.Fatalf("failed to create dish %q: %v", name, err)
	}

	for _, line := range lines {
		category := line.Category
		if category == "" {
			category = "Pantry"
		}
		var ingredient models.Ingredient
		if err := db.Where("name = ?", line.Name).
			Attrs(models.Ingredient{Category: category}).
			FirstOrCreate(&ingredient, models.Ingredient{Name: line.Name}).Error; err != nil {
			t.Fatalf("failed to create ingredient %q: %v", line.Name, err)
		}
		link := models.DishIngredient{
			DishID:       dish.ID,
			IngredientID: ingredient.ID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		}
		if err := db.Create(&link).Error; err != nil {
			t.Fatalf("failed to link ingredient %q: %v", line.Name, err)
		}
	}

	var full models.Dish
	if err := db.Preload("Ingredients.Ingredient").First(&full, "id = ?", dish.ID).Error; err != nil {
		t.Fatalf("failed to reload dish %q: %v", name, err)
	}
	return &full
}

// ScheduleMeal adds a plan entry for the dish.
func ScheduleMeal(t *testing.T, db *gorm.DB, dish *models.Dish, date time.Time, mealType string) *models.MealPlan {
	t.Helper()

	plan := models.MealPlan{
		DishID:   dish.ID,
		Date:     date,
		MealType: mealType,
	}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("failed to schedule %q: %v", dish.Name, err)
	}
	return &plan
}

// StockPantry sets on-hand stock for an ingredient, creating the
// ingredient if it does not exist yet.
func StockPantry(t *testing.T, db *gorm.DB, name, category string, quantity float64, unit string, minThreshold float64) *models.PantryItem {
	t.Helper()

	if category == "" {
		category = "Pantry"
	}
	var ingredient models.Ingredient
	if err := db.Where("name = ?", name).
		Attrs(models.Ingredient{Category: category}).
		FirstOrCreate(&ingredient, models.Ingredient{Name: name}).Error; err != nil {
		t.Fatalf("failed to create ingredient %q: %v", name, err)
	}

	item := models.PantryItem{
		IngredientID: ingredient.ID,
		Quantity:     quantity,
		Unit:         unit,
		MinThreshold: minThreshold,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to stock %q: %v", name, err)
	}
	item.Ingredient = ingredient
	return &item
}

// ConversionCall records one converter invocation for assertion.
type ConversionCall struct {
	Ingredient string
	Quantity   float64
	From       string
	To         string
}

// StubConverter is a deterministic UnitConverter. Factors maps
// "from->to" (lowercased) to a multiplier; pairs without a factor pass
// through unconverted, the same degradation the oracle-backed converter
// applies on failure.
type StubConverter struct {
	Factors map[string]float64
	Calls   []ConversionCall
}

func (c *StubConverter) Convert(ctx context.Context, ingredient string, quantity float64, fromUnit, toUnit string) service.Conversion {
	c.Calls = append(c.Calls, ConversionCall{Ingredient: ingredient, Quantity: quantity, From: fromUnit, To: toUnit})

	if strings.EqualFold(fromUnit, toUnit) {
		return service.Conversion{Quantity: quantity, Converted: true}
	}
	key := strings.ToLower(fromUnit) + "->" + strings.ToLower(toUnit)
	if factor, ok := c.Factors[key]; ok {
		return service.Conversion{Quantity: quantity * factor, Converted: true}
	}
	return service.Conversion{Quantity: quantity, Converted: false}
}
