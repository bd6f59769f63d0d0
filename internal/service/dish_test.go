package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartkitchen/backend/internal/models"
	"github.com/smartkitchen/backend/internal/service"
	"github.com/smartkitchen/backend/internal/testhelpers"
)

func sampleRecipe(name string) *service.RecipeData {
	return &service.RecipeData{
		Name:        name,
		Description: "A quick weeknight dish",
		Cuisine:     "Indian",
		SuitableFor: []string{"Dinner"},
		Ingredients: []service.IngredientData{
			{Name: "Rice", Quantity: 200, Unit: "g", Category: "Pantry"},
			{Name: "Eggs", Quantity: 2, Unit: "pcs", Category: "Dairy"},
		},
		PrepSteps: []string{"Cook rice", "Scramble eggs", "Combine"},
		Nutrition: service.NutritionData{Calories: 450, Protein: "20g", Carbs: "60g", Fats: "12g"},
	}
}

func TestFindCached_SubstringCaseInsensitive(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	_, err := svc.CreateFromRecipe(ctx, sampleRecipe("Chicken Fried Rice"))
	require.NoError(t, err)

	for _, query := range []string{"chicken fried rice", "Fried Rice", "CHICKEN"} {
		dish, err := svc.FindCached(ctx, query)
		require.NoError(t, err)
		require.NotNil(t, dish, "query %q should hit", query)
		assert.Equal(t, "Chicken Fried Rice", dish.Name)
	}
}

func TestFindCached_MissReturnsNil(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	_, err := svc.CreateFromRecipe(ctx, sampleRecipe("Chicken Fried Rice"))
	require.NoError(t, err)

	dish, err := svc.FindCached(ctx, "lasagna")
	require.NoError(t, err)
	assert.Nil(t, dish)

	dish, err = svc.FindCached(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, dish)
}

func TestCreateFromRecipe_ReusesKnownIngredients(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	_, err := svc.CreateFromRecipe(ctx, sampleRecipe("Chicken Fried Rice"))
	require.NoError(t, err)
	_, err = svc.CreateFromRecipe(ctx, sampleRecipe("Veg Fried Rice"))
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "Rice and Eggs stored once each")
}

func TestCreateFromRecipe_PopulatesDish(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	dish, err := svc.CreateFromRecipe(ctx, sampleRecipe("Chicken Fried Rice"))
	require.NoError(t, err)

	assert.Equal(t, "Chicken Fried Rice", dish.Name)
	assert.Equal(t, models.JSONBStringArray{"Dinner"}, dish.MealTypes)
	assert.Equal(t, 450, dish.Nutrition.Calories)
	require.Len(t, dish.Ingredients, 2)
	assert.NotZero(t, dish.Embedding.Slice(), "embedding is set on create")
}

func TestCreateFromRecipe_LinksSuggestedPairings(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	_, err := svc.CreateFromRecipe(ctx, sampleRecipe("Garlic Naan"))
	require.NoError(t, err)

	recipe := sampleRecipe("Butter Chicken")
	recipe.SuggestedPairings = []string{"garlic naan", "Jeera Rice"}

	dish, err := svc.CreateFromRecipe(ctx, recipe)
	require.NoError(t, err)

	assert.Equal(t, models.JSONBStringArray{"garlic naan", "Jeera Rice"}, dish.SuggestedPairings,
		"raw pairing names survive even when unresolved")
	require.Len(t, dish.PairedWith, 1, "only stored dishes get linked")
	assert.Equal(t, "Garlic Naan", dish.PairedWith[0].Name)
}

func TestDeleteDish_RemovesPairingLinks(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	naan, err := svc.CreateFromRecipe(ctx, sampleRecipe("Garlic Naan"))
	require.NoError(t, err)

	recipe := sampleRecipe("Butter Chicken")
	recipe.SuggestedPairings = []string{"Garlic Naan"}
	curry, err := svc.CreateFromRecipe(ctx, recipe)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDish(ctx, naan.ID))

	kept, err := svc.GetDish(ctx, curry.ID)
	require.NoError(t, err)
	assert.Empty(t, kept.PairedWith)
}

func TestDishFixture_ReloadsWithEmbedding(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	dish := testhelpers.CreateDish(t, db, "Omelette",
		testhelpers.TestIngredient{Name: "Eggs", Quantity: 3, Unit: "pcs"})

	var raw models.Dish
	require.NoError(t, db.Preload("Ingredients.Ingredient").First(&raw, "id = ?", dish.ID).Error,
		"a stored dish must scan back cleanly")
	assert.NotEmpty(t, raw.Embedding.Slice(), "fixture dishes carry an embedding")

	got, err := svc.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, "Omelette", got.Name)
}

func TestListDishes_KeywordFallback(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	_, err := svc.CreateFromRecipe(ctx, sampleRecipe("Chicken Fried Rice"))
	require.NoError(t, err)
	_, err = svc.CreateFromRecipe(ctx, sampleRecipe("Masala Omelette"))
	require.NoError(t, err)

	all, err := svc.ListDishes(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := svc.ListDishes(ctx, "omelette")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Masala Omelette", matched[0].Name)
}

func TestUpdateDish_ReplacesIngredientLinks(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	dish, err := svc.CreateFromRecipe(ctx, sampleRecipe("Chicken Fried Rice"))
	require.NoError(t, err)

	edit := sampleRecipe("Chicken Fried Rice Deluxe")
	edit.Ingredients = []service.IngredientData{
		{Name: "Rice", Quantity: 250, Unit: "g", Category: "Pantry"},
	}

	updated, err := svc.UpdateDish(ctx, dish.ID, edit)
	require.NoError(t, err)

	assert.Equal(t, "Chicken Fried Rice Deluxe", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, 250.0, updated.Ingredients[0].Quantity)
}

func TestUpdateDish_Missing(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)

	_, err := svc.UpdateDish(context.Background(), uuid.New(), sampleRecipe("Ghost"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteDish_CascadesLinksAndPlans(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	dish, err := svc.CreateFromRecipe(ctx, sampleRecipe("Chicken Fried Rice"))
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	testhelpers.ScheduleMeal(t, db, dish, day, "Dinner")

	require.NoError(t, svc.DeleteDish(ctx, dish.ID))

	var links, plans int64
	require.NoError(t, db.Model(&models.DishIngredient{}).Where("dish_id = ?", dish.ID).Count(&links).Error)
	require.NoError(t, db.Model(&models.MealPlan{}).Where("dish_id = ?", dish.ID).Count(&plans).Error)
	assert.Zero(t, links)
	assert.Zero(t, plans)

	_, err = svc.GetDish(ctx, dish.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetThumbnail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewDishService(db)
	ctx := context.Background()

	dish, err := svc.CreateFromRecipe(ctx, sampleRecipe("Chicken Fried Rice"))
	require.NoError(t, err)

	require.NoError(t, svc.SetThumbnail(ctx, dish.ID, "https://cdn.example.com/cfr.png"))

	stored, err := svc.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cfr.png", stored.ThumbnailURL)

	err = svc.SetThumbnail(ctx, uuid.New(), "https://cdn.example.com/none.png")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
