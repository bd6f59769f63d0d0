package main

import (
	"context"
	"log"

	"github.com/smartkitchen/backend/config"
	"github.com/smartkitchen/backend/internal/database"
	"github.com/smartkitchen/backend/internal/service"
)

// Starter dishes so a fresh install has something to plan with before the
// extraction oracle is configured.
var seedRecipes = []service.RecipeData{
	{
		Name:        "Masala Omelette",
		Description: "A spiced Indian-style omelette with onion, chili and coriander.",
		Cuisine:     "Indian",
		SuitableFor: []string{"Breakfast"},
		Ingredients: []service.IngredientData{
			{Name: "Eggs", Quantity: 3, Unit: "pieces", Category: "Dairy"},
			{Name: "Onion", Quantity: 50, Unit: "g", Category: "Produce"},
			{Name: "Green Chili", Quantity: 1, Unit: "pieces", Category: "Produce"},
			{Name: "Coriander", Quantity: 10, Unit: "g", Category: "Produce"},
			{Name: "Oil", Quantity: 15, Unit: "ml", Category: "Pantry"},
		},
		PrepSteps: []string{
			"Whisk the eggs with salt.",
			"Fold in chopped onion, chili and coriander.",
			"Fry in hot oil until set, flipping once.",
		},
		Nutrition: service.NutritionData{Calories: 320, Protein: "19g", Carbs: "6g", Fats: "24g"},
	},
	{
		Name:        "Tomato Basil Pasta",
		Description: "Spaghetti tossed in a quick fresh tomato and basil sauce.",
		Cuisine:     "Italian",
		SuitableFor: []string{"Lunch", "Dinner"},
		Ingredients: []service.IngredientData{
			{Name: "Spaghetti", Quantity: 200, Unit: "g", Category: "Pantry"},
			{Name: "Tomato", Quantity: 400, Unit: "g", Category: "Produce"},
			{Name: "Basil", Quantity: 10, Unit: "g", Category: "Produce"},
			{Name: "Garlic", Quantity: 2, Unit: "cloves", Category: "Produce"},
			{Name: "Olive Oil", Quantity: 30, Unit: "ml", Category: "Pantry"},
		},
		PrepSteps: []string{
			"Boil the spaghetti until al dente.",
			"Soften garlic in olive oil, add chopped tomatoes and simmer.",
			"Toss the pasta through the sauce with torn basil.",
		},
		Nutrition: service.NutritionData{Calories: 520, Protein: "15g", Carbs: "82g", Fats: "14g"},
	},
	{
		Name:        "Chicken Fried Rice",
		Description: "Wok-fried rice with chicken, egg and spring onion.",
		Cuisine:     "Chinese",
		SuitableFor: []string{"Lunch", "Dinner"},
		Ingredients: []service.IngredientData{
			{Name: "Rice", Quantity: 300, Unit: "g", Category: "Pantry"},
			{Name: "Chicken Breast", Quantity: 200, Unit: "g", Category: "Meat"},
			{Name: "Eggs", Quantity: 2, Unit: "pieces", Category: "Dairy"},
			{Name: "Spring Onion", Quantity: 30, Unit: "g", Category: "Produce"},
			{Name: "Soy Sauce", Quantity: 20, Unit: "ml", Category: "Pantry"},
		},
		PrepSteps: []string{
			"Dice and stir-fry the chicken until cooked through.",
			"Scramble the eggs in the wok, then add cold cooked rice.",
			"Season with soy sauce and finish with spring onion.",
		},
		Nutrition: service.NutritionData{Calories: 610, Protein: "38g", Carbs: "78g", Fats: "16g"},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	dishService := service.NewDishService(db)
	ctx := context.Background()

	for i := range seedRecipes {
		recipe := &seedRecipes[i]

		existing, err := dishService.FindCached(ctx, recipe.Name)
		if err != nil {
			log.Fatalf("Failed to check for existing dish %q: %v", recipe.Name, err)
		}
		if existing != nil {
			log.Printf("Skipping %q (already present)", recipe.Name)
			continue
		}

		if _, err := dishService.CreateFromRecipe(ctx, recipe); err != nil {
			log.Fatalf("Failed to seed dish %q: %v", recipe.Name, err)
		}
		log.Printf("Seeded dish %q", recipe.Name)
	}

	log.Println("Seeding complete.")
}
