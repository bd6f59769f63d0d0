package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartkitchen/backend/internal/models"
	"github.com/smartkitchen/backend/internal/service"
	"github.com/smartkitchen/backend/internal/testhelpers"
)

// setupFullRouter wires every handler against one sqlite database with a
// deterministic converter, matching the production wiring minus the oracle.
func setupFullRouter(t *testing.T, db *gorm.DB, converter service.UnitConverter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck)

	pantryService := service.NewPantryService(db, converter)
	profileService := service.NewProfileService(db)
	v1 := router.Group("/api/v1")
	NewDishHandler(service.NewDishService(db), nil, nil).RegisterRoutes(v1, nil)
	NewMealPlanHandler(service.NewMealPlanService(db), pantryService).RegisterRoutes(v1)
	NewPantryHandler(pantryService).RegisterRoutes(v1)
	NewShoppingHandler(service.NewShoppingService(db, converter)).RegisterRoutes(v1)
	NewProfileHandler(profileService).RegisterRoutes(v1)
	NewAssistantHandler(nil, pantryService, profileService).RegisterRoutes(v1, nil)
	return router
}

func TestHealthCheck(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Healthy", resp["status"])
}

func TestPurchaseEndpoint(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	w := postJSON(t, router, "/api/v1/pantry", map[string]interface{}{
		"name":     "Basmati Rice",
		"category": "Pantry",
		"quantity": 1000,
		"unit":     "g",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pantry", nil)
	list := httptest.NewRecorder()
	router.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)

	var resp struct {
		Pantry []struct {
			Quantity   float64 `json:"quantity"`
			Ingredient struct {
				Name string `json:"name"`
			} `json:"ingredient"`
		} `json:"pantry"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &resp))
	require.Len(t, resp.Pantry, 1)
	assert.Equal(t, "Basmati Rice", resp.Pantry[0].Ingredient.Name)
	assert.Equal(t, 1000.0, resp.Pantry[0].Quantity)
}

func TestPurchaseEndpoint_RejectsNonPositiveQuantity(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	w := postJSON(t, router, "/api/v1/pantry", map[string]interface{}{
		"name":     "Rice",
		"quantity": 0,
		"unit":     "g",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleAndCompleteFlow(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	dish := testhelpers.CreateDish(t, db, "Chicken Fried Rice",
		testhelpers.TestIngredient{Name: "Rice", Quantity: 100, Unit: "g"},
	)
	testhelpers.StockPantry(t, db, "Rice", "Pantry", 150, "g", 1)

	w := postJSON(t, router, "/api/v1/mealplan", map[string]string{
		"dish_id":   dish.ID.String(),
		"date":      "2026-03-02",
		"meal_type": "Dinner",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var plan struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))

	done := postJSON(t, router, fmt.Sprintf("/api/v1/mealplan/%s/complete", plan.ID), nil)
	require.Equal(t, http.StatusOK, done.Code)

	// The plan is consumed: completing again is a 404.
	again := postJSON(t, router, fmt.Sprintf("/api/v1/mealplan/%s/complete", plan.ID), nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestCompleteEndpoint_UnknownPlan(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	w := postJSON(t, router, "/api/v1/mealplan/0d4b6f66-97c1-4f2c-9e16-279fd2e6fa3b/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoppingListEndpoint(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	dish := testhelpers.CreateDish(t, db, "Chicken Fried Rice",
		testhelpers.TestIngredient{Name: "Rice", Quantity: 300, Unit: "g"},
	)
	testhelpers.ScheduleMeal(t, db, dish, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "Dinner")
	testhelpers.StockPantry(t, db, "Rice", "Pantry", 100, "g", 1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shopping-list", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			Name     string  `json:"name"`
			Quantity float64 `json:"quantity"`
			Reason   string  `json:"reason"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Rice", resp.Items[0].Name)
	assert.Equal(t, 200.0, resp.Items[0].Quantity)
	assert.Equal(t, "Planned Meals", resp.Items[0].Reason)
}

func TestDemandEndpoint(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	dish := testhelpers.CreateDish(t, db, "Omelette",
		testhelpers.TestIngredient{Name: "Eggs", Category: "Dairy", Quantity: 2, Unit: "pcs"},
	)
	testhelpers.ScheduleMeal(t, db, dish, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "Breakfast")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shopping-list/demand", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Demand []struct {
			Name     string  `json:"name"`
			Quantity float64 `json:"quantity"`
		} `json:"demand"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Demand, 1)
	assert.Equal(t, "Eggs", resp.Demand[0].Name)
	assert.Equal(t, 2.0, resp.Demand[0].Quantity)
}

func TestProfileEndpoints(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		Name         string  `json:"name"`
		GoalCalories float64 `json:"goal_calories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "User", profile.Name)
	assert.Greater(t, profile.GoalCalories, 0.0)

	body, err := json.Marshal(map[string]interface{}{"name": "Asha", "weight_kg": 60})
	require.NoError(t, err)
	update := httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewReader(body))
	update.Header.Set("Content-Type", "application/json")
	uw := httptest.NewRecorder()
	router.ServeHTTP(uw, update)
	require.Equal(t, http.StatusOK, uw.Code)

	require.NoError(t, json.Unmarshal(uw.Body.Bytes(), &profile))
	assert.Equal(t, "Asha", profile.Name)
}

func TestHealthStatsEndpoint(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	dish := testhelpers.CreateDish(t, db, "Chicken Fried Rice",
		testhelpers.TestIngredient{Name: "Rice", Quantity: 300, Unit: "g"},
	)
	require.NoError(t, db.Model(&models.Dish{}).Where("id = ?", dish.ID).
		Update("nutrition", models.Nutrition{Calories: 450, Protein: "20g", Carbs: "60g", Fats: "12g"}).Error)
	testhelpers.ScheduleMeal(t, db, dish, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "Dinner")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health-stats/2026-03-02", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Date  string `json:"date"`
		Goals struct {
			Calories float64 `json:"calories"`
		} `json:"goals"`
		Actual struct {
			Calories float64 `json:"calories"`
			ProteinG float64 `json:"protein_g"`
		} `json:"actual"`
		RemainingCalories float64 `json:"remaining_calories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "2026-03-02", stats.Date)
	assert.Equal(t, 450.0, stats.Actual.Calories)
	assert.Equal(t, 20.0, stats.Actual.ProteinG)
	assert.Equal(t, stats.Goals.Calories-450, stats.RemainingCalories)
}

func TestHealthStatsEndpoint_BadDate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health-stats/yesterday", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantEndpoints_NoOracle(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	router := setupFullRouter(t, db, &testhelpers.StubConverter{})

	w := postJSON(t, router, "/api/v1/recommend", map[string]string{"query": "something with rice"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = postJSON(t, router, "/api/v1/ingredients/from-image", map[string]string{"image": "https://img.example.com/p.jpg"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
