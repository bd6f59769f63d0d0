package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartkitchen/backend/internal/service"
)

// MealPlanHandler serves the meal schedule and the completion endpoint.
type MealPlanHandler struct {
	mealPlanService service.IMealPlanService
	pantryService   service.IPantryService
}

// NewMealPlanHandler creates a new MealPlanHandler
func NewMealPlanHandler(mealPlanService service.IMealPlanService, pantryService service.IPantryService) *MealPlanHandler {
	return &MealPlanHandler{
		mealPlanService: mealPlanService,
		pantryService:   pantryService,
	}
}

// RegisterRoutes registers the meal plan routes
func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/mealplan")
	{
		plans.GET("", h.ListPlans)
		plans.POST("", h.SchedulePlan)
		plans.DELETE("/:id", h.RemovePlan)
		plans.POST("/:id/complete", h.CompletePlan)
	}
}

// ListPlans returns all scheduled meals with dish details expanded.
func (h *MealPlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.mealPlanService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meal plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal_plans": plans})
}

// SchedulePlan creates a plan entry for a dish.
func (h *MealPlanHandler) SchedulePlan(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dishID, err := uuid.Parse(req.DishID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dish ID"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	plan, err := h.mealPlanService.Schedule(c.Request.Context(), dishID, date, req.MealType)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule meal"})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// RemovePlan deletes a plan entry without touching the pantry.
func (h *MealPlanHandler) RemovePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meal plan ID"})
		return
	}

	err = h.mealPlanService.Remove(c.Request.Context(), id)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove meal plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal plan removed successfully"})
}

// CompletePlan marks a meal cooked: pantry stock is deducted and the plan
// entry is consumed, all-or-nothing.
func (h *MealPlanHandler) CompletePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meal plan ID"})
		return
	}

	err = h.pantryService.CompleteMeal(c.Request.Context(), id)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete meal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal completed and pantry updated"})
}
