package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartkitchen/backend/internal/service"
)

// AssistantHandler serves the vision and recommendation oracle endpoints.
type AssistantHandler struct {
	aiService      service.AIServiceInterface
	pantryService  service.IPantryService
	profileService service.IProfileService
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(aiService service.AIServiceInterface, pantryService service.IPantryService, profileService service.IProfileService) *AssistantHandler {
	return &AssistantHandler{
		aiService:      aiService,
		pantryService:  pantryService,
		profileService: profileService,
	}
}

// RegisterRoutes registers the assistant routes behind the optional rate
// limiter; every endpoint here is a paid oracle call.
func (h *AssistantHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	if limit != nil {
		router.POST("/ingredients/from-image", limit, h.IngredientsFromImage)
		router.POST("/recommend", limit, h.Recommend)
		return
	}
	router.POST("/ingredients/from-image", h.IngredientsFromImage)
	router.POST("/recommend", h.Recommend)
}

// IngredientsFromImage identifies ingredients visible in an image.
func (h *AssistantHandler) IngredientsFromImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.aiService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Vision service not configured"})
		return
	}

	ingredients, err := h.aiService.ExtractIngredientsFromImage(c.Request.Context(), req.Image)
	if err != nil {
		log.Printf("[AssistantHandler] Ingredient extraction failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to identify ingredients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

// Recommend asks the oracle for a dish suggestion, grounding it on what is
// currently in the pantry and, when a meal slot is given, on the calories
// still unplanned for today.
func (h *AssistantHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.aiService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recommendation service not configured"})
		return
	}

	var onHand []string
	if items, err := h.pantryService.List(c.Request.Context()); err == nil {
		for _, item := range items {
			if item.Quantity > 0 {
				onHand = append(onHand, item.Ingredient.Name)
			}
		}
	}

	query := req.Query
	if req.Slot != "" {
		query += "\nThis is for the " + req.Slot + " slot."
		if h.profileService != nil {
			if stats, err := h.profileService.HealthStats(c.Request.Context(), time.Now().UTC()); err == nil {
				query += fmt.Sprintf("\nCalories still unplanned today: %.0f kcal. Suggest something that fits.", stats.RemainingCalories)
			}
		}
	}

	suggestion, err := h.aiService.SuggestDish(c.Request.Context(), query, onHand)
	if err != nil {
		log.Printf("[AssistantHandler] Recommendation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to get recommendation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}
