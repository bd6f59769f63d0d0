package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartkitchen/backend/internal/service"
)

// PantryHandler serves the pantry snapshot and purchase endpoint.
type PantryHandler struct {
	pantryService service.IPantryService
}

// NewPantryHandler creates a new PantryHandler
func NewPantryHandler(pantryService service.IPantryService) *PantryHandler {
	return &PantryHandler{pantryService: pantryService}
}

// RegisterRoutes registers the pantry routes
func (h *PantryHandler) RegisterRoutes(router *gin.RouterGroup) {
	pantry := router.Group("/pantry")
	{
		pantry.GET("", h.ListPantry)
		pantry.POST("", h.Purchase)
	}
}

// ListPantry returns all pantry items with their ingredients.
func (h *PantryHandler) ListPantry(c *gin.Context) {
	items, err := h.pantryService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pantry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pantry": items})
}

// Purchase upserts stock for one ingredient.
func (h *PantryHandler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiry date, expected YYYY-MM-DD"})
			return
		}
		expiry = &parsed
	}

	item, err := h.pantryService.Purchase(c.Request.Context(), req.Name, req.Category, req.Quantity, req.Unit, req.MinThreshold, expiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record purchase"})
		return
	}

	c.JSON(http.StatusCreated, item)
}
