package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartkitchen/backend/internal/service"
)

// ShoppingHandler serves the reconciled shopping list.
type ShoppingHandler struct {
	shoppingService service.IShoppingService
}

// NewShoppingHandler creates a new ShoppingHandler
func NewShoppingHandler(shoppingService service.IShoppingService) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService}
}

// RegisterRoutes registers the shopping list routes
func (h *ShoppingHandler) RegisterRoutes(router *gin.RouterGroup) {
	shopping := router.Group("/shopping-list")
	{
		shopping.GET("", h.GetShoppingList)
		shopping.GET("/demand", h.GetDemand)
	}
}

// GetShoppingList returns the gap reconciliation output: one row per
// ingredient with a shortage reason.
func (h *ShoppingHandler) GetShoppingList(c *gin.Context) {
	list, err := h.shoppingService.BuildShoppingList(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build shopping list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

// GetDemand returns the raw aggregated demand before pantry reconciliation.
func (h *ShoppingHandler) GetDemand(c *gin.Context) {
	demand, err := h.shoppingService.AggregateDemand(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate demand"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"demand": demand})
}
