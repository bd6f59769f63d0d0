package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartkitchen/backend/internal/service"
)

// DishHandler serves stored dishes and the AI extraction endpoints.
type DishHandler struct {
	dishService  service.IDishService
	aiService    service.AIServiceInterface
	imageService *service.ImageService
}

// NewDishHandler creates a new DishHandler
func NewDishHandler(dishService service.IDishService, aiService service.AIServiceInterface, imageService *service.ImageService) *DishHandler {
	return &DishHandler{
		dishService:  dishService,
		aiService:    aiService,
		imageService: imageService,
	}
}

// RegisterRoutes registers the dish routes. The extraction endpoints get
// the rate limiter when one is configured since they proxy a paid oracle.
func (h *DishHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	dishes := router.Group("/dishes")
	{
		dishes.GET("", h.ListDishes)
		dishes.GET("/:id", h.GetDish)
		dishes.PUT("/:id", h.UpdateDish)
		dishes.DELETE("/:id", h.DeleteDish)
		dishes.POST("/:id/thumbnail", h.SetThumbnail)

		if limit != nil {
			dishes.POST("/extract", limit, h.ExtractDish)
			dishes.POST("/from-image", limit, h.ExtractDishFromImage)
			dishes.POST("/:id/regenerate", limit, h.RegenerateDish)
		} else {
			dishes.POST("/extract", h.ExtractDish)
			dishes.POST("/from-image", h.ExtractDishFromImage)
			dishes.POST("/:id/regenerate", h.RegenerateDish)
		}
	}
}

// ListDishes returns stored dishes, optionally ranked against ?q=.
func (h *DishHandler) ListDishes(c *gin.Context) {
	dishes, err := h.dishService.ListDishes(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dishes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dishes": dishes})
}

// GetDish returns one dish with its ingredient list.
func (h *DishHandler) GetDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dish ID"})
		return
	}

	dish, err := h.dishService.GetDish(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	c.JSON(http.StatusOK, dish)
}

// ExtractDish resolves free text into a dish. A case-insensitive substring
// match against stored dish names short-circuits the paid oracle call.
func (h *DishHandler) ExtractDish(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cached, err := h.dishService.FindCached(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check dish cache"})
		return
	}
	if cached != nil {
		c.JSON(http.StatusOK, gin.H{"dish": cached, "cached": true})
		return
	}

	if h.aiService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Extraction service not configured"})
		return
	}

	recipe, err := h.aiService.ExtractRecipe(c.Request.Context(), req.Text)
	if err != nil {
		log.Printf("[DishHandler] Extraction failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to extract recipe"})
		return
	}

	dish, err := h.dishService.CreateFromRecipe(c.Request.Context(), recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store dish"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"dish": dish, "cached": false})
}

// ExtractDishFromImage recognizes a dish in an image and stores it. The
// extracted name goes through the same cache gate as text extraction so a
// photographed known dish does not create a duplicate.
func (h *DishHandler) ExtractDishFromImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.aiService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Extraction service not configured"})
		return
	}

	recipe, err := h.aiService.ExtractDishFromImage(c.Request.Context(), req.Image)
	if err != nil {
		log.Printf("[DishHandler] Image extraction failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to recognize dish"})
		return
	}

	cached, err := h.dishService.FindCached(c.Request.Context(), recipe.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check dish cache"})
		return
	}
	if cached != nil {
		c.JSON(http.StatusOK, gin.H{"dish": cached, "cached": true})
		return
	}

	dish, err := h.dishService.CreateFromRecipe(c.Request.Context(), recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store dish"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"dish": dish, "cached": false})
}

// UpdateDish applies an explicit operator edit.
func (h *DishHandler) UpdateDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dish ID"})
		return
	}

	var recipe service.RecipeData
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dish, err := h.dishService.UpdateDish(c.Request.Context(), id, &recipe)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dish"})
		return
	}

	c.JSON(http.StatusOK, dish)
}

// RegenerateDish deletes the stored dish and re-extracts it from scratch,
// bypassing the cache gate.
func (h *DishHandler) RegenerateDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dish ID"})
		return
	}

	if h.aiService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Extraction service not configured"})
		return
	}

	dish, err := h.dishService.GetDish(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}

	recipe, err := h.aiService.ExtractRecipe(c.Request.Context(), dish.Name)
	if err != nil {
		log.Printf("[DishHandler] Regeneration failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to regenerate dish"})
		return
	}

	if err := h.dishService.DeleteDish(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace dish"})
		return
	}

	created, err := h.dishService.CreateFromRecipe(c.Request.Context(), recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store dish"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// DeleteDish removes a dish together with its ingredient links and any
// plan entries referencing it.
func (h *DishHandler) DeleteDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dish ID"})
		return
	}

	err = h.dishService.DeleteDish(c.Request.Context(), id)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dish"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dish deleted successfully"})
}

// SetThumbnail re-hosts the given image URL and stores it on the dish.
func (h *DishHandler) SetThumbnail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dish ID"})
		return
	}

	var req ThumbnailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url := req.URL
	if h.imageService != nil {
		stored, err := h.imageService.FetchAndStore(c.Request.Context(), req.URL)
		if err != nil {
			log.Printf("[DishHandler] Thumbnail upload failed, keeping source URL: %v", err)
		} else {
			url = stored
		}
	}

	err = h.dishService.SetThumbnail(c.Request.Context(), id, url)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set thumbnail"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"thumbnail_url": url})
}
