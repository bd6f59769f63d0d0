package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smartkitchen/backend/config"
	"github.com/smartkitchen/backend/internal/middleware"
	"github.com/smartkitchen/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "Healthy",
		"platform": "Smart Kitchen OS",
		"version":  "v1.0.0",
	})
}

// SetupAPI wires all services and handlers onto the router. The Redis
// client and S3 config may be nil; caching, rate limiting and thumbnail
// storage degrade gracefully without them.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config) {
	router.GET("/", HealthCheck)
	router.GET("/health", HealthCheck)

	// Initialize services
	aiService, err := service.NewAIService(redisClient)
	if err != nil {
		log.Printf("Warning: AI service not configured: %v", err)
	}
	converter := service.NewAIUnitConverter(aiService, redisClient)

	dishService := service.NewDishService(db)
	mealPlanService := service.NewMealPlanService(db)
	pantryService := service.NewPantryService(db, converter)
	shoppingService := service.NewShoppingService(db, converter)
	profileService := service.NewProfileService(db)

	var imageService *service.ImageService
	if s3Config != nil {
		imageService = service.NewImageService(s3Config)
	}

	// Throttle oracle-backed endpoints when Redis is available
	var limit gin.HandlerFunc
	if redisClient != nil {
		limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     10,
			KeyPrefix: "ratelimit:extract",
		})
		limit = limiter.RateLimitMiddleware()
	}

	v1 := router.Group("/api/v1")
	{
		var ai service.AIServiceInterface
		if aiService != nil {
			ai = aiService
		}

		dishHandler := NewDishHandler(dishService, ai, imageService)
		mealPlanHandler := NewMealPlanHandler(mealPlanService, pantryService)
		pantryHandler := NewPantryHandler(pantryService)
		shoppingHandler := NewShoppingHandler(shoppingService)
		profileHandler := NewProfileHandler(profileService)
		assistantHandler := NewAssistantHandler(ai, pantryService, profileService)

		dishHandler.RegisterRoutes(v1, limit)
		mealPlanHandler.RegisterRoutes(v1)
		pantryHandler.RegisterRoutes(v1)
		shoppingHandler.RegisterRoutes(v1)
		profileHandler.RegisterRoutes(v1)
		assistantHandler.RegisterRoutes(v1, limit)
	}
}
