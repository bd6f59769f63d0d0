package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smartkitchen/backend/config"
	"github.com/smartkitchen/backend/internal/api"
	"github.com/smartkitchen/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	api.SetupAPI(router, db, redisClient, s3Config)

	return router
}
