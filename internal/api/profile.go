package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartkitchen/backend/internal/service"
)

// ProfileHandler serves the household profile and its derived goals.
type ProfileHandler struct {
	profileService service.IProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService service.IProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// RegisterRoutes registers the profile routes
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
	router.GET("/health-stats/:date", h.GetHealthStats)
}

// GetProfile returns the profile, creating it with defaults on first read.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile writes new biometrics and recomputes the daily goals.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetHealthStats reports the planned intake for one day against the
// profile's daily goals.
func (h *ProfileHandler) GetHealthStats(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be YYYY-MM-DD"})
		return
	}

	stats, err := h.profileService.HealthStats(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute health stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
