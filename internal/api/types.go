package api

// ExtractRequest asks for a dish to be extracted from free text.
type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// ImageRequest carries an image reference (URL or data URI) for the vision
// extraction endpoints.
type ImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// ScheduleRequest schedules a dish on a date in a meal slot.
type ScheduleRequest struct {
	DishID   string `json:"dish_id" binding:"required"`
	Date     string `json:"date" binding:"required"` // YYYY-MM-DD
	MealType string `json:"meal_type" binding:"required"`
}

// PurchaseRequest records bought stock for one ingredient.
type PurchaseRequest struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	Unit         string  `json:"unit" binding:"required"`
	MinThreshold float64 `json:"min_threshold"`
	ExpiryDate   string  `json:"expiry_date"` // YYYY-MM-DD, optional
}

// ThumbnailRequest backfills a dish thumbnail from a source URL.
type ThumbnailRequest struct {
	URL string `json:"url" binding:"required"`
}

// RecommendRequest asks the recommendation oracle for a dish suggestion.
// Slot optionally names the meal slot being planned; when set, the
// suggestion is also grounded on the calories still unplanned today.
type RecommendRequest struct {
	Query string `json:"query" binding:"required"`
	Slot  string `json:"slot"`
}
