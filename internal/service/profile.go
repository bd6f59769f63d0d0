package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smartkitchen/backend/internal/models"
	"gorm.io/gorm"
)

// ProfileService manages the single household profile and its derived
// daily macro goals.
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// ProfileUpdate carries biometric inputs for a profile write.
type ProfileUpdate struct {
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
}

// Get returns the profile, creating it with defaults on first read.
func (s *ProfileService) Get(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Order("created_at").First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		profile = models.UserProfile{
			Name:          "User",
			Age:           25,
			WeightKg:      70,
			HeightCm:      175,
			Gender:        "male",
			ActivityLevel: "moderate",
		}
		applyGoals(&profile)
		if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update writes new biometrics and recomputes the daily goals.
func (s *ProfileService) Update(ctx context.Context, req *ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.Age > 0 {
		profile.Age = req.Age
	}
	if req.WeightKg > 0 {
		profile.WeightKg = req.WeightKg
	}
	if req.HeightCm > 0 {
		profile.HeightCm = req.HeightCm
	}
	if req.Gender != "" {
		profile.Gender = req.Gender
	}
	if req.ActivityLevel != "" {
		profile.ActivityLevel = req.ActivityLevel
	}
	applyGoals(profile)

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// MacroTotals is a calories-plus-macros sum, grams for the macros.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
}

// HealthStats compares one day's planned intake against the profile goals.
type HealthStats struct {
	Date              string      `json:"date"`
	Goals             MacroTotals `json:"goals"`
	Actual            MacroTotals `json:"actual"`
	RemainingCalories float64     `json:"remaining_calories"`
}

// HealthStats sums the nutrition of every dish planned on the given day
// and reports it against the profile's daily goals. Remaining calories
// floor at zero once the day's plan exceeds the goal.
func (s *ProfileService) HealthStats(ctx context.Context, date time.Time) (*HealthStats, error) {
	profile, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).
		Preload("Dish").
		Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1)).
		Find(&plans).Error; err != nil {
		return nil, err
	}

	stats := HealthStats{
		Date: day.Format("2006-01-02"),
		Goals: MacroTotals{
			Calories: profile.GoalCalories,
			ProteinG: profile.GoalProteinG,
			CarbsG:   profile.GoalCarbsG,
			FatsG:    profile.GoalFatsG,
		},
	}
	for _, plan := range plans {
		stats.Actual.Calories += float64(plan.Dish.Nutrition.Calories)
		stats.Actual.ProteinG += parseGrams(plan.Dish.Nutrition.Protein)
		stats.Actual.CarbsG += parseGrams(plan.Dish.Nutrition.Carbs)
		stats.Actual.FatsG += parseGrams(plan.Dish.Nutrition.Fats)
	}

	stats.RemainingCalories = math.Max(0, stats.Goals.Calories-stats.Actual.Calories)
	return &stats, nil
}

// parseGrams reads the numeric prefix of a macro string like "30g" or
// "12.5 g". Unparseable values count as zero.
func parseGrams(value string) float64 {
	value = strings.TrimSpace(value)
	end := 0
	for end < len(value) && (value[end] >= '0' && value[end] <= '9' || value[end] == '.') {
		end++
	}
	grams, err := strconv.ParseFloat(value[:end], 64)
	if err != nil {
		return 0
	}
	return grams
}

var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
	"athlete":   1.9,
}

// applyGoals derives daily calorie and macro targets from the biometrics
// using Mifflin-St Jeor BMR and a 30/40/30 protein/carbs/fats split.
func applyGoals(p *models.UserProfile) {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if strings.EqualFold(p.Gender, "female") {
		bmr -= 161
	} else {
		bmr += 5
	}

	multiplier, ok := activityMultipliers[strings.ToLower(p.ActivityLevel)]
	if !ok {
		multiplier = activityMultipliers["moderate"]
	}
	tdee := bmr * multiplier

	p.GoalCalories = math.Round(tdee)
	p.GoalProteinG = math.Round(tdee * 0.30 / 4)
	p.GoalCarbsG = math.Round(tdee * 0.40 / 4)
	p.GoalFatsG = math.Round(tdee * 0.30 / 9)
}
