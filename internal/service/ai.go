package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// IngredientData is one ingredient line as returned by the extraction model.
type IngredientData struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// NutritionData is the nutrition breakup as returned by the extraction model.
type NutritionData struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fats     string `json:"fats"`
}

// RecipeData represents the structure of a dish as returned by the model
type RecipeData struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Cuisine           string           `json:"cuisine"`
	SuitableFor       []string         `json:"suitable_for"`
	Ingredients       []IngredientData `json:"ingredients"`
	PrepSteps         []string         `json:"prep_steps"`
	Nutrition         NutritionData    `json:"nutrition"`
	SuggestedPairings []string         `json:"suggested_pairings"`
}

// AIService handles interactions with the DeepSeek API
type AIService struct {
	apiKey string
	apiURL string
	client *http.Client
	redis  *redis.Client
}

// NewAIService creates a new AIService instance. The Redis client is
// optional; without it extraction results are simply not cached.
func NewAIService(redisClient *redis.Client) (*AIService, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	return &AIService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
		redis:  redisClient,
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the DeepSeek API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature,omitempty"`
}

const extractionSystemPrompt = `You are an AI culinary expert. Extract the full dish details from the user's text into JSON with this structure:
{
    "name": "Dish name",
    "description": "Brief description",
    "cuisine": "Cuisine, e.g. Italian, Indian",
    "suitable_for": ["Breakfast", "Lunch", "Dinner"],
    "ingredients": [
        {"name": "Flour", "quantity": 200, "unit": "g", "category": "Pantry"}
    ],
    "prep_steps": ["Step 1 ...", "Step 2 ..."],
    "nutrition": {"calories": 350, "protein": "15g", "carbs": "45g", "fats": "12g"},
    "suggested_pairings": ["Garlic Naan", "Cucumber Raita"]
}

Categorize ingredients into aisles like Produce, Dairy, Meat, or Pantry.
If nutritional values are missing, provide accurate culinary estimates.
The calories field must be a number; protein, carbs and fats are strings with a unit suffix.
List up to three dishes that pair well with this one in suggested_pairings.`

// chat sends one JSON-mode chat completion and returns the raw content.
func (s *AIService) chat(ctx context.Context, system, user string) (string, error) {
	reqBody := Request{
		Model: "deepseek-chat",
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

// ExtractRecipe parses free text into structured dish data. Results are
// cached in Redis keyed by the normalized query so repeated extractions of
// the same text never hit the paid API twice.
func (s *AIService) ExtractRecipe(ctx context.Context, text string) (*RecipeData, error) {
	cacheKey := "extract:recipe:" + strings.ToLower(strings.TrimSpace(text))

	if s.redis != nil {
		if data, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached RecipeData
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	content, err := s.chat(ctx, extractionSystemPrompt, "Extract the full dish details from: "+text)
	if err != nil {
		return nil, err
	}

	var recipe RecipeData
	if err := json.Unmarshal([]byte(content), &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	if recipe.Name == "" {
		return nil, fmt.Errorf("extraction returned no dish name")
	}

	if s.redis != nil {
		if data, err := json.Marshal(&recipe); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, 24*time.Hour).Err(); err != nil {
				log.Printf("[AIService] Failed to cache extraction: %v", err)
			}
		}
	}

	return &recipe, nil
}

// ExtractIngredientsFromImage identifies ingredients visible in an image.
// The image is passed as a URL or data URI.
func (s *AIService) ExtractIngredientsFromImage(ctx context.Context, image string) ([]IngredientData, error) {
	system := `You are an AI culinary expert with vision capabilities. Identify every distinct food ingredient in the referenced image and respond with JSON:
{"ingredients": [{"name": "Tomato", "quantity": 3, "unit": "pieces", "category": "Produce"}]}
Estimate quantities from what is visible. Categorize into aisles like Produce, Dairy, Meat, or Pantry.`

	content, err := s.chat(ctx, system, "Identify the ingredients in this image: "+image)
	if err != nil {
		return nil, err
	}

	var result struct {
		Ingredients []IngredientData `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse ingredient response: %w", err)
	}

	return result.Ingredients, nil
}

// ExtractDishFromImage recognizes a prepared dish from an image and returns
// the same structure as text extraction.
func (s *AIService) ExtractDishFromImage(ctx context.Context, image string) (*RecipeData, error) {
	content, err := s.chat(ctx, extractionSystemPrompt, "Identify the dish in this image and extract its full details: "+image)
	if err != nil {
		return nil, err
	}

	var recipe RecipeData
	if err := json.Unmarshal([]byte(content), &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse dish response: %w", err)
	}
	if recipe.Name == "" {
		return nil, fmt.Errorf("no dish recognized in image")
	}

	return &recipe, nil
}

// SuggestDish asks the model for a free-text dish recommendation.
func (s *AIService) SuggestDish(ctx context.Context, query string, pantry []string) (string, error) {
	prompt := query
	if len(pantry) > 0 {
		prompt += "\nIngredients currently on hand: " + strings.Join(pantry, ", ")
	}

	content, err := s.chat(ctx,
		`You are a helpful home cook assistant. Recommend one dish and explain briefly why it fits. Respond with JSON: {"suggestion": "..."}`,
		prompt)
	if err != nil {
		return "", err
	}

	var result struct {
		Suggestion string `json:"suggestion"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return "", fmt.Errorf("failed to parse suggestion response: %w", err)
	}

	return result.Suggestion, nil
}

// ConvertUnit asks the model to convert a quantity between units for a given
// ingredient. Returns an error on any transport or parse failure; callers
// decide how to degrade.
func (s *AIService) ConvertUnit(ctx context.Context, ingredient string, quantity float64, fromUnit, toUnit string) (float64, error) {
	prompt := fmt.Sprintf("Convert %g %s of %s into %s.", quantity, fromUnit, ingredient, toUnit)

	content, err := s.chat(ctx,
		`You are a culinary unit conversion expert. Respond only with JSON like {"quantity": 2.5} giving the converted amount in the target unit.`,
		prompt)
	if err != nil {
		return 0, err
	}

	var result struct {
		Quantity float64 `json:"quantity"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return 0, fmt.Errorf("failed to parse conversion response: %w", err)
	}
	if result.Quantity <= 0 {
		return 0, fmt.Errorf("conversion returned non-positive quantity %g", result.Quantity)
	}

	return result.Quantity, nil
}
