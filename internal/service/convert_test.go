package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkitchen/backend/internal/service"
)

// fakeOracle serves chat completions whose content is the given JSON body.
func fakeOracle(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func oracleBackedConverter(t *testing.T, server *httptest.Server) *service.AIUnitConverter {
	t.Helper()
	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("DEEPSEEK_API_URL", server.URL)

	ai, err := service.NewAIService(nil)
	require.NoError(t, err)
	return service.NewAIUnitConverter(ai, nil)
}

func TestConvert_EqualUnitsShortCircuit(t *testing.T) {
	// No oracle configured at all; identical units never need one.
	converter := service.NewAIUnitConverter(nil, nil)

	result := converter.Convert(context.Background(), "Rice", 250, "g", "G")
	assert.True(t, result.Converted)
	assert.Equal(t, 250.0, result.Quantity)
}

func TestConvert_NoOracleIsPassthrough(t *testing.T) {
	converter := service.NewAIUnitConverter(nil, nil)

	result := converter.Convert(context.Background(), "Rice", 1, "kg", "g")
	assert.False(t, result.Converted)
	assert.Equal(t, 1.0, result.Quantity)
}

func TestConvert_OracleSuccess(t *testing.T) {
	server := fakeOracle(t, http.StatusOK, `{"quantity": 1000}`)
	defer server.Close()

	converter := oracleBackedConverter(t, server)
	result := converter.Convert(context.Background(), "Rice", 1, "kg", "g")

	assert.True(t, result.Converted)
	assert.Equal(t, 1000.0, result.Quantity)
}

func TestConvert_OracleFailureIsPassthrough(t *testing.T) {
	server := fakeOracle(t, http.StatusInternalServerError, "")
	defer server.Close()

	converter := oracleBackedConverter(t, server)
	result := converter.Convert(context.Background(), "Rice", 1, "kg", "g")

	assert.False(t, result.Converted)
	assert.Equal(t, 1.0, result.Quantity, "original quantity survives a failed conversion")
}

func TestConvert_GarbageResponseIsPassthrough(t *testing.T) {
	server := fakeOracle(t, http.StatusOK, `not json at all`)
	defer server.Close()

	converter := oracleBackedConverter(t, server)
	result := converter.Convert(context.Background(), "Rice", 2, "cup", "g")

	assert.False(t, result.Converted)
	assert.Equal(t, 2.0, result.Quantity)
}

func TestConvertUnit_RejectsNonPositiveResult(t *testing.T) {
	server := fakeOracle(t, http.StatusOK, `{"quantity": -4}`)
	defer server.Close()

	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("DEEPSEEK_API_URL", server.URL)
	ai, err := service.NewAIService(nil)
	require.NoError(t, err)

	_, err = ai.ConvertUnit(context.Background(), "Rice", 1, "kg", "g")
	assert.Error(t, err)
}

func TestExtractRecipe_ParsesOracleResponse(t *testing.T) {
	content := `{
		"name": "Masala Omelette",
		"description": "Spiced Indian omelette",
		"cuisine": "Indian",
		"suitable_for": ["Breakfast"],
		"ingredients": [
			{"name": "Eggs", "quantity": 3, "unit": "pcs", "category": "Dairy"}
		],
		"prep_steps": ["Whisk eggs", "Fry"],
		"nutrition": {"calories": 280, "protein": "18g", "carbs": "4g", "fats": "21g"}
	}`
	server := fakeOracle(t, http.StatusOK, content)
	defer server.Close()

	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("DEEPSEEK_API_URL", server.URL)
	ai, err := service.NewAIService(nil)
	require.NoError(t, err)

	recipe, err := ai.ExtractRecipe(context.Background(), "masala omelette")
	require.NoError(t, err)

	assert.Equal(t, "Masala Omelette", recipe.Name)
	assert.Equal(t, []string{"Breakfast"}, recipe.SuitableFor)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "Eggs", recipe.Ingredients[0].Name)
	assert.Equal(t, 280, recipe.Nutrition.Calories)
}

func TestExtractRecipe_RejectsNamelessResult(t *testing.T) {
	server := fakeOracle(t, http.StatusOK, `{"description": "mystery"}`)
	defer server.Close()

	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("DEEPSEEK_API_URL", server.URL)
	ai, err := service.NewAIService(nil)
	require.NoError(t, err)

	_, err = ai.ExtractRecipe(context.Background(), "???")
	assert.Error(t, err)
}

func TestNewAIService_RequiresKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY_FILE", "")

	_, err := service.NewAIService(nil)
	assert.Error(t, err)
	assert.Contains(t, fmt.Sprint(err), "DEEPSEEK_API_KEY")
}
