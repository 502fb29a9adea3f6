package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInventory(t *testing.T) {
	raw := []byte(`{
		"dairy": ["Milk", " Cheese "],
		"meat": ["chicken"],
		"beverages": [],
		"produce": ["carrot", "apple"],
		"condiments": ["ketchup"],
		"packaged": ["bread"]
	}`)

	inventory, err := ValidateInventory(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"milk", "cheese"}, inventory.Dairy)
	assert.Equal(t, []string{"chicken"}, inventory.Meat)
	assert.NotNil(t, inventory.Beverages)
	assert.Empty(t, inventory.Beverages)
	assert.Equal(t, []string{"carrot", "apple"}, inventory.Produce)
}

func TestValidateInventoryMissingCategory(t *testing.T) {
	raw := []byte(`{
		"dairy": ["milk"],
		"meat": ["chicken"],
		"beverages": [],
		"produce": [],
		"condiments": []
	}`)

	_, err := ValidateInventory(raw)
	assert.Error(t, err)
}

func TestValidateInventoryIgnoresUnknownFields(t *testing.T) {
	raw := []byte(`{
		"dairy": [], "meat": [], "beverages": [],
		"produce": ["apple"], "condiments": [], "packaged": [],
		"frozen": ["peas"]
	}`)

	inventory, err := ValidateInventory(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, inventory.Produce)
}

func TestValidateInventoryInvalidJSON(t *testing.T) {
	_, err := ValidateInventory([]byte(`not json`))
	assert.Error(t, err)
}

func validRecipeJSON() string {
	return `{
		"detectedIngredients": [
			{"name": "milk", "category": "dairy", "quantity": "1L"}
		],
		"suggestedRecipes": [
			{
				"title": "Chicken Soup",
				"cookingTime": 45,
				"difficulty": "EASY",
				"ingredients": [{"item": "chicken", "amount": "500g"}],
				"instructions": ["Boil the chicken", "Season and serve"],
				"nutritionalInfo": {"calories": 350, "protein": 30, "carbs": 12, "fat": 9}
			}
		]
	}`
}

func TestValidateRecipeResponse(t *testing.T) {
	response, err := ValidateRecipeResponse([]byte(validRecipeJSON()))
	require.NoError(t, err)

	require.Len(t, response.SuggestedRecipes, 1)
	recipe := response.SuggestedRecipes[0]
	assert.Equal(t, "Chicken Soup", recipe.Title)
	assert.Equal(t, 45, recipe.CookingTime)
	assert.Equal(t, "EASY", recipe.Difficulty)
	assert.Equal(t, 30, recipe.NutritionalInfo.Protein)

	require.Len(t, response.DetectedIngredients, 1)
	assert.Equal(t, "milk", response.DetectedIngredients[0].Name)
}

func TestValidateRecipeResponseRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "missing protein rejects whole batch",
			raw: `{
				"detectedIngredients": [],
				"suggestedRecipes": [
					{
						"title": "Good Recipe",
						"cookingTime": 20,
						"difficulty": "EASY",
						"ingredients": [{"item": "egg", "amount": "2"}],
						"instructions": ["Cook"],
						"nutritionalInfo": {"calories": 200, "protein": 10, "carbs": 5, "fat": 8}
					},
					{
						"title": "Bad Recipe",
						"cookingTime": 25,
						"difficulty": "MEDIUM",
						"ingredients": [{"item": "flour", "amount": "100g"}],
						"instructions": ["Mix"],
						"nutritionalInfo": {"calories": 300, "carbs": 40, "fat": 5}
					}
				]
			}`,
		},
		{
			name: "unknown difficulty",
			raw: `{
				"detectedIngredients": [],
				"suggestedRecipes": [
					{
						"title": "Odd Recipe",
						"cookingTime": 20,
						"difficulty": "TRIVIAL",
						"ingredients": [{"item": "egg", "amount": "2"}],
						"instructions": ["Cook"],
						"nutritionalInfo": {"calories": 200, "protein": 10, "carbs": 5, "fat": 8}
					}
				]
			}`,
		},
		{
			name: "zero cooking time",
			raw: `{
				"detectedIngredients": [],
				"suggestedRecipes": [
					{
						"title": "Instant",
						"cookingTime": 0,
						"difficulty": "EASY",
						"ingredients": [{"item": "water", "amount": "1L"}],
						"instructions": ["Pour"],
						"nutritionalInfo": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}
					}
				]
			}`,
		},
		{
			name: "negative nutrition value",
			raw: `{
				"detectedIngredients": [],
				"suggestedRecipes": [
					{
						"title": "Negative",
						"cookingTime": 10,
						"difficulty": "EASY",
						"ingredients": [{"item": "egg", "amount": "2"}],
						"instructions": ["Cook"],
						"nutritionalInfo": {"calories": 200, "protein": -5, "carbs": 5, "fat": 8}
					}
				]
			}`,
		},
		{
			name: "empty ingredients",
			raw: `{
				"detectedIngredients": [],
				"suggestedRecipes": [
					{
						"title": "Nothing",
						"cookingTime": 10,
						"difficulty": "EASY",
						"ingredients": [],
						"instructions": ["Cook"],
						"nutritionalInfo": {"calories": 200, "protein": 10, "carbs": 5, "fat": 8}
					}
				]
			}`,
		},
		{
			name: "no recipes at all",
			raw:  `{"detectedIngredients": [], "suggestedRecipes": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRecipeResponse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestValidateRecipeResponseFractionalNumbers(t *testing.T) {
	raw := `{
		"detectedIngredients": [],
		"suggestedRecipes": [
			{
				"title": "Quick Toast",
				"cookingTime": 0.5,
				"difficulty": "EASY",
				"ingredients": [{"item": "bread", "amount": "2 slices"}],
				"instructions": ["Toast"],
				"nutritionalInfo": {"calories": 180.4, "protein": 5.6, "carbs": 30.5, "fat": 2.2}
			}
		]
	}`

	response, err := ValidateRecipeResponse([]byte(raw))
	require.NoError(t, err)

	recipe := response.SuggestedRecipes[0]
	// Fractional minutes must never collapse to zero.
	assert.Equal(t, 1, recipe.CookingTime)
	assert.Equal(t, 180, recipe.NutritionalInfo.Calories)
	assert.Equal(t, 6, recipe.NutritionalInfo.Protein)
	assert.Equal(t, 31, recipe.NutritionalInfo.Carbs)
	assert.Equal(t, 2, recipe.NutritionalInfo.Fat)
}

func TestValidateRecipeResponseZeroNutritionAllowed(t *testing.T) {
	raw := `{
		"detectedIngredients": [],
		"suggestedRecipes": [
			{
				"title": "Water Ice",
				"cookingTime": 5,
				"difficulty": "EASY",
				"ingredients": [{"item": "water", "amount": "1L"}],
				"instructions": ["Freeze"],
				"nutritionalInfo": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}
			}
		]
	}`

	response, err := ValidateRecipeResponse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 0, response.SuggestedRecipes[0].NutritionalInfo.Calories)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}
