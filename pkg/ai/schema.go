package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rohald89/Hungie/domain"

	"github.com/go-playground/validator/v10"
)

// Wire payloads use pointer fields so that a missing key can be told apart
// from a zero value. Unknown fields in the model output are ignored; any
// missing or mistyped required field rejects the whole payload.
type (
	inventoryPayload struct {
		Dairy      *[]string `json:"dairy" validate:"required"`
		Meat       *[]string `json:"meat" validate:"required"`
		Beverages  *[]string `json:"beverages" validate:"required"`
		Produce    *[]string `json:"produce" validate:"required"`
		Condiments *[]string `json:"condiments" validate:"required"`
		Packaged   *[]string `json:"packaged" validate:"required"`
	}

	detectedIngredientPayload struct {
		Name     *string `json:"name" validate:"required"`
		Category *string `json:"category" validate:"required"`
		Quantity *string `json:"quantity"`
	}

	generatedIngredientPayload struct {
		Item   *string `json:"item" validate:"required"`
		Amount *string `json:"amount" validate:"required"`
	}

	nutritionPayload struct {
		Calories *float64 `json:"calories" validate:"required,gte=0"`
		Protein  *float64 `json:"protein" validate:"required,gte=0"`
		Carbs    *float64 `json:"carbs" validate:"required,gte=0"`
		Fat      *float64 `json:"fat" validate:"required,gte=0"`
	}

	recipePayload struct {
		Title           *string                      `json:"title" validate:"required,min=1"`
		CookingTime     *float64                     `json:"cookingTime" validate:"required,gt=0"`
		Difficulty      *string                      `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
		Ingredients     []generatedIngredientPayload `json:"ingredients" validate:"required,min=1,dive"`
		Instructions    []string                     `json:"instructions" validate:"required,min=1"`
		NutritionalInfo *nutritionPayload            `json:"nutritionalInfo" validate:"required"`
	}

	recipeResponsePayload struct {
		DetectedIngredients []detectedIngredientPayload `json:"detectedIngredients" validate:"required,dive"`
		SuggestedRecipes    []recipePayload             `json:"suggestedRecipes" validate:"required,min=1,dive"`
	}
)

var schemaValidator = validator.New()

// ValidateInventory checks a raw vision-model payload against the six fixed
// category keys and returns the normalized inventory. Empty categories come
// back as empty slices, never nil.
func ValidateInventory(raw []byte) (*domain.IngredientInventory, error) {
	var payload inventoryPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid inventory JSON: %w", err)
	}

	if err := schemaValidator.Struct(payload); err != nil {
		return nil, fmt.Errorf("inventory schema violation: %w", err)
	}

	inventory := &domain.IngredientInventory{
		Dairy:      normalizeItems(*payload.Dairy),
		Meat:       normalizeItems(*payload.Meat),
		Beverages:  normalizeItems(*payload.Beverages),
		Produce:    normalizeItems(*payload.Produce),
		Condiments: normalizeItems(*payload.Condiments),
		Packaged:   normalizeItems(*payload.Packaged),
	}

	return inventory, nil
}

// ValidateRecipeResponse checks a raw recipe-model payload against the recipe
// contract. A single malformed recipe rejects the entire batch.
func ValidateRecipeResponse(raw []byte) (*domain.RecipeResponse, error) {
	var payload recipeResponsePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid recipe JSON: %w", err)
	}

	if err := schemaValidator.Struct(payload); err != nil {
		return nil, fmt.Errorf("recipe schema violation: %w", err)
	}

	response := &domain.RecipeResponse{
		DetectedIngredients: make([]domain.DetectedIngredient, 0, len(payload.DetectedIngredients)),
		SuggestedRecipes:    make([]domain.GeneratedRecipe, 0, len(payload.SuggestedRecipes)),
	}

	for _, ingredient := range payload.DetectedIngredients {
		detected := domain.DetectedIngredient{
			Name:     *ingredient.Name,
			Category: *ingredient.Category,
		}
		if ingredient.Quantity != nil {
			detected.Quantity = *ingredient.Quantity
		}
		response.DetectedIngredients = append(response.DetectedIngredients, detected)
	}

	for _, recipe := range payload.SuggestedRecipes {
		ingredients := make([]domain.GeneratedIngredient, 0, len(recipe.Ingredients))
		for _, ingredient := range recipe.Ingredients {
			ingredients = append(ingredients, domain.GeneratedIngredient{
				Item:   *ingredient.Item,
				Amount: *ingredient.Amount,
			})
		}

		// Minutes round up so a positive fractional value never truncates
		// to zero; nutrition rounds to nearest.
		response.SuggestedRecipes = append(response.SuggestedRecipes, domain.GeneratedRecipe{
			Title:        *recipe.Title,
			CookingTime:  int(math.Ceil(*recipe.CookingTime)),
			Difficulty:   *recipe.Difficulty,
			Ingredients:  ingredients,
			Instructions: recipe.Instructions,
			NutritionalInfo: domain.NutritionalInfo{
				Calories: int(math.Round(*recipe.NutritionalInfo.Calories)),
				Protein:  int(math.Round(*recipe.NutritionalInfo.Protein)),
				Carbs:    int(math.Round(*recipe.NutritionalInfo.Carbs)),
				Fat:      int(math.Round(*recipe.NutritionalInfo.Fat)),
			},
		})
	}

	return response, nil
}

func normalizeItems(items []string) []string {
	normalized := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(strings.ToLower(item))
		if item != "" {
			normalized = append(normalized, item)
		}
	}
	return normalized
}

// StripCodeFence removes leading/trailing markdown code fencing from a model
// response, with or without a json language tag.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
