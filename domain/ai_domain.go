package domain

import (
	"errors"
)

// NoIngredientsSentinel is the literal value the vision model is instructed to
// return when no food items are discernible in any of the supplied images.
const NoIngredientsSentinel = "NO_INGREDIENTS_FOUND"

const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// InventoryCategories is the fixed category order used for flattening and for
// building the inventory from a validated vision response.
var InventoryCategories = []string{"dairy", "meat", "beverages", "produce", "condiments", "packaged"}

var (
	ErrInvalidImageCount      = errors.New("between one and five images are required")
	ErrInvalidImagePayload    = errors.New("image must be a base64 data URI with an image mime type")
	ErrEmptyIngredients       = errors.New("ingredient description must not be empty")
	ErrNoIngredientsDetected  = errors.New("no ingredients detected in the supplied images")
	ErrAnalysisFailed         = errors.New("failed to analyze images")
	ErrRecipeGenerationFailed = errors.New("failed to generate recipes")
)

type (
	// IngredientInventory always carries all six category keys. Empty
	// categories are empty slices, never nil.
	IngredientInventory struct {
		Dairy      []string `json:"dairy"`
		Meat       []string `json:"meat"`
		Beverages  []string `json:"beverages"`
		Produce    []string `json:"produce"`
		Condiments []string `json:"condiments"`
		Packaged   []string `json:"packaged"`
	}

	DetectedIngredient struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Quantity string `json:"quantity,omitempty"`
	}

	GeneratedIngredient struct {
		Item   string `json:"item"`
		Amount string `json:"amount"`
	}

	NutritionalInfo struct {
		Calories int `json:"calories"`
		Protein  int `json:"protein"`
		Carbs    int `json:"carbs"`
		Fat      int `json:"fat"`
	}

	GeneratedRecipe struct {
		Title           string                `json:"title"`
		CookingTime     int                   `json:"cookingTime"` // minutes
		Difficulty      string                `json:"difficulty"`
		Ingredients     []GeneratedIngredient `json:"ingredients"`
		Instructions    []string              `json:"instructions"`
		NutritionalInfo NutritionalInfo       `json:"nutritionalInfo"`
	}

	RecipeResponse struct {
		DetectedIngredients []DetectedIngredient `json:"detectedIngredients"`
		SuggestedRecipes    []GeneratedRecipe    `json:"suggestedRecipes"`
	}
)

// Items returns the category's item list by name, in the order defined by
// InventoryCategories.
func (inv *IngredientInventory) Items(category string) []string {
	switch category {
	case "dairy":
		return inv.Dairy
	case "meat":
		return inv.Meat
	case "beverages":
		return inv.Beverages
	case "produce":
		return inv.Produce
	case "condiments":
		return inv.Condiments
	case "packaged":
		return inv.Packaged
	default:
		return nil
	}
}
