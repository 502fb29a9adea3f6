package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes       = "success get recipes"
	MessageSuccessGetRecipeDetail  = "success get recipe detail"
	MessageSuccessGenerateRecipes  = "recipes generated successfully"
	MessageSuccessToggleFavorite   = "favorite toggled successfully"
	MessageSuccessGetFavorites     = "success get favorite recipes"
	MessageSuccessGenerateImage    = "recipe image generation started"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedGenerateRecipes = "failed to generate recipes"
	MessageFailedToggleFavorite  = "failed to toggle favorite"
	MessageFailedGetFavorites    = "failed to get favorite recipes"
	MessageFailedGenerateImage   = "failed to generate recipe image"

	ErrRecipeNotFound = errors.New("recipe not found")
)

const (
	ImageStatusPending   = "Pending"
	ImageStatusCompleted = "Completed"
	ImageStatusFailed    = "Failed"
)

type (
	RecipeDetail struct {
		ID           string                `json:"id"`
		ScanID       string                `json:"scan_id,omitempty"`
		Title        string                `json:"title"`
		CookingTime  int                   `json:"cooking_time"`
		Difficulty   string                `json:"difficulty"`
		Ingredients  []GeneratedIngredient `json:"ingredients"`
		Instructions []string              `json:"instructions"`
		Nutrition    NutritionalInfo       `json:"nutrition"`
		ImageURL     string                `json:"image_url,omitempty"`
		ImageStatus  string                `json:"image_status,omitempty"`
		IsFavorited  bool                  `json:"is_favorited"`
		CreatedAt    time.Time             `json:"created_at"`
	}

	RecipeSummary struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		CookingTime int       `json:"cooking_time"`
		Difficulty  string    `json:"difficulty"`
		Calories    int       `json:"calories"`
		ImageURL    string    `json:"image_url,omitempty"`
		IsFavorited bool      `json:"is_favorited"`
		CreatedAt   time.Time `json:"created_at"`
	}

	ToggleFavoriteRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
	}

	ToggleFavoriteResponse struct {
		IsFavorited bool `json:"is_favorited"`
	}

	GenerateRecipeImageRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
	}

	GenerateRecipeImageResponse struct {
		RecipeID    string `json:"recipe_id"`
		ImageStatus string `json:"image_status"`
	}
)
