package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessCreateScan      = "scan analyzed successfully"
	MessageSuccessGetScan         = "scan retrieved successfully"
	MessageSuccessGetScans        = "scans retrieved successfully"
	MessageFailedGetScans         = "failed to retrieve scans"
	MessageSuccessFridgeScan      = "fridge scan completed successfully"
	MessageNoIngredientsDetected  = "no ingredients detected, try again with a clearer photo"
	MessageFailedCreateScan       = "failed to analyze images"
	MessageFailedGetScan          = "failed to retrieve scan"
	MessageFailedFridgeScan       = "failed to process fridge scan"
	MessageFailedInvalidImage     = "invalid image upload"

	ErrScanNotFound      = errors.New("scan not found")
	ErrImageTooLarge     = errors.New("image exceeds the maximum size of 3MB")
	ErrInvalidImageType  = errors.New("uploaded file is not an image")
)

// GenerationFailedError reports a recipe-generation failure that happened
// after the scan was already persisted, carrying the scan ID so the caller
// can retry generation against the saved inventory.
type GenerationFailedError struct {
	ScanID string
	Err    error
}

func (e *GenerationFailedError) Error() string { return e.Err.Error() }

func (e *GenerationFailedError) Unwrap() error { return e.Err }

type (
	CreateScanRequest struct {
		Images []*multipart.FileHeader `form:"images" validate:"required,min=1,max=5"`
	}

	CreateScanResponse struct {
		ScanID      string              `json:"scan_id"`
		Ingredients IngredientInventory `json:"ingredients"`
		ImageURLs   []string            `json:"image_urls"`
	}

	ScanSummary struct {
		ScanID    string    `json:"scan_id"`
		ImageURLs []string  `json:"image_urls"`
		CreatedAt time.Time `json:"created_at"`
	}

	ScanDetailResponse struct {
		ScanID      string              `json:"scan_id"`
		Ingredients IngredientInventory `json:"ingredients"`
		ImageURLs   []string            `json:"image_urls"`
		CreatedAt   time.Time           `json:"created_at"`
	}

	FridgeScanResponse struct {
		ScanID      string              `json:"scan_id"`
		Ingredients IngredientInventory `json:"ingredients"`
		Recipes     []RecipeDetail      `json:"recipes"`
	}

	GenerateRecipesRequest struct {
		ScanID      string `json:"scan_id" validate:"omitempty,uuid"`
		Ingredients string `json:"ingredients" validate:"required"`
	}

	GenerateRecipesResponse struct {
		DetectedIngredients []DetectedIngredient `json:"detected_ingredients"`
		Recipes             []RecipeDetail       `json:"recipes"`
	}
)
