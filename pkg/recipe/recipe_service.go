package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rohald89/Hungie/domain"
	"github.com/rohald89/Hungie/entities"
	"github.com/rohald89/Hungie/internal/utils/storage"
	"github.com/rohald89/Hungie/pkg/ai"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		GetRecipeDetail(ctx context.Context, recipeID string, userID string) (domain.RecipeDetail, error)
		GetRecipes(ctx context.Context, userID string, search string, page, limit int) ([]domain.RecipeSummary, int64, error)
		GetScanRecipes(ctx context.Context, scanID string, userID string) ([]domain.RecipeSummary, error)
		ToggleFavorite(ctx context.Context, req domain.ToggleFavoriteRequest, userID string) (domain.ToggleFavoriteResponse, error)
		GetFavoriteRecipes(ctx context.Context, page, limit int, userID string) ([]domain.RecipeSummary, int64, error)
		GenerateRecipeImage(ctx context.Context, recipeID string, userID string) (domain.GenerateRecipeImageResponse, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		aiClient         ai.Client
		s3               storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, aiClient ai.Client, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		aiClient:         aiClient,
		s3:               s3,
	}
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, userID string) (domain.RecipeDetail, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeDetail{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeDetail{}, err
	}

	if recipe.UserID.String() != userID {
		return domain.RecipeDetail{}, domain.ErrRecipeNotFound
	}

	isFavorited, err := s.recipeRepository.IsFavorited(ctx, userID, recipeID)
	if err != nil {
		isFavorited = false
	}

	var instructions []string
	if err := json.Unmarshal([]byte(recipe.Instructions), &instructions); err != nil {
		instructions = []string{}
	}

	ingredients := make([]domain.GeneratedIngredient, 0, len(recipe.Ingredients))
	for _, ingredient := range recipe.Ingredients {
		ingredients = append(ingredients, domain.GeneratedIngredient{
			Item:   ingredient.Item,
			Amount: ingredient.Amount,
		})
	}

	detail := domain.RecipeDetail{
		ID:           recipe.ID.String(),
		Title:        recipe.Title,
		CookingTime:  recipe.CookingTime,
		Difficulty:   recipe.Difficulty,
		Ingredients:  ingredients,
		Instructions: instructions,
		Nutrition: domain.NutritionalInfo{
			Calories: recipe.Calories,
			Protein:  recipe.Protein,
			Carbs:    recipe.Carbs,
			Fat:      recipe.Fat,
		},
		ImageURL:    recipe.ImageURL,
		ImageStatus: recipe.ImageStatus,
		IsFavorited: isFavorited,
		CreatedAt:   recipe.CreatedAt,
	}
	if recipe.ScanID != nil {
		detail.ScanID = recipe.ScanID.String()
	}

	return detail, nil
}

func (s *recipeService) GetRecipes(ctx context.Context, userID string, search string, page, limit int) ([]domain.RecipeSummary, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, userID, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	return s.toSummaries(ctx, recipes, userID), count, nil
}

func (s *recipeService) GetScanRecipes(ctx context.Context, scanID string, userID string) ([]domain.RecipeSummary, error) {
	recipes, err := s.recipeRepository.GetRecipesByScan(ctx, scanID)
	if err != nil {
		return nil, err
	}

	// Recipes under a scan all share the scan owner; an empty result for a
	// foreign scan falls out naturally from the user scoping below.
	owned := make([]*entities.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if recipe.UserID.String() == userID {
			owned = append(owned, recipe)
		}
	}

	return s.toSummaries(ctx, owned, userID), nil
}

func (s *recipeService) ToggleFavorite(ctx context.Context, req domain.ToggleFavoriteRequest, userID string) (domain.ToggleFavoriteResponse, error) {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, req.RecipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ToggleFavoriteResponse{}, domain.ErrRecipeNotFound
		}
		return domain.ToggleFavoriteResponse{}, err
	}

	isFavorited, err := s.recipeRepository.IsFavorited(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.ToggleFavoriteResponse{}, err
	}

	if isFavorited {
		if err := s.recipeRepository.RemoveFavorite(ctx, userID, req.RecipeID); err != nil {
			return domain.ToggleFavoriteResponse{}, err
		}
		return domain.ToggleFavoriteResponse{IsFavorited: false}, nil
	}

	if err := s.recipeRepository.AddFavorite(ctx, userID, req.RecipeID); err != nil {
		return domain.ToggleFavoriteResponse{}, err
	}
	return domain.ToggleFavoriteResponse{IsFavorited: true}, nil
}

func (s *recipeService) GetFavoriteRecipes(ctx context.Context, page, limit int, userID string) ([]domain.RecipeSummary, int64, error) {
	recipes, count, err := s.recipeRepository.GetFavoriteRecipes(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, domain.RecipeSummary{
			ID:          recipe.ID.String(),
			Title:       recipe.Title,
			CookingTime: recipe.CookingTime,
			Difficulty:  recipe.Difficulty,
			Calories:    recipe.Calories,
			ImageURL:    recipe.ImageURL,
			IsFavorited: true,
			CreatedAt:   recipe.CreatedAt,
		})
	}

	return summaries, count, nil
}

// GenerateRecipeImage kicks off image generation in the background. The
// recipe is immediately marked Pending; the goroutine updates it to
// Completed or Failed when the external call settles. Image generation never
// blocks or fails the recipe itself.
func (s *recipeService) GenerateRecipeImage(ctx context.Context, recipeID string, userID string) (domain.GenerateRecipeImageResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.GenerateRecipeImageResponse{}, domain.ErrRecipeNotFound
		}
		return domain.GenerateRecipeImageResponse{}, err
	}

	if recipe.UserID.String() != userID {
		return domain.GenerateRecipeImageResponse{}, domain.ErrRecipeNotFound
	}

	recipe.ImageStatus = domain.ImageStatusPending
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.GenerateRecipeImageResponse{}, err
	}

	go func() {
		background := context.Background()

		blob, err := s.aiClient.GenerateRecipeImage(background, recipe.Title)
		if err != nil {
			log.Errorf("recipe image generation failed for %s: %v", recipe.ID, err)
			recipe.ImageStatus = domain.ImageStatusFailed
			_ = s.recipeRepository.UpdateRecipe(background, recipe)
			return
		}

		fileName := fmt.Sprintf("recipe-%s", recipe.ID.String())
		objectKey, err := s.s3.UploadBytes(fileName, blob, "image/png", "recipes")
		if err != nil {
			log.Errorf("recipe image upload failed for %s: %v", recipe.ID, err)
			recipe.ImageStatus = domain.ImageStatusFailed
			_ = s.recipeRepository.UpdateRecipe(background, recipe)
			return
		}

		recipe.ImageURL = s.s3.GetPublicLinkKey(objectKey)
		recipe.ImageStatus = domain.ImageStatusCompleted
		if err := s.recipeRepository.UpdateRecipe(background, recipe); err != nil {
			log.Errorf("failed to update recipe %s after image generation: %v", recipe.ID, err)
		}
	}()

	return domain.GenerateRecipeImageResponse{
		RecipeID:    recipe.ID.String(),
		ImageStatus: domain.ImageStatusPending,
	}, nil
}

func (s *recipeService) toSummaries(ctx context.Context, recipes []*entities.Recipe, userID string) []domain.RecipeSummary {
	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		isFavorited, err := s.recipeRepository.IsFavorited(ctx, userID, recipe.ID.String())
		if err != nil {
			isFavorited = false
		}

		summaries = append(summaries, domain.RecipeSummary{
			ID:          recipe.ID.String(),
			Title:       recipe.Title,
			CookingTime: recipe.CookingTime,
			Difficulty:  recipe.Difficulty,
			Calories:    recipe.Calories,
			ImageURL:    recipe.ImageURL,
			IsFavorited: isFavorited,
			CreatedAt:   recipe.CreatedAt,
		})
	}
	return summaries
}
