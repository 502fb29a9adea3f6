package scan

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rohald89/Hungie/domain"
	"github.com/rohald89/Hungie/entities"
	"github.com/rohald89/Hungie/internal/utils/storage"
	"github.com/rohald89/Hungie/pkg/ai"
	"github.com/rohald89/Hungie/pkg/recipe"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxImageSize = 1024 * 1024 * 3 // 3MB

type (
	ScanService interface {
		CreateScan(ctx context.Context, req domain.CreateScanRequest, userID string) (domain.CreateScanResponse, error)
		GetScanDetail(ctx context.Context, scanID string, userID string) (domain.ScanDetailResponse, error)
		GetScans(ctx context.Context, userID string, page, limit int) ([]domain.ScanSummary, int64, error)
		GenerateRecipes(ctx context.Context, req domain.GenerateRecipesRequest, userID string) (domain.GenerateRecipesResponse, error)
		AnalyzeAndGenerate(ctx context.Context, req domain.CreateScanRequest, userID string) (domain.FridgeScanResponse, error)
	}

	scanService struct {
		scanRepository   ScanRepository
		recipeRepository recipe.RecipeRepository
		aiClient         ai.Client
		s3               storage.AwsS3
	}

	scanImage struct {
		dataURI     string
		contentType string
		blob        []byte
	}
)

func NewScanService(scanRepository ScanRepository, recipeRepository recipe.RecipeRepository, aiClient ai.Client, s3 storage.AwsS3) ScanService {
	return &scanService{
		scanRepository:   scanRepository,
		recipeRepository: recipeRepository,
		aiClient:         aiClient,
		s3:               s3,
	}
}

// CreateScan runs the analyze-only phase: images go to the vision model, and
// on success the scan is persisted with its inventory for user review.
func (s *scanService) CreateScan(ctx context.Context, req domain.CreateScanRequest, userID string) (domain.CreateScanResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateScanResponse{}, domain.ErrParseUUID
	}

	images, err := s.encodeImages(req.Images)
	if err != nil {
		return domain.CreateScanResponse{}, err
	}

	inventory, err := s.aiClient.AnalyzeFridgeContents(ctx, dataURIs(images))
	if err != nil {
		return domain.CreateScanResponse{}, err
	}

	scan, imageURLs, err := s.persistScan(ctx, userUUID, inventory, images)
	if err != nil {
		return domain.CreateScanResponse{}, err
	}

	return domain.CreateScanResponse{
		ScanID:      scan.ID.String(),
		Ingredients: *inventory,
		ImageURLs:   imageURLs,
	}, nil
}

func (s *scanService) GetScanDetail(ctx context.Context, scanID string, userID string) (domain.ScanDetailResponse, error) {
	scan, err := s.scanRepository.GetScanByID(ctx, scanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ScanDetailResponse{}, domain.ErrScanNotFound
		}
		return domain.ScanDetailResponse{}, err
	}

	// Ownership-scoped lookup: another user's scan is indistinguishable from
	// a missing one.
	if scan.UserID.String() != userID {
		return domain.ScanDetailResponse{}, domain.ErrScanNotFound
	}

	var inventory domain.IngredientInventory
	if err := json.Unmarshal([]byte(scan.Ingredients), &inventory); err != nil {
		return domain.ScanDetailResponse{}, err
	}

	imageURLs := make([]string, 0, len(scan.Images))
	for _, image := range scan.Images {
		imageURLs = append(imageURLs, image.ImageURL)
	}

	return domain.ScanDetailResponse{
		ScanID:      scan.ID.String(),
		Ingredients: inventory,
		ImageURLs:   imageURLs,
		CreatedAt:   scan.CreatedAt,
	}, nil
}

func (s *scanService) GetScans(ctx context.Context, userID string, page, limit int) ([]domain.ScanSummary, int64, error) {
	scans, count, err := s.scanRepository.GetScans(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]domain.ScanSummary, 0, len(scans))
	for _, scan := range scans {
		imageURLs := make([]string, 0, len(scan.Images))
		for _, image := range scan.Images {
			imageURLs = append(imageURLs, image.ImageURL)
		}
		summaries = append(summaries, domain.ScanSummary{
			ScanID:    scan.ID.String(),
			ImageURLs: imageURLs,
			CreatedAt: scan.CreatedAt,
		})
	}

	return summaries, count, nil
}

// GenerateRecipes runs the second phase against a flattened ingredient
// description. When a scan ID is supplied, the generated recipes are linked
// back to that scan.
func (s *scanService) GenerateRecipes(ctx context.Context, req domain.GenerateRecipesRequest, userID string) (domain.GenerateRecipesResponse, error) {
	if strings.TrimSpace(req.Ingredients) == "" {
		return domain.GenerateRecipesResponse{}, domain.ErrEmptyIngredients
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.GenerateRecipesResponse{}, domain.ErrParseUUID
	}

	var scanID *uuid.UUID
	if req.ScanID != "" {
		scan, err := s.scanRepository.GetScanByID(ctx, req.ScanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.GenerateRecipesResponse{}, domain.ErrScanNotFound
			}
			return domain.GenerateRecipesResponse{}, err
		}
		if scan.UserID.String() != userID {
			return domain.GenerateRecipesResponse{}, domain.ErrScanNotFound
		}
		scanID = &scan.ID
	}

	response, err := s.aiClient.GenerateRecipes(ctx, req.Ingredients)
	if err != nil {
		return domain.GenerateRecipesResponse{}, err
	}

	recipes, err := s.persistRecipes(ctx, response, userUUID, scanID)
	if err != nil {
		return domain.GenerateRecipesResponse{}, err
	}

	return domain.GenerateRecipesResponse{
		DetectedIngredients: response.DetectedIngredients,
		Recipes:             recipes,
	}, nil
}

// AnalyzeAndGenerate chains both phases in one request. Analysis always
// completes before generation starts; the scan is persisted as soon as
// analysis succeeds so a generation failure leaves the inventory available
// for a retry.
func (s *scanService) AnalyzeAndGenerate(ctx context.Context, req domain.CreateScanRequest, userID string) (domain.FridgeScanResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.FridgeScanResponse{}, domain.ErrParseUUID
	}

	images, err := s.encodeImages(req.Images)
	if err != nil {
		return domain.FridgeScanResponse{}, err
	}

	inventory, err := s.aiClient.AnalyzeFridgeContents(ctx, dataURIs(images))
	if err != nil {
		return domain.FridgeScanResponse{}, err
	}

	scan, _, err := s.persistScan(ctx, userUUID, inventory, images)
	if err != nil {
		return domain.FridgeScanResponse{}, err
	}

	response, err := s.aiClient.GenerateRecipes(ctx, FlattenInventory(inventory))
	if err != nil {
		return domain.FridgeScanResponse{}, &domain.GenerationFailedError{ScanID: scan.ID.String(), Err: err}
	}

	recipes, err := s.persistRecipes(ctx, response, userUUID, &scan.ID)
	if err != nil {
		return domain.FridgeScanResponse{}, &domain.GenerationFailedError{ScanID: scan.ID.String(), Err: err}
	}

	return domain.FridgeScanResponse{
		ScanID:      scan.ID.String(),
		Ingredients: *inventory,
		Recipes:     recipes,
	}, nil
}

// FlattenInventory renders an inventory as the textual form the recipe model
// expects: "dairy: milk, cheese; meat: chicken". Categories keep a fixed
// order; empty categories are skipped.
func FlattenInventory(inventory *domain.IngredientInventory) string {
	var parts []string
	for _, category := range domain.InventoryCategories {
		items := inventory.Items(category)
		if len(items) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", category, strings.Join(items, ", ")))
	}
	return strings.Join(parts, "; ")
}

func (s *scanService) encodeImages(files []*multipart.FileHeader) ([]scanImage, error) {
	if len(files) == 0 || len(files) > 5 {
		return nil, domain.ErrInvalidImageCount
	}

	images := make([]scanImage, 0, len(files))
	for _, fileHeader := range files {
		if fileHeader.Size > maxImageSize {
			return nil, domain.ErrImageTooLarge
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		if mimeType == "" {
			switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
			case ".png":
				mimeType = "image/png"
			case ".gif":
				mimeType = "image/gif"
			case ".webp":
				mimeType = "image/webp"
			default:
				mimeType = "image/jpeg"
			}
		}
		if !strings.HasPrefix(mimeType, "image/") {
			return nil, domain.ErrInvalidImageType
		}

		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}

		blob, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, err
		}

		images = append(images, scanImage{
			dataURI:     fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(blob)),
			contentType: mimeType,
			blob:        blob,
		})
	}

	return images, nil
}

func (s *scanService) persistScan(ctx context.Context, userID uuid.UUID, inventory *domain.IngredientInventory, images []scanImage) (*entities.Scan, []string, error) {
	inventoryJSON, err := json.Marshal(inventory)
	if err != nil {
		return nil, nil, err
	}

	scanID := uuid.New()
	scan := &entities.Scan{
		ID:          scanID,
		UserID:      userID,
		Ingredients: string(inventoryJSON),
	}

	var uploadedKeys []string
	var imageURLs []string
	for i, image := range images {
		fileName := fmt.Sprintf("scan-%s-%d", scanID.String(), i)
		objectKey, err := s.s3.UploadBytes(fileName, image.blob, image.contentType, "scans")
		if err != nil {
			s.cleanupUploads(uploadedKeys)
			return nil, nil, err
		}
		uploadedKeys = append(uploadedKeys, objectKey)

		imageURL := s.s3.GetPublicLinkKey(objectKey)
		imageURLs = append(imageURLs, imageURL)
		scan.Images = append(scan.Images, &entities.ScanImage{
			ID:          uuid.New(),
			ScanID:      scanID,
			ContentType: image.contentType,
			ImageURL:    imageURL,
		})
	}

	if err := s.scanRepository.CreateScan(ctx, scan); err != nil {
		s.cleanupUploads(uploadedKeys)
		return nil, nil, err
	}

	return scan, imageURLs, nil
}

func (s *scanService) cleanupUploads(objectKeys []string) {
	for _, key := range objectKeys {
		_ = s.s3.DeleteFile(key)
	}
}

func (s *scanService) persistRecipes(ctx context.Context, response *domain.RecipeResponse, userID uuid.UUID, scanID *uuid.UUID) ([]domain.RecipeDetail, error) {
	recipes := make([]domain.RecipeDetail, 0, len(response.SuggestedRecipes))

	for _, generated := range response.SuggestedRecipes {
		instructionsJSON, err := json.Marshal(generated.Instructions)
		if err != nil {
			return nil, err
		}

		recipeID := uuid.New()
		entity := &entities.Recipe{
			ID:           recipeID,
			UserID:       userID,
			ScanID:       scanID,
			Title:        generated.Title,
			CookingTime:  generated.CookingTime,
			Difficulty:   generated.Difficulty,
			Instructions: string(instructionsJSON),
			Calories:     generated.NutritionalInfo.Calories,
			Protein:      generated.NutritionalInfo.Protein,
			Carbs:        generated.NutritionalInfo.Carbs,
			Fat:          generated.NutritionalInfo.Fat,
		}

		for _, ingredient := range generated.Ingredients {
			entity.Ingredients = append(entity.Ingredients, &entities.RecipeIngredient{
				ID:       uuid.New(),
				RecipeID: recipeID,
				Item:     ingredient.Item,
				Amount:   ingredient.Amount,
			})
		}

		if err := s.recipeRepository.CreateRecipe(ctx, entity); err != nil {
			return nil, err
		}

		detail := domain.RecipeDetail{
			ID:           recipeID.String(),
			Title:        generated.Title,
			CookingTime:  generated.CookingTime,
			Difficulty:   generated.Difficulty,
			Ingredients:  generated.Ingredients,
			Instructions: generated.Instructions,
			Nutrition:    generated.NutritionalInfo,
			CreatedAt:    entity.CreatedAt,
		}
		if scanID != nil {
			detail.ScanID = scanID.String()
		}
		recipes = append(recipes, detail)
	}

	return recipes, nil
}

func dataURIs(images []scanImage) []string {
	uris := make([]string, 0, len(images))
	for _, image := range images {
		uris = append(uris, image.dataURI)
	}
	return uris
}
