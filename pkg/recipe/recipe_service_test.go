package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rohald89/Hungie/domain"
	"github.com/rohald89/Hungie/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAIClient struct {
	imageBlob []byte
	imageErr  error
}

func (f *fakeAIClient) AnalyzeFridgeContents(ctx context.Context, images []string) (*domain.IngredientInventory, error) {
	return nil, nil
}

func (f *fakeAIClient) GenerateRecipes(ctx context.Context, ingredients string) (*domain.RecipeResponse, error) {
	return nil, nil
}

func (f *fakeAIClient) GenerateRecipeImage(ctx context.Context, title string) ([]byte, error) {
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return f.imageBlob, nil
}

type fakeRepo struct {
	mu        sync.Mutex
	recipes   map[string]*entities.Recipe
	favorites map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		recipes:   make(map[string]*entities.Recipe),
		favorites: make(map[string]bool),
	}
}

func (f *fakeRepo) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipes[recipe.ID.String()] = recipe
	return nil
}

func (f *fakeRepo) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return recipe, nil
}

func (f *fakeRepo) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipes[recipe.ID.String()] = recipe
	return nil
}

func (f *fakeRepo) GetRecipes(ctx context.Context, userID string, search string, page, limit int) ([]*entities.Recipe, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var recipes []*entities.Recipe
	for _, recipe := range f.recipes {
		if recipe.UserID.String() == userID {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, int64(len(recipes)), nil
}

func (f *fakeRepo) GetRecipesByScan(ctx context.Context, scanID string) ([]*entities.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var recipes []*entities.Recipe
	for _, recipe := range f.recipes {
		if recipe.ScanID != nil && recipe.ScanID.String() == scanID {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

func (f *fakeRepo) AddFavorite(ctx context.Context, userID, recipeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites[userID+"/"+recipeID] = true
	return nil
}

func (f *fakeRepo) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.favorites, userID+"/"+recipeID)
	return nil
}

func (f *fakeRepo) IsFavorited(ctx context.Context, userID, recipeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.favorites[userID+"/"+recipeID], nil
}

func (f *fakeRepo) GetFavoriteRecipes(ctx context.Context, userID string, page, limit int) ([]*entities.Recipe, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var recipes []*entities.Recipe
	for key, favorited := range f.favorites {
		if !favorited {
			continue
		}
		for _, recipe := range f.recipes {
			if key == userID+"/"+recipe.ID.String() {
				recipes = append(recipes, recipe)
			}
		}
	}
	return recipes, int64(len(recipes)), nil
}

func (f *fakeRepo) imageStatus(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	recipe, ok := f.recipes[id]
	if !ok {
		return ""
	}
	return recipe.ImageStatus
}

type fakeS3 struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{uploads: make(map[string][]byte)}
}

func (f *fakeS3) UploadBytes(fileName string, data []byte, contentType string, dir string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := dir + "/" + fileName
	f.uploads[key] = data
	return key, nil
}

func (f *fakeS3) DeleteFile(key string) error { return nil }

func (f *fakeS3) GetPublicLinkKey(key string) string {
	return "https://cdn.test/" + key
}

func seedRecipe(t *testing.T, repo *fakeRepo, userID uuid.UUID) *entities.Recipe {
	t.Helper()

	instructions, err := json.Marshal([]string{"Chop", "Fry", "Serve"})
	require.NoError(t, err)

	recipe := &entities.Recipe{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        "Veggie Stir Fry",
		CookingTime:  25,
		Difficulty:   domain.DifficultyMedium,
		Instructions: string(instructions),
		Calories:     420,
		Protein:      18,
		Carbs:        40,
		Fat:          14,
		Ingredients: []*entities.RecipeIngredient{
			{ID: uuid.New(), Item: "carrot", Amount: "2"},
		},
	}
	require.NoError(t, repo.CreateRecipe(context.Background(), recipe))
	return recipe
}

func TestGetRecipeDetail(t *testing.T) {
	repo := newFakeRepo()
	service := NewRecipeService(repo, &fakeAIClient{}, newFakeS3())
	owner := uuid.New()
	recipe := seedRecipe(t, repo, owner)

	detail, err := service.GetRecipeDetail(context.Background(), recipe.ID.String(), owner.String())
	require.NoError(t, err)

	assert.Equal(t, "Veggie Stir Fry", detail.Title)
	assert.Equal(t, []string{"Chop", "Fry", "Serve"}, detail.Instructions)
	assert.Equal(t, 18, detail.Nutrition.Protein)
	assert.False(t, detail.IsFavorited)

	// Foreign recipes are reported as missing.
	_, err = service.GetRecipeDetail(context.Background(), recipe.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestToggleFavorite(t *testing.T) {
	repo := newFakeRepo()
	service := NewRecipeService(repo, &fakeAIClient{}, newFakeS3())
	owner := uuid.New()
	recipe := seedRecipe(t, repo, owner)

	req := domain.ToggleFavoriteRequest{RecipeID: recipe.ID.String()}

	res, err := service.ToggleFavorite(context.Background(), req, owner.String())
	require.NoError(t, err)
	assert.True(t, res.IsFavorited)

	// Toggling again removes the favorite instead of duplicating it.
	res, err = service.ToggleFavorite(context.Background(), req, owner.String())
	require.NoError(t, err)
	assert.False(t, res.IsFavorited)

	_, err = service.ToggleFavorite(context.Background(), domain.ToggleFavoriteRequest{RecipeID: uuid.New().String()}, owner.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestGenerateRecipeImage(t *testing.T) {
	repo := newFakeRepo()
	s3 := newFakeS3()
	service := NewRecipeService(repo, &fakeAIClient{imageBlob: []byte{0x89, 0x50}}, s3)
	owner := uuid.New()
	recipe := seedRecipe(t, repo, owner)

	res, err := service.GenerateRecipeImage(context.Background(), recipe.ID.String(), owner.String())
	require.NoError(t, err)
	assert.Equal(t, domain.ImageStatusPending, res.ImageStatus)

	assert.Eventually(t, func() bool {
		return repo.imageStatus(recipe.ID.String()) == domain.ImageStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	updated, err := repo.GetRecipeByID(context.Background(), recipe.ID.String())
	require.NoError(t, err)
	assert.Contains(t, updated.ImageURL, "recipes/recipe-"+recipe.ID.String())
}

func TestGenerateRecipeImageFailure(t *testing.T) {
	repo := newFakeRepo()
	service := NewRecipeService(repo, &fakeAIClient{imageErr: errors.New("model unavailable")}, newFakeS3())
	owner := uuid.New()
	recipe := seedRecipe(t, repo, owner)

	res, err := service.GenerateRecipeImage(context.Background(), recipe.ID.String(), owner.String())
	require.NoError(t, err)
	assert.Equal(t, domain.ImageStatusPending, res.ImageStatus)

	assert.Eventually(t, func() bool {
		return repo.imageStatus(recipe.ID.String()) == domain.ImageStatusFailed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGenerateRecipeImageOwnership(t *testing.T) {
	repo := newFakeRepo()
	service := NewRecipeService(repo, &fakeAIClient{}, newFakeS3())
	recipe := seedRecipe(t, repo, uuid.New())

	_, err := service.GenerateRecipeImage(context.Background(), recipe.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}
