package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rohald89/Hungie/domain"

	"github.com/gofiber/fiber/v2/log"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultVisionModel = "gpt-4o"
	defaultRecipeModel = "gpt-4o-mini"
	defaultImageModel  = "dall-e-3"

	maxScanImages = 5

	visionSystemPrompt = `You are a kitchen assistant that identifies ingredients in a fridge or pantry. ` +
		`Categorize every clearly visible food item into exactly these six categories: dairy, meat, beverages, produce, condiments, packaged. ` +
		`Ensure each category contains 2-3 items, making educated guesses based on partially visible items or common pairings when a category appears empty. ` +
		`Respond with a JSON object containing exactly the six category keys, each mapping to an array of lowercase item name strings. ` +
		`Do not include any explanations, markdown formatting, or extra text. ` +
		`If no food items are discernible in any image, respond with exactly: NO_INGREDIENTS_FOUND`

	visionUserPrompt = "What ingredients can you identify in this image? Group them by category."

	recipeSystemPrompt = `You are a creative chef. Generate exactly 3 diverse recipes using the provided ingredients.
Focus on recipes that use mostly the available ingredients, but you can suggest a few additional ingredients if needed.
Format your response as a JSON object matching this structure:
{
	"detectedIngredients": [
		{ "name": string, "category": string, "quantity": string }
	],
	"suggestedRecipes": [
		{
			"title": string,
			"cookingTime": number (minutes),
			"difficulty": "EASY" | "MEDIUM" | "HARD",
			"ingredients": [
				{ "item": string, "amount": string }
			],
			"instructions": string[],
			"nutritionalInfo": {
				"calories": number,
				"protein": number,
				"carbs": number,
				"fat": number
			}
		}
	]
}
Do not number the instruction steps. Do not include any text outside of the JSON object.`
)

type (
	// Client is the outbound contract for both phases of the scan pipeline.
	// One instance is constructed at startup and shared by the services.
	Client interface {
		AnalyzeFridgeContents(ctx context.Context, images []string) (*domain.IngredientInventory, error)
		GenerateRecipes(ctx context.Context, ingredients string) (*domain.RecipeResponse, error)
		GenerateRecipeImage(ctx context.Context, title string) ([]byte, error)
	}

	ClientConfig struct {
		APIKey      string
		BaseURL     string
		VisionModel string
		RecipeModel string
		ImageModel  string
	}

	openAIClient struct {
		apiKey      string
		baseURL     string
		visionModel string
		recipeModel string
		imageModel  string
		httpClient  *http.Client
	}
)

func NewOpenAIClient(cfg ClientConfig) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = defaultVisionModel
	}
	if cfg.RecipeModel == "" {
		cfg.RecipeModel = defaultRecipeModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}

	return &openAIClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		visionModel: cfg.VisionModel,
		recipeModel: cfg.RecipeModel,
		imageModel:  cfg.ImageModel,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *openAIClient) AnalyzeFridgeContents(ctx context.Context, images []string) (*domain.IngredientInventory, error) {
	if len(images) == 0 || len(images) > maxScanImages {
		return nil, domain.ErrInvalidImageCount
	}

	for _, image := range images {
		if !strings.HasPrefix(image, "data:image/") || !strings.Contains(image, ";base64,") {
			return nil, domain.ErrInvalidImagePayload
		}
	}

	messages := []map[string]interface{}{
		{
			"role":    "system",
			"content": visionSystemPrompt,
		},
	}

	for _, image := range images {
		messages = append(messages, map[string]interface{}{
			"role": "user",
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": visionUserPrompt,
				},
				{
					"type": "image_url",
					"image_url": map[string]interface{}{
						"url": image,
					},
				},
			},
		})
	}

	requestBody := map[string]interface{}{
		"model":      c.visionModel,
		"messages":   messages,
		"max_tokens": 500,
	}

	content, err := c.chatCompletion(ctx, requestBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}

	content = StripCodeFence(content)
	if strings.Trim(content, `"`) == domain.NoIngredientsSentinel {
		log.Info("vision model found no ingredients in scan images")
		return nil, domain.ErrNoIngredientsDetected
	}

	inventory, err := ValidateInventory([]byte(content))
	if err != nil {
		log.Errorf("vision response failed validation: %v, raw: %s", err, truncate(content, 200))
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}

	return inventory, nil
}

func (c *openAIClient) GenerateRecipes(ctx context.Context, ingredients string) (*domain.RecipeResponse, error) {
	if strings.TrimSpace(ingredients) == "" {
		return nil, domain.ErrEmptyIngredients
	}

	requestBody := map[string]interface{}{
		"model": c.recipeModel,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": recipeSystemPrompt,
			},
			{
				"role":    "user",
				"content": fmt.Sprintf("Generate recipes using these ingredients: %s", ingredients),
			},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	content, err := c.chatCompletion(ctx, requestBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecipeGenerationFailed, err)
	}

	response, err := ValidateRecipeResponse([]byte(StripCodeFence(content)))
	if err != nil {
		log.Errorf("recipe response failed validation: %v, raw: %s", err, truncate(content, 200))
		return nil, fmt.Errorf("%w: %v", domain.ErrRecipeGenerationFailed, err)
	}

	return response, nil
}

func (c *openAIClient) GenerateRecipeImage(ctx context.Context, title string) ([]byte, error) {
	requestBody := map[string]interface{}{
		"model":           c.imageModel,
		"prompt":          fmt.Sprintf("A professional food photography style image of %s. The image should be well-lit, appetizing, and styled like a cookbook photo.", title),
		"size":            "1024x1024",
		"quality":         "standard",
		"n":               1,
		"response_format": "b64_json",
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/images/generations", bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("image API error: %s - %s", resp.Status, truncate(string(bodyBytes), 200))
	}

	var imageResp struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&imageResp); err != nil {
		return nil, err
	}

	if len(imageResp.Data) == 0 || imageResp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("image API returned no image data")
	}

	return base64.StdEncoding.DecodeString(imageResp.Data[0].B64JSON)
}

func (c *openAIClient) chatCompletion(ctx context.Context, requestBody map[string]interface{}) (string, error) {
	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion API error: %s - %s", resp.Status, truncate(string(bodyBytes), 200))
	}

	var completionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&completionResp); err != nil {
		return "", err
	}

	if len(completionResp.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}

	return completionResp.Choices[0].Message.Content, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
