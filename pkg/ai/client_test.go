package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rohald89/Hungie/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventoryJSON = `{
	"dairy": ["milk", "cheese"],
	"meat": ["chicken"],
	"beverages": ["juice"],
	"produce": ["carrot", "apple"],
	"condiments": ["ketchup"],
	"packaged": ["bread"]
}`

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func newTestClient(handler http.Handler) (Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewOpenAIClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	return client, server
}

func dataURI(payload string) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestAnalyzeFridgeContents(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse(inventoryJSON))
	}))
	defer server.Close()

	inventory, err := client.AnalyzeFridgeContents(context.Background(), []string{dataURI("photo")})
	require.NoError(t, err)

	assert.Equal(t, []string{"milk", "cheese"}, inventory.Dairy)
	assert.Equal(t, []string{"bread"}, inventory.Packaged)
}

func TestAnalyzeFridgeContentsFencedAndUnfencedAgree(t *testing.T) {
	var fenced atomic.Bool
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fenced.Load() {
			fmt.Fprint(w, chatResponse("```json\n"+inventoryJSON+"\n```"))
			return
		}
		fmt.Fprint(w, chatResponse(inventoryJSON))
	}))
	defer server.Close()

	plain, err := client.AnalyzeFridgeContents(context.Background(), []string{dataURI("photo")})
	require.NoError(t, err)

	fenced.Store(true)
	wrapped, err := client.AnalyzeFridgeContents(context.Background(), []string{dataURI("photo")})
	require.NoError(t, err)

	assert.Equal(t, plain, wrapped)
}

func TestAnalyzeFridgeContentsSentinel(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse("NO_INGREDIENTS_FOUND"))
	}))
	defer server.Close()

	_, err := client.AnalyzeFridgeContents(context.Background(), []string{dataURI("photo")})
	assert.ErrorIs(t, err, domain.ErrNoIngredientsDetected)
}

func TestAnalyzeFridgeContentsImageCount(t *testing.T) {
	var calls atomic.Int32
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, chatResponse(inventoryJSON))
	}))
	defer server.Close()

	_, err := client.AnalyzeFridgeContents(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidImageCount)

	six := make([]string, 6)
	for i := range six {
		six[i] = dataURI("photo")
	}
	_, err = client.AnalyzeFridgeContents(context.Background(), six)
	assert.ErrorIs(t, err, domain.ErrInvalidImageCount)

	// Count violations are rejected before any request is made.
	assert.Equal(t, int32(0), calls.Load())
}

func TestAnalyzeFridgeContentsRejectsNonDataURI(t *testing.T) {
	var calls atomic.Int32
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := client.AnalyzeFridgeContents(context.Background(), []string{"https://example.com/fridge.jpg"})
	assert.ErrorIs(t, err, domain.ErrInvalidImagePayload)
	assert.Equal(t, int32(0), calls.Load())
}

func TestAnalyzeFridgeContentsRequestShape(t *testing.T) {
	var captured map[string]any
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, chatResponse(inventoryJSON))
	}))
	defer server.Close()

	images := []string{dataURI("one"), dataURI("two"), dataURI("three")}
	_, err := client.AnalyzeFridgeContents(context.Background(), images)
	require.NoError(t, err)

	messages := captured["messages"].([]any)
	// One system message plus one user message per image.
	require.Len(t, messages, 4)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	for _, message := range messages[1:] {
		assert.Equal(t, "user", message.(map[string]any)["role"])
	}
}

func TestAnalyzeFridgeContentsMalformedInventory(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse(`{"dairy": ["milk"]}`))
	}))
	defer server.Close()

	_, err := client.AnalyzeFridgeContents(context.Background(), []string{dataURI("photo")})
	assert.ErrorIs(t, err, domain.ErrAnalysisFailed)
}

func TestGenerateRecipes(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse(validRecipeJSON()))
	}))
	defer server.Close()

	response, err := client.GenerateRecipes(context.Background(), "dairy: milk; meat: chicken")
	require.NoError(t, err)
	require.Len(t, response.SuggestedRecipes, 1)
	assert.Equal(t, "Chicken Soup", response.SuggestedRecipes[0].Title)
}

func TestGenerateRecipesEmptyIngredients(t *testing.T) {
	var calls atomic.Int32
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := client.GenerateRecipes(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyIngredients)
	assert.Equal(t, int32(0), calls.Load())
}

func TestGenerateRecipesMalformedBatchRejected(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse(`{"detectedIngredients": [], "suggestedRecipes": [{"title": "Broken"}]}`))
	}))
	defer server.Close()

	_, err := client.GenerateRecipes(context.Background(), "milk")
	assert.ErrorIs(t, err, domain.ErrRecipeGenerationFailed)
}

func TestGenerateRecipesUpstreamError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := client.GenerateRecipes(context.Background(), "milk")
	assert.ErrorIs(t, err, domain.ErrRecipeGenerationFailed)
}

func TestGenerateRecipeImage(t *testing.T) {
	image := []byte{0x89, 0x50, 0x4e, 0x47}
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		body, _ := json.Marshal(map[string]any{
			"data": []map[string]any{
				{"b64_json": base64.StdEncoding.EncodeToString(image)},
			},
		})
		w.Write(body)
	}))
	defer server.Close()

	blob, err := client.GenerateRecipeImage(context.Background(), "Chicken Soup")
	require.NoError(t, err)
	assert.Equal(t, image, blob)
}
