package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "text-embedding-004", config.GetModel(TierStandard))
	assert.Equal(t, "embedding-001", config.GetModel(TierLegacy))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLegacy: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLegacy
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierStandard))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierStandard, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "text-embedding-004", config.GetModel(TierStandard))

	assert.Equal(t, "custom-model", newConfig.GetModel(TierStandard))
	assert.Equal(t, "embedding-001", newConfig.GetModel(TierLegacy))
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("gemini"), ProviderGemini)
	assert.Equal(t, Provider("hashing"), ProviderHashing)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), DefaultConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewClient_HashingHasNoRemoteClient(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: ProviderHashing}, "key")
	assert.Error(t, err)
}

func TestExtractVectorsFromResponse(t *testing.T) {
	resp := &genai.BatchEmbedContentsResponse{
		Embeddings: []*genai.ContentEmbedding{
			{Values: []float32{0.1, 0.2}},
			{Values: []float32{0.3, 0.4}},
		},
	}

	vectors, err := extractVectorsFromResponse(resp, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vectors)

	_, err = extractVectorsFromResponse(resp, 3)
	assert.Error(t, err)

	_, err = extractVectorsFromResponse(&genai.BatchEmbedContentsResponse{
		Embeddings: []*genai.ContentEmbedding{{}},
	}, 1)
	assert.Error(t, err)

	_, err = extractVectorsFromResponse(nil, 1)
	assert.Error(t, err)
}
