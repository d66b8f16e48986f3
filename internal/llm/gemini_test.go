package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultGeminiConfig(), "")
	assert.Error(t, err)
}

func TestGeminiGenerativeModel_AppliesConfig(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), DefaultGeminiConfig(), "test-key")
	require.NoError(t, err)
	defer client.Close()

	model := client.generativeModel("gemini-2.5-flash")

	require.NotNil(t, model.GenerationConfig.Temperature)
	assert.InDelta(t, 0.3, *model.GenerationConfig.Temperature, 0.001)
	require.NotNil(t, model.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, int32(2000), *model.GenerationConfig.MaxOutputTokens)
}

func TestGeminiGenerativeModel_NoTokenCap(t *testing.T) {
	cfg := DefaultGeminiConfig()
	cfg.MaxTokens = 0

	client, err := NewGeminiClient(context.Background(), cfg, "test-key")
	require.NoError(t, err)
	defer client.Close()

	model := client.generativeModel("gemini-2.5-flash")
	assert.Nil(t, model.GenerationConfig.MaxOutputTokens)
}
