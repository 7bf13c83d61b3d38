package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/pkg/config"
)

func TestNewOpenRouterClient(t *testing.T) {
	t.Run("missing api key fails fast", func(t *testing.T) {
		_, err := NewOpenRouterClient(config.OpenRouterConfig{
			BaseURL:      "https://openrouter.ai/api/v1",
			DefaultModel: "mistralai/mistral-7b-instruct:free",
		}, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api key")
	})

	t.Run("configured client carries the model", func(t *testing.T) {
		client, err := NewOpenRouterClient(config.OpenRouterConfig{
			BaseURL:      "https://openrouter.ai/api/v1",
			APIKey:       "test-key",
			DefaultModel: "mistralai/mistral-7b-instruct:free",
		}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "mistralai/mistral-7b-instruct:free", client.model)
	})
}
