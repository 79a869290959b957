package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_HasAllTiers(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.GetModel(TierLite))
	assert.NotEmpty(t, cfg.GetModel(TierStandard))
	assert.NotEmpty(t, cfg.GetModel(TierAdvanced))
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("MODEL_ADVANCED", "gemini-exp-pinned")
	cfg := DefaultConfig()
	assert.Equal(t, "gemini-exp-pinned", cfg.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard))
}

func TestGetModel_FallbackChain(t *testing.T) {
	cfg := &Config{
		Models: map[ModelTier]string{
			TierLite: "lite-model",
		},
	}
	// Missing tiers fall back to lite
	assert.Equal(t, "lite-model", cfg.GetModel(TierAdvanced))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	cfg := DefaultConfig()
	original := cfg.GetModel(TierStandard)

	modified := cfg.WithModel(TierStandard, "custom-model")
	assert.Equal(t, "custom-model", modified.GetModel(TierStandard))
	assert.Equal(t, original, cfg.GetModel(TierStandard))
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestRewriteOptions(t *testing.T) {
	opts := RewriteOptions()
	assert.InDelta(t, 0.7, opts.Temperature, 0.001)
	assert.Greater(t, opts.MaxOutputTokens, int32(0))
}
