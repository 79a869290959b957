package llm

import "os"

// ModelTier selects how much model capability a call pays for.
type ModelTier string

const (
	// TierLite handles cheap classification and short summaries.
	TierLite ModelTier = "lite"
	// TierStandard handles bullet rewriting and structured JSON output.
	TierStandard ModelTier = "standard"
	// TierAdvanced handles full-resume optimization.
	TierAdvanced ModelTier = "advanced"
)

// Config maps tiers to concrete Gemini model names.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the tier mapping, honoring MODEL_LITE, MODEL_STANDARD,
// and MODEL_ADVANCED environment overrides so deployments can pin models
// without a rebuild.
func DefaultConfig() *Config {
	c := &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
	for tier, env := range map[ModelTier]string{
		TierLite:     "MODEL_LITE",
		TierStandard: "MODEL_STANDARD",
		TierAdvanced: "MODEL_ADVANCED",
	} {
		if v := os.Getenv(env); v != "" {
			c.Models[tier] = v
		}
	}
	return c
}

// GetModel returns the model name for a tier, falling back to standard and
// then lite when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of the config with one tier overridden.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	clone := &Config{Models: make(map[ModelTier]string, len(c.Models))}
	for k, v := range c.Models {
		clone.Models[k] = v
	}
	clone.Models[tier] = model
	return clone
}
