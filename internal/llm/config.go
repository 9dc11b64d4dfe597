// Package llm provides centralized embedding-model configuration and client abstractions.
// This package enables switching between model tiers and embedding providers.
package llm

// ModelTier represents the generation of embedding model to use
type ModelTier string

const (
	// TierStandard is the current general-purpose embedding model
	TierStandard ModelTier = "standard"
	// TierLegacy is the previous-generation embedding model, kept as a fallback
	TierLegacy ModelTier = "legacy"
)

// Provider represents an embedding provider
type Provider string

// Provider constants define supported embedding providers
const (
	// ProviderGemini is the Google Gemini embedding API
	ProviderGemini Provider = "gemini"
	// ProviderHashing is the offline feature-hashing embedder
	ProviderHashing Provider = "hashing"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierStandard: "text-embedding-004",
			TierLegacy:   "embedding-001",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then legacy
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLegacy]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
