// Package llm provides the language model client used for structured profile
// extraction, along with model tier configuration.
package llm

import "time"

// DefaultTimeout bounds a single extraction call when the caller sets none
const DefaultTimeout = 20 * time.Second

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short profiles and quick re-parses
	TierLite ModelTier = "lite"
	// TierStandard is the default tier for profile extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or messy documents
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderStub returns canned responses and never leaves the process
	ProviderStub Provider = "stub"
)

// Config holds the model configuration passed explicitly to the parser
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// Tier selects the model used for extraction
	Tier ModelTier
	// Timeout is enforced by the caller around every Generate call
	Timeout time.Duration
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
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Tier:    TierStandard,
		Timeout: DefaultTimeout,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// EffectiveTimeout returns Timeout, or DefaultTimeout when unset
func (c *Config) EffectiveTimeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := c.clone()
	newConfig.Models[tier] = model
	return newConfig
}

// WithTimeout returns a new Config with the given call timeout
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	newConfig := c.clone()
	newConfig.Timeout = timeout
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)),
		Tier:     c.Tier,
		Timeout:  c.Timeout,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}
