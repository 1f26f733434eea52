package search

import "github.com/quorumlabs/council/internal/config"

// NewFromConfig creates a search client from the application config.
// Only providers with configured API keys are activated. An empty chain
// is valid: debates then run without live grounding.
func NewFromConfig(cfg config.SearchConfig) *Client {
	var providers []Provider

	if cfg.BraveAPIKey != "" {
		providers = append(providers, NewBraveProvider(cfg.BraveAPIKey))
	}
	if cfg.SerperAPIKey != "" {
		providers = append(providers, NewSerperProvider(cfg.SerperAPIKey))
	}

	return NewClient(providers)
}
