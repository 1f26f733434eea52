// Package llm provides a multi-provider text-completion client with a
// fallback chain and provider-side conversation handles for debate agents.
package llm

import (
	"context"
	"time"
)

// Message represents a chat message (system/user/assistant).
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a provider-agnostic completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`

	// Grounding asks the provider to consult live web sources during
	// generation. Providers without the capability ignore it.
	Grounding bool `json:"grounding,omitempty"`
}

// Response is a provider-agnostic completion response.
type Response struct {
	Provider     string        `json:"provider"`
	Model        string        `json:"model"`
	Content      string        `json:"content"`
	Sources      []string      `json:"sources,omitempty"`
	TokensIn     int           `json:"tokens_in"`
	TokensOut    int           `json:"tokens_out"`
	FinishReason string        `json:"finish_reason"`
	Latency      time.Duration `json:"latency_ms"`
}

// Provider is a single completion API backend.
type Provider interface {
	// Name returns the provider identifier (e.g. "gemini", "groq").
	Name() string
	// Models returns the model IDs available on this provider.
	Models() []string
	// Supports reports optional capabilities ("grounding").
	Supports(capability string) bool
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Client sends completion requests with fallback across providers.
type Client struct {
	providers map[string]Provider // keyed by provider name
	fallback  []string            // provider names in priority order
}

// New creates a multi-provider completion client.
func New(providers []Provider) *Client {
	m := make(map[string]Provider, len(providers))
	order := make([]string, 0, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
		order = append(order, p.Name())
	}
	return &Client{providers: m, fallback: order}
}

// Complete routes a request to the provider named in the model prefix
// ("gemini/gemini-2.0-flash"), or walks the fallback chain.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	provider, model := splitModel(req.Model)
	if provider != "" {
		req.Model = model
		if p, ok := c.providers[provider]; ok {
			return p.Complete(ctx, req)
		}
	}

	var lastErr error
	for _, name := range c.fallback {
		p := c.providers[name]
		resp, err := p.Complete(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}
	if lastErr == nil {
		lastErr = ErrNoProviders
	}
	return nil, lastErr
}

// SupportsGrounding reports whether the provider routed for modelStr can
// consult live web sources during generation.
func (c *Client) SupportsGrounding(modelStr string) bool {
	provider, _ := splitModel(modelStr)
	if provider == "" {
		if len(c.fallback) == 0 {
			return false
		}
		provider = c.fallback[0]
	}
	p, ok := c.providers[provider]
	return ok && p.Supports(CapGrounding)
}

// CanRoute reports whether a completion for modelStr could reach any
// configured provider: either the prefix names a known provider or the
// fallback chain is non-empty.
func (c *Client) CanRoute(modelStr string) bool {
	provider, _ := splitModel(modelStr)
	if provider != "" {
		if _, ok := c.providers[provider]; ok {
			return true
		}
	}
	return len(c.fallback) > 0
}

// Providers returns the names of all configured providers.
func (c *Client) Providers() []string {
	return c.fallback
}

// HasProvider checks if a named provider is configured.
func (c *Client) HasProvider(name string) bool {
	_, ok := c.providers[name]
	return ok
}

// CapGrounding is the optional live web grounding capability.
const CapGrounding = "grounding"

func splitModel(model string) (provider, name string) {
	for i, c := range model {
		if c == '/' {
			return model[:i], model[i+1:]
		}
	}
	return "", model
}
