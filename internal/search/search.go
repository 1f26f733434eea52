// Package search provides web search providers used to ground debates in
// live material before agents are initialized.
package search

import "context"

// Result is a single ranked search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
	Source  string `json:"source,omitempty"`
}

// Provider is a single web search backend.
type Provider interface {
	// Name returns the provider identifier (e.g. "brave", "serper").
	Name() string
	// Search returns a small ranked list of results for the query.
	Search(ctx context.Context, query string) ([]Result, error)
}

// Client walks a chain of search providers until one answers.
type Client struct {
	providers []Provider
}

// NewClient creates a search client over the given providers, tried in order.
func NewClient(providers []Provider) *Client {
	return &Client{providers: providers}
}

// Name identifies the chain head, or "none" when empty.
func (c *Client) Name() string {
	if len(c.providers) == 0 {
		return "none"
	}
	return c.providers[0].Name()
}

// Search tries each provider in order and returns the first non-error,
// non-empty result set. An exhausted chain returns the last error.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	var lastErr error
	for _, p := range c.providers {
		results, err := p.Search(ctx, query)
		if err != nil {
			lastErr = err
			continue
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoResults
}

// Available reports whether at least one backend is configured.
func (c *Client) Available() bool { return len(c.providers) > 0 }
