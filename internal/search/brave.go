// CLAUDE:SUMMARY Brave Search REST adapter — primary web grounding backend
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// BraveProvider implements the Provider interface for the Brave Search API.
type BraveProvider struct {
	apiKey  string
	baseURL string
	count   int
	client  *http.Client
}

func NewBraveProvider(apiKey string) *BraveProvider {
	return &BraveProvider{
		apiKey:  apiKey,
		baseURL: "https://api.search.brave.com/res/v1",
		count:   5,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (p *BraveProvider) Name() string { return "brave" }

func (p *BraveProvider) Search(ctx context.Context, query string) ([]Result, error) {
	u := fmt.Sprintf("%s/web/search?q=%s&count=%d", p.baseURL, url.QueryEscape(query), p.count)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, &ProviderError{Provider: "brave", Query: query, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Subscription-Token", p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: "brave", Query: query, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "brave", Query: query, Err: err}
	}
	if httpResp.StatusCode != 200 {
		return nil, &ProviderError{Provider: "brave", Query: query,
			Err: fmt.Errorf("HTTP %d", httpResp.StatusCode)}
	}

	var braveResp braveResponse
	if err := json.Unmarshal(respBody, &braveResp); err != nil {
		return nil, &ProviderError{Provider: "brave", Query: query, Err: fmt.Errorf("decoding response: %w", err)}
	}

	results := make([]Result, 0, len(braveResp.Web.Results))
	for _, r := range braveResp.Web.Results {
		results = append(results, Result{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Description,
			Date:    r.Age,
			Source:  "brave",
		})
	}
	return results, nil
}

// Brave API types
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Age         string `json:"age"`
		} `json:"results"`
	} `json:"web"`
}
