// CLAUDE:SUMMARY Serper.dev Google-search adapter — fallback web grounding backend
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SerperProvider implements the Provider interface for the serper.dev
// Google Search API.
type SerperProvider struct {
	apiKey  string
	baseURL string
	count   int
	client  *http.Client
}

func NewSerperProvider(apiKey string) *SerperProvider {
	return &SerperProvider{
		apiKey:  apiKey,
		baseURL: "https://google.serper.dev",
		count:   5,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (p *SerperProvider) Name() string { return "serper" }

func (p *SerperProvider) Search(ctx context.Context, query string) ([]Result, error) {
	payload, err := json.Marshal(serperRequest{Q: query, Num: p.count})
	if err != nil {
		return nil, &ProviderError{Provider: "serper", Query: query, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Provider: "serper", Query: query, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-KEY", p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: "serper", Query: query, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "serper", Query: query, Err: err}
	}
	if httpResp.StatusCode != 200 {
		return nil, &ProviderError{Provider: "serper", Query: query,
			Err: fmt.Errorf("HTTP %d", httpResp.StatusCode)}
	}

	var serperResp serperResponse
	if err := json.Unmarshal(respBody, &serperResp); err != nil {
		return nil, &ProviderError{Provider: "serper", Query: query, Err: fmt.Errorf("decoding response: %w", err)}
	}

	results := make([]Result, 0, len(serperResp.Organic))
	for _, r := range serperResp.Organic {
		results = append(results, Result{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
			Date:    r.Date,
			Source:  "serper",
		})
	}
	return results, nil
}

// Serper API types
type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
	} `json:"organic"`
}
