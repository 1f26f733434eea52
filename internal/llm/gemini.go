// CLAUDE:SUMMARY Gemini Provider — the only backend with live google_search grounding for debate research claims
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GeminiProvider implements the Provider interface for Google's Gemini API.
// It is the one provider in the chain that supports grounded generation:
// when a request asks for grounding, the google_search tool is attached and
// the resolved source URLs are surfaced on the Response.
type GeminiProvider struct {
	apiKey  string
	baseURL string
	models  []string
	client  *http.Client
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		models:  []string{"gemini-2.0-flash", "gemini-2.0-flash-lite", "gemini-1.5-pro"},
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *GeminiProvider) Name() string    { return "gemini" }
func (p *GeminiProvider) Models() []string { return p.models }

func (p *GeminiProvider) Supports(capability string) bool {
	return capability == CapGrounding
}

func (p *GeminiProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.models[0]
	}

	var systemInstruction *geminiContent
	var contents []geminiContent
	for _, m := range req.Messages {
		if m.Role == "system" {
			systemInstruction = &geminiContent{
				Parts: []geminiPart{{Text: m.Content}},
			}
			continue
		}
		role := m.Role
		if role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	body := geminiRequest{
		Contents:          contents,
		SystemInstruction: systemInstruction,
	}
	if req.Grounding {
		body.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		gc := &geminiGenerationConfig{}
		if req.Temperature > 0 {
			gc.Temperature = &req.Temperature
		}
		if req.MaxTokens > 0 {
			gc.MaxOutputTokens = &req.MaxTokens
		}
		body.GenerationConfig = gc
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Model: model, Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Model: model, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := p.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Model: model, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Model: model, Err: err}
	}

	if httpResp.StatusCode == 429 {
		return nil, &ProviderError{Provider: "gemini", Model: model, Err: ErrRateLimited}
	}
	if httpResp.StatusCode != 200 {
		return nil, &ProviderError{Provider: "gemini", Model: model,
			Err: fmt.Errorf("HTTP %d: %s", httpResp.StatusCode, truncate(string(respBody), 200))}
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(respBody, &gemResp); err != nil {
		return nil, &ProviderError{Provider: "gemini", Model: model, Err: fmt.Errorf("decoding response: %w", err)}
	}

	if len(gemResp.Candidates) == 0 {
		return nil, &ProviderError{Provider: "gemini", Model: model, Err: fmt.Errorf("no candidates in response")}
	}

	cand := gemResp.Candidates[0]
	var content string
	for _, part := range cand.Content.Parts {
		content += part.Text
	}

	var sources []string
	if cand.GroundingMetadata != nil {
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				sources = append(sources, chunk.Web.URI)
			}
		}
	}

	var tokensIn, tokensOut int
	if gemResp.UsageMetadata != nil {
		tokensIn = gemResp.UsageMetadata.PromptTokenCount
		tokensOut = gemResp.UsageMetadata.CandidatesTokenCount
	}

	return &Response{
		Provider:     "gemini",
		Model:        model,
		Content:      content,
		Sources:      sources,
		TokensIn:     tokensIn,
		TokensOut:    tokensOut,
		FinishReason: cand.FinishReason,
		Latency:      latency,
	}, nil
}

// Gemini API types
type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content           geminiContent `json:"content"`
		FinishReason      string        `json:"finishReason"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}
