package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// scriptProvider replays a scripted sequence of results.
type scriptProvider struct {
	name     string
	grounded bool
	calls    int
	fn       func(call int, req Request) (*Response, error)
}

func (p *scriptProvider) Name() string    { return p.name }
func (p *scriptProvider) Models() []string { return []string{"test-model"} }
func (p *scriptProvider) Supports(cap string) bool {
	return p.grounded && cap == CapGrounding
}
func (p *scriptProvider) Complete(_ context.Context, req Request) (*Response, error) {
	call := p.calls
	p.calls++
	return p.fn(call, req)
}

func okProvider(name string) *scriptProvider {
	return &scriptProvider{name: name, fn: func(_ int, req Request) (*Response, error) {
		return &Response{Provider: name, Model: req.Model, Content: "ok from " + name}, nil
	}}
}

func failProvider(name string, err error) *scriptProvider {
	return &scriptProvider{name: name, fn: func(int, Request) (*Response, error) {
		return nil, &ProviderError{Provider: name, Err: err}
	}}
}

func TestSplitModel(t *testing.T) {
	cases := []struct {
		in, provider, model string
	}{
		{"gemini/gemini-2.0-flash", "gemini", "gemini-2.0-flash"},
		{"openrouter/deepseek/deepseek-chat", "openrouter", "deepseek/deepseek-chat"},
		{"bare-model", "", "bare-model"},
	}
	for _, c := range cases {
		p, m := splitModel(c.in)
		if p != c.provider || m != c.model {
			t.Errorf("splitModel(%q) = (%q, %q), want (%q, %q)", c.in, p, m, c.provider, c.model)
		}
	}
}

func TestCompleteRoutesByPrefix(t *testing.T) {
	a := okProvider("alpha")
	b := okProvider("beta")
	c := New([]Provider{a, b})

	resp, err := c.Complete(context.Background(), Request{Model: "beta/test-model"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Provider != "beta" {
		t.Errorf("provider = %q, want beta", resp.Provider)
	}
	if a.calls != 0 || b.calls != 1 {
		t.Errorf("calls = (%d, %d), want (0, 1)", a.calls, b.calls)
	}
	if resp.Model != "test-model" {
		t.Errorf("model = %q, prefix should be stripped", resp.Model)
	}
}

func TestCompleteFallbackChain(t *testing.T) {
	bad := failProvider("bad", ErrRateLimited)
	good := okProvider("good")
	c := New([]Provider{bad, good})

	resp, err := c.Complete(context.Background(), Request{Model: "test-model"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Provider != "good" {
		t.Errorf("provider = %q, want good", resp.Provider)
	}
	if bad.calls != 1 {
		t.Errorf("bad provider calls = %d, want 1", bad.calls)
	}
}

func TestCompleteAllFail(t *testing.T) {
	c := New([]Provider{
		failProvider("one", fmt.Errorf("boom")),
		failProvider("two", ErrRateLimited),
	})
	_, err := c.Complete(context.Background(), Request{Model: "test-model"})
	if err == nil {
		t.Fatal("expected error when all providers fail")
	}
	if !IsRateLimited(err) {
		t.Errorf("last error should unwrap to ErrRateLimited, got %v", err)
	}
}

func TestCompleteNoProviders(t *testing.T) {
	c := New(nil)
	_, err := c.Complete(context.Background(), Request{Model: "m"})
	if !errors.Is(err, ErrNoProviders) {
		t.Errorf("err = %v, want ErrNoProviders", err)
	}
}

func TestSupportsGrounding(t *testing.T) {
	grounded := &scriptProvider{name: "gemini", grounded: true}
	plain := okProvider("groq")
	c := New([]Provider{grounded, plain})

	if !c.SupportsGrounding("gemini/gemini-2.0-flash") {
		t.Error("gemini route should support grounding")
	}
	if c.SupportsGrounding("groq/llama-3.3-70b-versatile") {
		t.Error("groq route should not support grounding")
	}
	// No prefix: first provider in the chain decides
	if !c.SupportsGrounding("bare-model") {
		t.Error("unprefixed route should inherit head-of-chain capability")
	}
}
