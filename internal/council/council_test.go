package council

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/quorumlabs/council/internal/llm"
	"github.com/quorumlabs/council/internal/persona"
)

// fakeProvider scripts the completion backend. The last message of each
// request is the outbound turn prompt; fn decides the reply.
type fakeProvider struct {
	name string
	mu   sync.Mutex
	reqs []llm.Request
	fn   func(call int, prompt string, req llm.Request) (string, error)
}

func (p *fakeProvider) Name() string          { return p.name }
func (p *fakeProvider) Models() []string      { return []string{"test-model"} }
func (p *fakeProvider) Supports(string) bool  { return false }

func (p *fakeProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	call := len(p.reqs)
	p.reqs = append(p.reqs, req)
	p.mu.Unlock()

	prompt := ""
	if n := len(req.Messages); n > 0 {
		prompt = req.Messages[n-1].Content
	}
	text, err := p.fn(call, prompt, req)
	if err != nil {
		return nil, err
	}
	return &llm.Response{Provider: p.name, Model: req.Model, Content: text}, nil
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reqs)
}

func (p *fakeProvider) request(i int) llm.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reqs[i]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fastRetry() retryPolicy {
	return retryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, RateLimitBase: time.Millisecond}
}

// newTestEngine wires an engine over a scripted provider with pacing and
// retry delays collapsed to test speed.
func newTestEngine(t *testing.T, fn func(call int, prompt string, req llm.Request) (string, error)) (*Engine, *fakeProvider) {
	t.Helper()
	p := &fakeProvider{name: "fake", fn: fn}
	client := llm.New([]llm.Provider{p})

	staff := persona.AutoStaff([]string{"career", "technology"})
	e := NewEngine(Params{
		Client:        client,
		Visionary:     staff.VisionarySeat,
		Skeptic:       staff.SkepticSeat,
		ModelID:       "fake/test-model",
		FallbackModel: "fake/fallback-model",
		Logger:        quietLogger(),
	})
	e.preTurnDelay = 0
	e.postTurnDelay = 0
	e.roundGap = 0
	for _, a := range e.agents {
		a.retry = fastRetry()
	}
	return e, p
}

func cannedReplies(call int, prompt string, _ llm.Request) (string, error) {
	return "canned reply", nil
}
