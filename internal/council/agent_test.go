package council

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/quorumlabs/council/internal/llm"
	"github.com/quorumlabs/council/internal/persona"
)

func newTestAgent(t *testing.T, seatID string, fn func(call int, prompt string, req llm.Request) (string, error)) (*Agent, *fakeProvider) {
	t.Helper()
	p := &fakeProvider{name: "fake", fn: fn}
	client := llm.New([]llm.Provider{p})

	def := persona.Get("sentinel")
	if seatID == SeatModerator {
		m := persona.Moderator()
		def = &m
	}
	a := NewAgent(ConfigFromPersona(seatID, *def, "fake/test-model"), client, "fake/fallback-model", quietLogger())
	a.retry = fastRetry()
	return a, p
}

func TestSpeakBeforeInitialize(t *testing.T) {
	a, _ := newTestAgent(t, SeatSkeptic, cannedReplies)
	_, err := a.Speak(context.Background(), nil, "topic", "")
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("err = %v, want ErrNotInitialized", err)
	}
}

func TestInitializeComposesSystemInstruction(t *testing.T) {
	a, p := newTestAgent(t, SeatModerator, cannedReplies)
	if err := a.Initialize(context.Background(), "shared-context-marker"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !a.Initialized() {
		t.Fatal("agent should report initialized")
	}

	if _, err := a.Speak(context.Background(), nil, "topic", ""); err != nil {
		t.Fatalf("speak: %v", err)
	}

	system := p.request(0).Messages[0]
	if system.Role != "system" {
		t.Fatalf("first message role = %q", system.Role)
	}
	for _, want := range []string{
		"The Arbiter",
		"shared-context-marker",
		"Stay in persona",
		"150 words",
		"strictly neutral",
		"web search capability",
	} {
		if !strings.Contains(system.Content, want) {
			t.Errorf("system instruction missing %q", want)
		}
	}
}

func TestInitializeFailsWithoutRoute(t *testing.T) {
	client := llm.New(nil)
	a := NewAgent(ConfigFromPersona(SeatSkeptic, *persona.Get("sentinel"), "ghost/model"), client, "ghost/fallback", quietLogger())
	if err := a.Initialize(context.Background(), "ctx"); err == nil {
		t.Fatal("expected initialize to fail with no providers")
	}
}

func TestSpeakWindowsHistoryToLastFour(t *testing.T) {
	a, p := newTestAgent(t, SeatSkeptic, cannedReplies)
	if err := a.Initialize(context.Background(), "ctx"); err != nil {
		t.Fatal(err)
	}

	history := make([]Message, 0, 7)
	for i := 0; i < 7; i++ {
		history = append(history, Message{
			SpeakerID: SeatVisionary,
			Content:   fmt.Sprintf("SENTINEL-%d", i),
			Kind:      KindArgument,
		})
	}

	if _, err := a.Speak(context.Background(), history, "topic", ""); err != nil {
		t.Fatal(err)
	}

	req := p.request(0)
	prompt := req.Messages[len(req.Messages)-1].Content
	for i := 0; i < 3; i++ {
		if strings.Contains(prompt, fmt.Sprintf("SENTINEL-%d", i)) {
			t.Errorf("prompt leaked dropped message SENTINEL-%d", i)
		}
	}
	for i := 3; i < 7; i++ {
		if !strings.Contains(prompt, fmt.Sprintf("SENTINEL-%d", i)) {
			t.Errorf("prompt missing windowed message SENTINEL-%d", i)
		}
	}
}

func TestSpeakDirectivePrecedence(t *testing.T) {
	a, p := newTestAgent(t, SeatModerator, cannedReplies)
	if err := a.Initialize(context.Background(), "ctx"); err != nil {
		t.Fatal(err)
	}

	// Default: the moderator is offered the sentinel.
	if _, err := a.Speak(context.Background(), nil, "topic", ""); err != nil {
		t.Fatal(err)
	}
	req := p.request(0)
	if !strings.Contains(req.Messages[len(req.Messages)-1].Content, ConclusionSentinel) {
		t.Error("moderator default directive should offer the conclusion sentinel")
	}

	// Caller-supplied directive wins.
	if _, err := a.Speak(context.Background(), nil, "topic", "CUSTOM-DIRECTIVE"); err != nil {
		t.Fatal(err)
	}
	req = p.request(1)
	prompt := req.Messages[len(req.Messages)-1].Content
	if !strings.Contains(prompt, "CUSTOM-DIRECTIVE") {
		t.Error("caller directive missing from prompt")
	}
	if strings.Contains(prompt, ConclusionSentinel) {
		t.Error("default directive should be displaced by the caller's")
	}
}

func TestSpeakRetriesThenFallbackSucceeds(t *testing.T) {
	a, p := newTestAgent(t, SeatSkeptic, func(call int, prompt string, req llm.Request) (string, error) {
		if call < 4 {
			return "", &llm.ProviderError{Provider: "fake", Err: llm.ErrRateLimited}
		}
		return "fallback says hello", nil
	})
	if err := a.Initialize(context.Background(), "ctx"); err != nil {
		t.Fatal(err)
	}

	text, err := a.Speak(context.Background(), nil, "topic", "")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if text != "fallback says hello" {
		t.Errorf("text = %q", text)
	}
	if p.calls() != 5 {
		t.Errorf("provider calls = %d, want 5 (4 primary + 1 fallback)", p.calls())
	}

	// The fallback conversation is unrelated: fresh system prompt built
	// from the bio, no accumulated turns.
	fb := p.request(4)
	if fb.Model != "fallback-model" {
		t.Errorf("fallback model = %q", fb.Model)
	}
	if len(fb.Messages) != 2 {
		t.Errorf("fallback history = %d messages, want system + prompt", len(fb.Messages))
	}
	if fb.Messages[0].Content != a.cfg.Bio {
		t.Errorf("fallback system prompt should be the persona bio, got %q", fb.Messages[0].Content)
	}
}

func TestSpeakDegradesToUnreachable(t *testing.T) {
	a, p := newTestAgent(t, SeatSkeptic, func(int, string, llm.Request) (string, error) {
		return "", &llm.ProviderError{Provider: "fake", Err: errors.New("boom")}
	})
	if err := a.Initialize(context.Background(), "ctx"); err != nil {
		t.Fatal(err)
	}

	text, err := a.Speak(context.Background(), nil, "topic", "")
	if err != nil {
		t.Fatalf("degraded speak must not raise, got %v", err)
	}
	if text != Unreachable {
		t.Errorf("text = %q, want %q", text, Unreachable)
	}
	if p.calls() != 5 {
		t.Errorf("provider calls = %d, want 5", p.calls())
	}
}

func TestSpeakHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a, _ := newTestAgent(t, SeatSkeptic, func(int, string, llm.Request) (string, error) {
		cancel()
		return "", &llm.ProviderError{Provider: "fake", Err: errors.New("boom")}
	})
	a.retry = retryPolicy{MaxRetries: 3, BaseDelay: time.Hour, RateLimitBase: time.Hour}
	if err := a.Initialize(ctx, "ctx"); err != nil {
		t.Fatal(err)
	}

	_, err := a.Speak(ctx, nil, "topic", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRetryPolicySchedule(t *testing.T) {
	p := defaultRetryPolicy()
	rl := &llm.ProviderError{Provider: "x", Err: llm.ErrRateLimited}
	generic := errors.New("boom")

	wantRL := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, want := range wantRL {
		if got := p.delay(i, rl); got != want {
			t.Errorf("rate-limit delay(%d) = %v, want %v", i, got, want)
		}
	}
	for i := 0; i < 3; i++ {
		if got := p.delay(i, generic); got != time.Second {
			t.Errorf("generic delay(%d) = %v, want 1s", i, got)
		}
	}
}
