// CLAUDE:SUMMARY Agent — one persona bound to one conversation handle, with retry/backoff and model-downgrade fallback
package council

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quorumlabs/council/internal/llm"
)

// Unreachable is the placeholder turn content returned when an agent has
// exhausted retries and the fallback model also failed. Callers treat it
// as a valid turn result, not a failure; the debate continues.
const Unreachable = "agent unreachable"

// contextWindow is how many trailing log entries a turn prompt carries.
// Older turns are deliberately dropped to bound context cost; the
// provider-side conversation still holds the agent's own history.
const contextWindow = 4

// responseWordCap is the soft length ceiling stated in every agent's
// behavioral rules.
const responseWordCap = 150

// Agent is the single point of contact with the completion provider for
// one seat. It holds its own conversation handle and no local transcript.
type Agent struct {
	cfg           AgentConfig
	client        *llm.Client
	fallbackModel string
	conv          *llm.Conversation
	retry         retryPolicy
	logger        *slog.Logger
}

// NewAgent constructs an uninitialized agent for a seat.
func NewAgent(cfg AgentConfig, client *llm.Client, fallbackModel string, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		cfg:           cfg,
		client:        client,
		fallbackModel: fallbackModel,
		retry:         defaultRetryPolicy(),
		logger:        logger.With("seat", cfg.SeatID),
	}
}

// Config returns the immutable seat binding.
func (a *Agent) Config() AgentConfig { return a.cfg }

// Initialized reports whether a conversation handle has been bound.
func (a *Agent) Initialized() bool { return a.conv != nil }

// Initialize opens a fresh conversation seeded with the composed system
// instruction and no prior turns. Must be called before Speak.
func (a *Agent) Initialize(ctx context.Context, sharedContext string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !a.client.CanRoute(a.cfg.CompletionModelID) {
		return fmt.Errorf("no provider can serve model %q", a.cfg.CompletionModelID)
	}
	system := a.systemInstruction(sharedContext)
	a.conv = a.client.NewConversation(a.cfg.CompletionModelID, system, true)
	a.logger.Info("agent initialized",
		"persona", a.cfg.DisplayName,
		"model", a.cfg.CompletionModelID,
		"grounded", a.conv.Grounded(),
	)
	return nil
}

// systemInstruction composes persona identity, the persona's fixed
// prompt, the shared debate context, and the fixed behavioral rules.
func (a *Agent) systemInstruction(sharedContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, the council's %s.\n\n", a.cfg.DisplayName, a.cfg.FunctionalRole)
	b.WriteString(a.cfg.SystemPrompt)
	b.WriteString("\n\n--- SESSION CONTEXT ---\n")
	b.WriteString(sharedContext)
	b.WriteString("\n\n--- RULES ---\n")
	fmt.Fprintf(&b, "Stay in persona at all times.\n")
	fmt.Fprintf(&b, "Ground every claim in the session context or the discussion itself.\n")
	fmt.Fprintf(&b, "When rebutting, reference the other advisor by name.\n")
	fmt.Fprintf(&b, "Keep normal responses under roughly %d words.\n", responseWordCap)
	if a.cfg.SeatID == SeatModerator {
		b.WriteString("You are the moderator: stay strictly neutral and focus on synthesis.\n")
	}
	b.WriteString("For any claim about \"current\", \"latest\" or \"best\" information, use your web search capability rather than memory.\n")
	return b.String()
}

// Speak produces this agent's next turn. The prompt carries the topic,
// a sliding window over the shared log, and a directive (caller-supplied
// wins, otherwise the seat's default). Provider failures are retried
// with backoff, then downgraded to the fallback model, then degraded to
// the Unreachable placeholder; only ErrNotInitialized and context
// cancellation surface as errors.
func (a *Agent) Speak(ctx context.Context, history []Message, topic, directive string) (string, error) {
	if a.conv == nil {
		return "", ErrNotInitialized
	}

	if directive == "" {
		directive = a.defaultDirective()
	}
	prompt := buildTurnPrompt(topic, windowOf(history), directive)

	var lastErr error
	for attempt := 0; attempt <= a.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, a.retry.delay(attempt-1, lastErr)); err != nil {
				return "", err
			}
		}
		text, err := a.conv.Send(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		a.logger.Warn("turn attempt failed",
			"attempt", attempt+1,
			"rate_limited", llm.IsRateLimited(err),
			"error", err,
		)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// All retries exhausted: open a new, unrelated conversation on the
	// cheaper model with just the persona bio and try once.
	a.logger.Warn("falling back to secondary model", "model", a.fallbackModel)
	fb := a.client.NewConversation(a.fallbackModel, a.cfg.Bio, false)
	text, err := fb.Send(ctx, prompt)
	if err == nil {
		return text, nil
	}
	a.logger.Error("fallback model failed, degrading to placeholder", "error", err)
	return Unreachable, nil
}

// defaultDirective depends on the seat. The moderator is offered the
// early-conclusion sentinel; adversarial seats argue or rebut.
func (a *Agent) defaultDirective() string {
	if a.cfg.SeatID == SeatModerator {
		return fmt.Sprintf(
			"If the topic has been sufficiently explored and more debate would add nothing, reply with exactly %s and nothing else. Otherwise summarize the strongest point from each side in one sentence each and pose one question that would deepen the debate.",
			ConclusionSentinel)
	}
	return "Offer a fresh perspective on the topic, or rebut the latest point made by the opposing advisor."
}

// windowOf returns the trailing contextWindow entries of history.
func windowOf(history []Message) []Message {
	if len(history) <= contextWindow {
		return history
	}
	return history[len(history)-contextWindow:]
}

func buildTurnPrompt(topic string, window []Message, directive string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	if len(window) > 0 {
		b.WriteString("\nRecent discussion:\n")
		for _, m := range window {
			fmt.Fprintf(&b, "[%s] %s\n", m.SpeakerID, m.Content)
		}
	}
	b.WriteString("\n")
	b.WriteString(directive)
	return b.String()
}
