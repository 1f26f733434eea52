// CLAUDE:SUMMARY Debate engine — research, concurrent seat init, round-capped alternating turns, moderator synthesis
package council

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hazyhaar/pkg/idgen"
	"github.com/quorumlabs/council/internal/llm"
	"github.com/quorumlabs/council/internal/persona"
)

// MaxRounds is the hard round cap. Fixed policy, not configuration:
// termination is guaranteed regardless of how "done" the debate looks.
const MaxRounds = 2

// ConclusionSentinel is the moderator's early-stop marker. When an
// inter-round moderator consult contains it, the engine moves straight
// to synthesis instead of starting the next round.
const ConclusionSentinel = "CONCLUSION_READY"

// Pacing between calls keeps the combined request rate under provider
// per-minute ceilings and gives consumers time to render each turn.
// These are separate from retry backoff.
const (
	defaultPreTurnDelay  = 2 * time.Second
	defaultPostTurnDelay = 1 * time.Second
	defaultRoundGap      = 4 * time.Second
)

// turnOrder within a round is fixed: the pro-position seat always opens.
var turnOrder = [2]string{SeatVisionary, SeatSkeptic}

// Params configures one debate engine.
type Params struct {
	Client        *llm.Client
	Research      *ResearchAggregator // nil = no live grounding
	Visionary     persona.Definition
	Skeptic       persona.Definition
	ModelID       string // "provider/model" the agents speak with
	FallbackModel string // cheaper model for agent downgrade
	Logger        *slog.Logger
}

// Engine drives one debate session. All session state (log, status,
// verdict) is owned here; multiple engines are fully independent and
// share only the provider clients.
type Engine struct {
	client   *llm.Client
	research *ResearchAggregator
	agents   map[string]*Agent
	logger   *slog.Logger

	topic       string
	userContext string
	userProfile string
	brief       string

	mu      sync.Mutex
	log     []Message
	status  Status
	verdict string

	preTurnDelay  time.Duration
	postTurnDelay time.Duration
	roundGap      time.Duration
}

// NewEngine builds an engine with the catalog moderator chairing and the
// staffed personas on the two adversarial seats.
func NewEngine(p Params) *Engine {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	mod := persona.Moderator()
	agents := map[string]*Agent{
		SeatModerator: NewAgent(ConfigFromPersona(SeatModerator, mod, p.ModelID), p.Client, p.FallbackModel, p.Logger),
		SeatVisionary: NewAgent(ConfigFromPersona(SeatVisionary, p.Visionary, p.ModelID), p.Client, p.FallbackModel, p.Logger),
		SeatSkeptic:   NewAgent(ConfigFromPersona(SeatSkeptic, p.Skeptic, p.ModelID), p.Client, p.FallbackModel, p.Logger),
	}
	return &Engine{
		client:        p.Client,
		research:      p.Research,
		agents:        agents,
		logger:        p.Logger,
		status:        Status{Phase: PhaseOpening},
		preTurnDelay:  defaultPreTurnDelay,
		postTurnDelay: defaultPostTurnDelay,
		roundGap:      defaultRoundGap,
	}
}

// StartDebate resets the log, gathers the research brief (best effort),
// initializes every seat concurrently, and opens round 1. Any seat
// failing to initialize is fatal to the whole session.
func (e *Engine) StartDebate(ctx context.Context, topic, userContext, userProfile string) error {
	e.mu.Lock()
	e.topic = topic
	e.userContext = userContext
	e.userProfile = userProfile
	e.log = nil
	e.verdict = ""
	e.status = Status{Phase: PhaseOpening}
	e.mu.Unlock()

	var brief string
	if e.research != nil {
		brief = e.research.Gather(ctx, topic)
	}
	e.brief = brief
	shared := composeSharedContext(topic, userContext, brief)

	e.append(Message{
		SpeakerID: SpeakerUser,
		Content:   topic,
		Kind:      KindQuery,
	})

	var wg sync.WaitGroup
	errCh := make(chan *InitializationError, len(e.agents))
	for seat, agent := range e.agents {
		wg.Add(1)
		go func(seat string, agent *Agent) {
			defer wg.Done()
			if err := agent.Initialize(ctx, shared); err != nil {
				errCh <- &InitializationError{SeatID: seat, Err: err}
			}
		}(seat, agent)
	}
	wg.Wait()
	close(errCh)
	if initErr, ok := <-errCh; ok {
		return initErr
	}

	e.mu.Lock()
	e.status = Status{Round: 1, Phase: PhaseDebate, Running: true}
	e.mu.Unlock()

	e.logger.Info("debate started", "topic", topic, "brief_len", len(brief))
	return nil
}

// Run drives the turn loop until the round cap, an early conclusion,
// a pause, or context cancellation. Strictly sequential: each turn's
// prompt depends on the turn before it. Returns when the loop stops;
// after a pause, call Resume and Run again.
func (e *Engine) Run(ctx context.Context) {
	for {
		e.mu.Lock()
		running, phase, round := e.status.Running, e.status.Phase, e.status.Round
		e.mu.Unlock()
		if !running || phase != PhaseDebate {
			return
		}
		if round > MaxRounds {
			e.beginSynthesis()
			return
		}

		for _, seat := range turnOrder {
			if err := e.processTurn(ctx, seat); err != nil {
				return // context cancelled
			}
		}

		e.mu.Lock()
		e.status.Round++
		round = e.status.Round
		e.mu.Unlock()

		if round > MaxRounds {
			e.beginSynthesis()
			return
		}

		if e.moderatorCallsConclusion(ctx) {
			e.logger.Info("moderator called early conclusion", "round", round)
			e.beginSynthesis()
			return
		}

		// Mandatory breath between rounds; paces downstream rate limits.
		if err := sleepCtx(ctx, e.roundGap); err != nil {
			return
		}
	}
}

// processTurn runs one seat's turn: pacing delay, speak, append. Errors
// from the call infrastructure are logged and the turn silently skipped;
// only context cancellation propagates.
func (e *Engine) processTurn(ctx context.Context, seatID string) error {
	agent := e.agents[seatID]

	e.setCurrentSpeaker(seatID)
	defer e.setCurrentSpeaker("")

	if err := sleepCtx(ctx, e.preTurnDelay); err != nil {
		return err
	}

	text, err := agent.Speak(ctx, e.Messages(), e.topic, "")
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Error("turn failed, skipping", "seat", seatID, "error", err)
		return nil
	}

	kind := KindArgument
	if seatID == SeatModerator {
		kind = KindVerdict
	}
	e.append(Message{SpeakerID: seatID, Content: text, Kind: kind})

	return sleepCtx(ctx, e.postTurnDelay)
}

// moderatorCallsConclusion consults the moderator between rounds with
// its default directive. The interim reply is never appended to the log;
// only the sentinel matters.
func (e *Engine) moderatorCallsConclusion(ctx context.Context) bool {
	text, err := e.agents[SeatModerator].Speak(ctx, e.Messages(), e.topic, "")
	if err != nil {
		return false
	}
	return strings.Contains(text, ConclusionSentinel)
}

// GenerateVerdict runs the synthesis pass on the moderator seat.
// Idempotent: once concluded, the stored verdict is returned without a
// further provider call. A failed attempt leaves the phase unchanged so
// the caller can retry.
func (e *Engine) GenerateVerdict(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.status.Phase == PhaseConcluded {
		v := e.verdict
		e.mu.Unlock()
		return v, nil
	}
	// Force-verdict while still debating is allowed; stop the loop.
	e.status.Running = false
	e.status.Phase = PhaseSynthesis
	e.mu.Unlock()

	e.setCurrentSpeaker(SeatModerator)
	defer e.setCurrentSpeaker("")

	// Heavier call, same pacing rationale as turns.
	if err := sleepCtx(ctx, e.preTurnDelay); err != nil {
		return "", err
	}

	text, err := e.agents[SeatModerator].Speak(ctx, e.Messages(), e.topic, verdictDirective(e.userProfile))
	if err != nil {
		return "", err
	}
	if text == Unreachable {
		return "", ErrVerdictUnavailable
	}

	e.mu.Lock()
	e.verdict = text
	e.log = append(e.log, newMessage(Message{
		SpeakerID:  SeatModerator,
		Content:    text,
		Kind:       KindVerdict,
		References: extractLinks(text),
	}))
	e.status.Phase = PhaseConcluded
	e.mu.Unlock()

	e.logger.Info("verdict generated", "len", len(text))
	return text, nil
}

// Pause stops the loop at the next iteration boundary. The in-flight
// turn, if any, runs to completion.
func (e *Engine) Pause() {
	e.mu.Lock()
	e.status.Running = false
	e.mu.Unlock()
}

// Resume re-arms the loop if the debate phase allows it. The caller is
// responsible for invoking Run again.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status.Phase != PhaseDebate {
		return false
	}
	e.status.Running = true
	return true
}

func (e *Engine) beginSynthesis() {
	e.mu.Lock()
	e.status.Running = false
	e.status.Phase = PhaseSynthesis
	e.mu.Unlock()
}

func (e *Engine) setCurrentSpeaker(seatID string) {
	e.mu.Lock()
	e.status.CurrentSpeakerID = seatID
	e.mu.Unlock()
}

func (e *Engine) append(m Message) {
	e.mu.Lock()
	e.log = append(e.log, newMessage(m))
	e.mu.Unlock()
}

// Messages returns a copy of the append-only log.
func (e *Engine) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Message, len(e.log))
	copy(out, e.log)
	return out
}

// Status returns the current debate status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Verdict returns the final synthesis, or "" before conclusion.
func (e *Engine) Verdict() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.verdict
}

// Topic returns the debate topic.
func (e *Engine) Topic() string { return e.topic }

// UserContext returns the caller-supplied context.
func (e *Engine) UserContext() string { return e.userContext }

// Brief returns the research brief gathered at start.
func (e *Engine) Brief() string { return e.brief }

// Configs returns the seat bindings in fixed seat order.
func (e *Engine) Configs() []AgentConfig {
	return []AgentConfig{
		e.agents[SeatModerator].Config(),
		e.agents[SeatVisionary].Config(),
		e.agents[SeatSkeptic].Config(),
	}
}

func composeSharedContext(topic, userContext, brief string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic under discussion: %s\n", topic)
	if userContext != "" {
		fmt.Fprintf(&b, "\nBackground from the user:\n%s\n", userContext)
	}
	if brief != "" {
		fmt.Fprintf(&b, "\nResearch brief (gathered just now):\n%s\n", brief)
	}
	return b.String()
}

func newMessage(m Message) Message {
	if m.ID == "" {
		m.ID = "msg_" + idgen.New()
	}
	if m.CreatedAtMillis == 0 {
		m.CreatedAtMillis = time.Now().UnixMilli()
	}
	return m
}

var mdLinkRe = regexp.MustCompile(`\[[^\]]+\]\((https?://[^)]+)\)`)

// extractLinks pulls the reference URLs out of a verdict's markdown.
func extractLinks(text string) []string {
	matches := mdLinkRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var links []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			links = append(links, m[1])
		}
	}
	return links
}
