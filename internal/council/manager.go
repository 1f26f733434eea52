// CLAUDE:SUMMARY Session manager — independent live engines keyed by session ID, with fire-and-forget persistence
package council

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hazyhaar/pkg/idgen"
	"github.com/quorumlabs/council/internal/llm"
	"github.com/quorumlabs/council/internal/persona"
)

// SessionRecord is the persisted shape of a debate session.
type SessionRecord struct {
	ID          string        `json:"id"`
	Topic       string        `json:"topic"`
	UserContext string        `json:"user_context"`
	UserProfile string        `json:"user_profile"`
	Phase       Phase         `json:"phase"`
	Agents      []AgentConfig `json:"agents"`
	Messages    []Message     `json:"messages"`
	Verdict     string        `json:"verdict,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Store persists session records. Persistence is fire-and-forget from
// the debate's point of view: failures are logged here and never touch
// in-memory state.
type Store interface {
	SaveSession(ctx context.Context, rec *SessionRecord) error
}

// Session is one live debate.
type Session struct {
	ID        string
	Engine    *Engine
	CreatedAt time.Time

	cancel context.CancelFunc
}

// Manager owns all live sessions. Sessions are fully independent; the
// only shared resources are the provider clients.
type Manager struct {
	client        *llm.Client
	research      *ResearchAggregator
	store         Store
	logger        *slog.Logger
	primaryModel  string
	fallbackModel string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager. store may be nil (no persistence).
func NewManager(client *llm.Client, research *ResearchAggregator, store Store, primaryModel, fallbackModel string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:        client,
		research:      research,
		store:         store,
		logger:        logger,
		primaryModel:  primaryModel,
		fallbackModel: fallbackModel,
		sessions:      make(map[string]*Session),
	}
}

// StartDebate creates a session, runs the engine's startup sequence, and
// launches the turn loop in the background. Initialization failure
// propagates and no session is registered.
func (m *Manager) StartDebate(ctx context.Context, topic, userContext, userProfile string, staff persona.Staffing) (*Session, error) {
	engine := NewEngine(Params{
		Client:        m.client,
		Research:      m.research,
		Visionary:     staff.VisionarySeat,
		Skeptic:       staff.SkepticSeat,
		ModelID:       m.primaryModel,
		FallbackModel: m.fallbackModel,
		Logger:        m.logger,
	})

	if err := engine.StartDebate(ctx, topic, userContext, userProfile); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		ID:        "deb_" + idgen.New(),
		Engine:    engine,
		CreatedAt: time.Now(),
		cancel:    cancel,
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	// Opening snapshot so the session is visible in history immediately;
	// the full transcript lands when the loop finishes.
	m.persist(sess)

	go func() {
		engine.Run(runCtx)
		m.persist(sess)
	}()

	m.logger.Info("session opened", "session", sess.ID, "topic", topic)
	return sess, nil
}

// Get returns a live session, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// List returns live sessions, newest first.
func (m *Manager) List() []*Session {
	m.mu.Lock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Pause flips the session's running flag; takes effect at the next loop
// boundary.
func (m *Manager) Pause(id string) bool {
	sess := m.Get(id)
	if sess == nil {
		return false
	}
	sess.Engine.Pause()
	return true
}

// Resume re-arms a paused session and relaunches its loop.
func (m *Manager) Resume(id string) bool {
	sess := m.Get(id)
	if sess == nil || !sess.Engine.Resume() {
		return false
	}
	runCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	go func() {
		sess.Engine.Run(runCtx)
		m.persist(sess)
	}()
	return true
}

// GenerateVerdict forces or completes the synthesis pass for a session.
func (m *Manager) GenerateVerdict(ctx context.Context, id string) (string, error) {
	sess := m.Get(id)
	if sess == nil {
		return "", ErrSessionNotFound
	}
	verdict, err := sess.Engine.GenerateVerdict(ctx)
	if err != nil {
		return "", err
	}
	m.persist(sess)
	return verdict, nil
}

// Close cancels all session loops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.cancel()
	}
}

// persist writes the session snapshot. Failures are logged, never
// propagated: in-memory debate state must not depend on storage.
func (m *Manager) persist(sess *Session) {
	if m.store == nil {
		return
	}
	eng := sess.Engine
	rec := &SessionRecord{
		ID:          sess.ID,
		Topic:       eng.Topic(),
		UserContext: eng.UserContext(),
		UserProfile: eng.userProfile,
		Phase:       eng.Status().Phase,
		Agents:      eng.Configs(),
		Messages:    eng.Messages(),
		Verdict:     eng.Verdict(),
		CreatedAt:   sess.CreatedAt,
	}
	ctx, cancelFn := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelFn()
	if err := m.store.SaveSession(ctx, rec); err != nil {
		m.logger.Error("session persistence failed", "session", sess.ID, "error", err)
	}
}
