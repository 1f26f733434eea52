// Package council implements the multi-agent debate engine: a roster of
// persona-bound agents driven through research grounding, alternating
// adversarial turns, round-capped convergence, and a final synthesis pass
// that produces a single verdict.
package council

import "github.com/quorumlabs/council/internal/persona"

// Seat identifiers. A debate always staffs exactly these three seats.
const (
	SeatModerator = "moderator"
	SeatVisionary = "visionary"
	SeatSkeptic   = "skeptic"
)

// SpeakerUser marks log entries authored by the requesting user.
const SpeakerUser = "user"

// MessageKind classifies entries in the debate log.
type MessageKind string

const (
	KindQuery     MessageKind = "query"
	KindArgument  MessageKind = "argument"
	KindRebuttal  MessageKind = "rebuttal"
	KindSynthesis MessageKind = "synthesis"
	KindVerdict   MessageKind = "verdict"
)

// Phase is the debate lifecycle state.
type Phase string

const (
	PhaseOpening   Phase = "opening"
	PhaseDebate    Phase = "debate"
	PhaseSynthesis Phase = "synthesis"
	PhaseConcluded Phase = "concluded"
)

// Message is one entry in the append-only debate log. The log is owned
// exclusively by the engine and never mutated after append; it is the
// single source of truth for both turn context windows and the verdict
// transcript.
type Message struct {
	ID              string      `json:"id"`
	SpeakerID       string      `json:"speaker_id"` // seat id or "user"
	Content         string      `json:"content"`
	CreatedAtMillis int64       `json:"created_at_millis"`
	Kind            MessageKind `json:"kind"`
	References      []string    `json:"references,omitempty"`
}

// Status is the externally visible debate state, mutated only by the
// engine.
type Status struct {
	Round            int    `json:"round"`
	Phase            Phase  `json:"phase"`
	CurrentSpeakerID string `json:"current_speaker_id,omitempty"`
	Running          bool   `json:"running"`
}

// AgentConfig binds a persona to a seat for the lifetime of one debate.
// Immutable once the debate starts.
type AgentConfig struct {
	SeatID            string       `json:"seat_id"`
	FunctionalRole    persona.Role `json:"functional_role"`
	DisplayName       string       `json:"display_name"`
	AvatarTag         string       `json:"avatar_tag"`
	Bio               string       `json:"bio"`
	SystemPrompt      string       `json:"system_prompt"`
	CompletionModelID string       `json:"completion_model_id"`
	TopicAffinityTags []string     `json:"topic_affinity_tags,omitempty"`
}

// ConfigFromPersona resolves a persona definition into a seat binding.
func ConfigFromPersona(seatID string, p persona.Definition, modelID string) AgentConfig {
	return AgentConfig{
		SeatID:            seatID,
		FunctionalRole:    p.FunctionalRole,
		DisplayName:       p.DisplayName,
		AvatarTag:         p.AvatarTag,
		Bio:               p.Description,
		SystemPrompt:      p.SystemPrompt,
		CompletionModelID: modelID,
		TopicAffinityTags: p.TopicAffinityTags,
	}
}
