// CLAUDE:SUMMARY Provider-side conversation handles — each agent owns one, history lives here not in the engine
package llm

import "context"

// Conversation is a stateful handle over the stateless Complete API.
// It is seeded with a system instruction and accumulates alternating
// user/assistant turns across Send calls. One debate agent owns exactly
// one Conversation at a time; handles are never shared across sessions.
type Conversation struct {
	client   *Client
	model    string // "provider/model" routing string
	grounded bool
	messages []Message
}

// NewConversation opens a fresh conversation on modelStr seeded with a
// system instruction and no prior turns. If grounded is set and the
// routed provider supports it, generation may consult live web sources.
func (c *Client) NewConversation(modelStr, systemInstruction string, grounded bool) *Conversation {
	msgs := make([]Message, 0, 8)
	if systemInstruction != "" {
		msgs = append(msgs, Message{Role: "system", Content: systemInstruction})
	}
	return &Conversation{
		client:   c,
		model:    modelStr,
		grounded: grounded && c.SupportsGrounding(modelStr),
		messages: msgs,
	}
}

// Send appends promptText as a user turn, requests a completion over the
// full accumulated history, records the assistant reply, and returns it.
// On error the user turn is rolled back so a retry does not duplicate it.
func (v *Conversation) Send(ctx context.Context, promptText string) (string, error) {
	v.messages = append(v.messages, Message{Role: "user", Content: promptText})

	resp, err := v.client.Complete(ctx, Request{
		Model:     v.model,
		Messages:  v.messages,
		Grounding: v.grounded,
	})
	if err != nil {
		v.messages = v.messages[:len(v.messages)-1]
		return "", err
	}

	v.messages = append(v.messages, Message{Role: "assistant", Content: resp.Content})
	return resp.Content, nil
}

// Model returns the routing string this conversation was opened on.
func (v *Conversation) Model() string { return v.model }

// Grounded reports whether live web grounding is active for this handle.
func (v *Conversation) Grounded() bool { return v.grounded }

// Len returns the number of accumulated messages, system turn included.
func (v *Conversation) Len() int { return len(v.messages) }
