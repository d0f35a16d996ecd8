// Package thread implements the append-only conversation event log: the
// Event and Thread types, the resumability predicate, and the bounded
// context summarization that is the only operation allowed to remove
// events.
package thread

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the kinds of step a Thread can record.
type EventType string

const (
	UserInput      EventType = "user_input"
	LLMResponse    EventType = "llm_response"
	ToolCall       EventType = "tool_call"
	ToolResponse   EventType = "tool_response"
	ContextSummary EventType = "context_summary"
)

// Event is one step in a conversation. Data holds either a primitive, an
// ordered list, or a mapping from string to any JSON-representable value,
// per the shapes documented for each EventType.
type Event struct {
	Type      EventType `json:"type"`
	Step      string    `json:"step,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Thread is the conversation aggregate: a stable id, an append-only event
// log, and free-form caller metadata.
type Thread struct {
	ThreadID string         `json:"thread_id"`
	Events   []Event        `json:"events"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// New constructs a Thread with a freshly generated thread id.
func New() *Thread {
	return &Thread{ThreadID: uuid.NewString(), Metadata: map[string]any{}}
}

// NewWithID constructs a Thread with the given id. Use this when resuming
// a thread whose id was already assigned by a prior persistence.
func NewWithID(threadID string) *Thread {
	if threadID == "" {
		threadID = uuid.NewString()
	}
	return &Thread{ThreadID: threadID, Metadata: map[string]any{}}
}

// AddEvent appends a new event to the thread. step may be empty.
func (t *Thread) AddEvent(typ EventType, data any, step string) {
	if t.ThreadID == "" {
		t.ThreadID = uuid.NewString()
	}
	t.Events = append(t.Events, Event{
		Type:      typ,
		Step:      step,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// AwaitingHumanResponse is true iff the last event is an llm_response whose
// data carries intent == "clarification".
func (t *Thread) AwaitingHumanResponse() bool {
	if len(t.Events) == 0 {
		return false
	}
	last := t.Events[len(t.Events)-1]
	if last.Type != LLMResponse {
		return false
	}
	return intentOf(last.Data) == "clarification"
}

func intentOf(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	intent, _ := m["intent"].(string)
	return intent
}

// Clone returns a copy of the thread with its own Events slice and
// Metadata map, so appending events or setting metadata keys on the copy
// does not affect the receiver. Event.Data values and metadata values are
// not copied: maps or slices held in them are shared with the receiver.
func (t *Thread) Clone() *Thread {
	clone := &Thread{
		ThreadID: t.ThreadID,
		Events:   make([]Event, len(t.Events)),
		Metadata: make(map[string]any, len(t.Metadata)),
	}
	copy(clone.Events, t.Events)
	for k, v := range t.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}

// ToSerialized round-trips the thread to its durable JSON form (see the
// snapshot format documented for the Conversation Store).
func (t *Thread) ToSerialized() ([]byte, error) {
	return json.Marshal(t)
}

// FromSerialized reconstructs a Thread from its durable JSON form.
func FromSerialized(data []byte) (*Thread, error) {
	var t Thread
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
