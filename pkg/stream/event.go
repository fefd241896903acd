package stream

import (
	"encoding/json"
	"time"
)

// EventType discriminates the records of a chat response stream.
type EventType string

const (
	EventStatus EventType = "status"
	EventToken  EventType = "token"
	EventDone   EventType = "done"
	EventError  EventType = "error"
)

// Event is one self-contained record in a response stream. Exactly one
// terminal event (done or error) ends every stream and nothing follows it.
type Event struct {
	Type           EventType `json:"type"`
	Content        string    `json:"content,omitempty"`
	Step           string    `json:"step,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	TokenCount     int       `json:"token_count,omitempty"`
}

// MarshalJSON keeps token_count on every token and terminal event, zero
// included, while status events never carry it. Plain omitempty would drop
// the field from an error event that failed before the first token.
func (e Event) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type           EventType `json:"type"`
		Content        string    `json:"content,omitempty"`
		Step           string    `json:"step,omitempty"`
		Timestamp      time.Time `json:"timestamp"`
		ElapsedSeconds float64   `json:"elapsed_seconds"`
		TokenCount     *int      `json:"token_count,omitempty"`
	}
	w := wire{
		Type:           e.Type,
		Content:        e.Content,
		Step:           e.Step,
		Timestamp:      e.Timestamp,
		ElapsedSeconds: e.ElapsedSeconds,
	}
	if e.Type != EventStatus {
		w.TokenCount = &e.TokenCount
	}
	return json.Marshal(w)
}

func NewStatusEvent(step string, elapsed float64) Event {
	return Event{
		Type:           EventStatus,
		Step:           step,
		Timestamp:      time.Now(),
		ElapsedSeconds: elapsed,
	}
}

func NewTokenEvent(content string, count int, elapsed float64) Event {
	return Event{
		Type:           EventToken,
		Content:        content,
		Timestamp:      time.Now(),
		ElapsedSeconds: elapsed,
		TokenCount:     count,
	}
}

func NewDoneEvent(count int, elapsed float64) Event {
	return Event{
		Type:           EventDone,
		Timestamp:      time.Now(),
		ElapsedSeconds: elapsed,
		TokenCount:     count,
	}
}

func NewErrorEvent(message string, count int, elapsed float64) Event {
	return Event{
		Type:           EventError,
		Content:        message,
		Timestamp:      time.Now(),
		ElapsedSeconds: elapsed,
		TokenCount:     count,
	}
}

// Terminal reports whether the event closes its stream.
func (e Event) Terminal() bool {
	return e.Type == EventDone || e.Type == EventError
}
