package dto

import "time"

type SessionResponse struct {
	SessionID        string    `json:"session_id"`
	CreatedAt        time.Time `json:"created_at"`
	LastActivity     time.Time `json:"last_activity"`
	MessageCount     int       `json:"message_count"`
	HasDocument      bool      `json:"has_document"`
	DocumentFilename string    `json:"document_filename,omitempty"`
}

// SessionActivityMessage is the payload published to the activity topic and
// forwarded to websocket watchers of the named session.
type SessionActivityMessage struct {
	Type       string                 `json:"type"`
	SessionID  string                 `json:"session_id"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
