package dto

// ChatRequest is the body of POST /chat/stream. Message is a pointer so a
// present-but-empty message passes validation while a missing field fails it.
type ChatRequest struct {
	Message   *string `json:"message" validate:"required"`
	SessionID string  `json:"session_id"`
}
