package events

import "time"

// Event type codes mirrored to the EVENTS stream.
const (
	TypeDocumentStored  = "DOCUMENT_STORED"
	TypeChatCompleted   = "CHAT_COMPLETED"
	TypeSessionsEvicted = "SESSIONS_EVICTED"
)

// Completion statuses carried by CHAT_COMPLETED events.
const (
	ChatStatusCompleted = "completed"
	ChatStatusFailed    = "failed"
)

// NewDocumentStoredEvent is emitted after a parsed document replaces the
// context of a session. preview is a shortened slice of the extracted text,
// never the full document.
func NewDocumentStoredEvent(sessionID, filename string, pages, characters int, sizeBytes int64, preview string) Event {
	return BaseEvent{
		Type: TypeDocumentStored,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"filename":   filename,
			"pages":      pages,
			"characters": characters,
			"size_bytes": sizeBytes,
			"preview":    preview,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatCompletedEvent is emitted when a chat stream reaches its terminal
// event. tokenCount counts the fragments actually delivered.
func NewChatCompletedEvent(sessionID string, tokenCount int, elapsedSeconds float64, failed bool) Event {
	status := ChatStatusCompleted
	if failed {
		status = ChatStatusFailed
	}
	return BaseEvent{
		Type: TypeChatCompleted,
		Data: map[string]interface{}{
			"session_id":      sessionID,
			"token_count":     tokenCount,
			"elapsed_seconds": elapsedSeconds,
			"status":          status,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionsEvictedEvent is emitted after an eviction sweep removed at
// least one session.
func NewSessionsEvictedEvent(evicted int, maxAgeSeconds int) Event {
	return BaseEvent{
		Type: TypeSessionsEvicted,
		Data: map[string]interface{}{
			"count":           evicted,
			"max_age_seconds": maxAgeSeconds,
		},
		OccurredAt: time.Now(),
	}
}
