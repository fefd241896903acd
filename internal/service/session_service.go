// FILE: internal/service/session_service.go
package service

import (
	"docqa-chat-be/internal/dto"
	"docqa-chat-be/internal/repository/memory"
	"docqa-chat-be/pkg/store"
)

type ISessionService interface {
	Get(id string) *dto.SessionResponse
	List() []*dto.SessionResponse
}

type sessionService struct {
	sessions memory.ISessionStore
}

func NewSessionService(sessions memory.ISessionStore) ISessionService {
	return &sessionService{
		sessions: sessions,
	}
}

// Get returns the session's current state, creating it when the id is
// unknown. Reading a session is how clients bootstrap one.
func (c *sessionService) Get(id string) *dto.SessionResponse {
	sess := c.sessions.GetOrCreate(id)
	return toSessionResponse(sess)
}

// List snapshots every known session in insertion order.
func (c *sessionService) List() []*dto.SessionResponse {
	sessions := c.sessions.List()
	out := make([]*dto.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, toSessionResponse(sess))
	}
	return out
}

func toSessionResponse(sess store.Session) *dto.SessionResponse {
	res := &dto.SessionResponse{
		SessionID:    sess.ID,
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
		MessageCount: sess.MessageCount,
		HasDocument:  sess.HasDocument(),
	}
	if sess.Document != nil {
		res.DocumentFilename = sess.Document.Filename
	}
	return res
}
