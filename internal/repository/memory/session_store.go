package memory

import (
	"fmt"
	"sync"
	"time"

	"docqa-chat-be/internal/constant"
	"docqa-chat-be/pkg/store"
)

type ISessionStore interface {
	GetOrCreate(id string) store.Session
	RecordTurn(id string)
	StoreDocument(id string, text string, meta store.DocumentMeta)
	HasDocument(id string) bool
	ContextFor(id string) string
	List() []store.Session
	EvictOlderThan(maxAge time.Duration) int
}

// SessionStore is the process-wide session registry. One mutex guards the
// map and the insertion-order slice; every method is synchronous and
// in-memory, so the critical sections stay short.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*store.Session
	order    []string
}

var _ ISessionStore = &SessionStore{}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*store.Session),
	}
}

// getOrCreateLocked returns the live record, creating a zeroed one if
// absent. Caller holds mu.
func (s *SessionStore) getOrCreateLocked(id string) *store.Session {
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	now := time.Now()
	sess := &store.Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.sessions[id] = sess
	s.order = append(s.order, id)
	return sess
}

// GetOrCreate returns a snapshot of the session, creating it if absent.
// Never fails; unknown ids come back as fresh sessions with zero turns.
func (s *SessionStore) GetOrCreate(id string) store.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getOrCreateLocked(id)
}

// RecordTurn counts one chat turn. Count and last-activity move inside one
// critical section so a reader never sees the new count with the old
// timestamp. Creates the session first if absent.
func (s *SessionStore) RecordTurn(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	sess.MessageCount++
	sess.LastActivity = time.Now()
}

// StoreDocument replaces the session's document record, silently: last
// write wins. The message count is untouched, a fresh upload still
// refreshes last-activity so the session survives the next sweep.
func (s *SessionStore) StoreDocument(id string, text string, meta store.DocumentMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	sess.Document = &store.DocumentRecord{DocumentMeta: meta, Text: text}
	sess.LastActivity = time.Now()
}

func (s *SessionStore) HasDocument(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return ok && sess.HasDocument()
}

// ContextFor renders the document block handed to the model, or "" when the
// session has no document. Output is byte-stable across calls with no
// intervening writes.
func (s *SessionStore) ContextFor(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Document == nil {
		return ""
	}
	doc := sess.Document
	return fmt.Sprintf(constant.DocumentContextTemplate, doc.Filename, doc.Pages, doc.Text)
}

// List snapshots all known sessions in insertion order of first reference.
// Under concurrent creation that order is whichever create won the lock
// first, nothing stronger.
func (s *SessionStore) List() []store.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Session, 0, len(s.order))
	for _, id := range s.order {
		if sess, ok := s.sessions[id]; ok {
			out = append(out, *sess)
		}
	}
	return out
}

// EvictOlderThan removes every session whose last-activity is strictly
// older than now-maxAge and returns how many went. A zero maxAge evicts
// everything touched before the call. Session and document leave together
// under the lock, a concurrent reader sees each session fully present or
// fully absent.
func (s *SessionStore) EvictOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	kept := s.order[:0]
	for _, id := range s.order {
		sess, ok := s.sessions[id]
		if !ok {
			continue
		}
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return evicted
}
