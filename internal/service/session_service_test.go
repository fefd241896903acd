package service

import (
	"testing"

	"docqa-chat-be/internal/repository/memory"
	"docqa-chat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionGetCreatesUnknownSession(t *testing.T) {
	sessions := memory.NewSessionStore()
	svc := NewSessionService(sessions)

	res := svc.Get("fresh")

	assert.Equal(t, "fresh", res.SessionID)
	assert.Equal(t, 0, res.MessageCount)
	assert.False(t, res.HasDocument)
	assert.Empty(t, res.DocumentFilename)
	assert.False(t, res.CreatedAt.IsZero())
	assert.False(t, res.LastActivity.IsZero())

	// A second read returns the same session, not a new one.
	again := svc.Get("fresh")
	assert.Equal(t, res.CreatedAt, again.CreatedAt)
}

func TestSessionGetReflectsActivity(t *testing.T) {
	sessions := memory.NewSessionStore()
	svc := NewSessionService(sessions)

	sessions.RecordTurn("abc")
	sessions.RecordTurn("abc")
	sessions.StoreDocument("abc", "Some text.", store.DocumentMeta{Filename: "notes.pdf", Pages: 1})

	res := svc.Get("abc")

	assert.Equal(t, 2, res.MessageCount)
	assert.True(t, res.HasDocument)
	assert.Equal(t, "notes.pdf", res.DocumentFilename)
}

func TestSessionListKeepsInsertionOrder(t *testing.T) {
	sessions := memory.NewSessionStore()
	svc := NewSessionService(sessions)

	svc.Get("first")
	sessions.RecordTurn("second")
	sessions.StoreDocument("third", "text", store.DocumentMeta{Filename: "t.pdf", Pages: 1})

	list := svc.List()

	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].SessionID)
	assert.Equal(t, "second", list[1].SessionID)
	assert.Equal(t, "third", list[2].SessionID)

	assert.False(t, list[0].HasDocument)
	assert.True(t, list[2].HasDocument)
	assert.Equal(t, "t.pdf", list[2].DocumentFilename)
}

func TestSessionListEmptyStore(t *testing.T) {
	svc := NewSessionService(memory.NewSessionStore())

	assert.Empty(t, svc.List())
}
