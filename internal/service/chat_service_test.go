package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"docqa-chat-be/internal/constant"
	"docqa-chat-be/internal/repository/memory"
	"docqa-chat-be/pkg/events"
	"docqa-chat-be/pkg/llm"
	"docqa-chat-be/pkg/store"
	"docqa-chat-be/pkg/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	mu      sync.Mutex
	history []llm.Message
	reply   string
	err     error
	waitCtx bool
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	p.mu.Lock()
	p.history = append([]llm.Message(nil), history...)
	p.mu.Unlock()
	if p.waitCtx {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.reply, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}}, options...)
}

func (p *stubProvider) lastHistory() []llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history
}

func newChatFixture(provider *stubProvider) (IChatService, memory.ISessionStore, *capturePublisher) {
	sessions := memory.NewSessionStore()
	pub := &capturePublisher{}
	svc := NewChatService(sessions, provider, stream.NewResponder(0, 0), pub)
	return svc, sessions, pub
}

func drainEvents(ch <-chan stream.Event) []stream.Event {
	var out []stream.Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func TestStreamChatOrderedEvents(t *testing.T) {
	provider := &stubProvider{reply: "Paris is the capital of France"}
	svc, _, _ := newChatFixture(provider)

	got := drainEvents(svc.StreamChat(context.Background(), "abc", "What is the capital?"))

	require.Len(t, got, 10)

	steps := []string{"Analyzing", "Searching knowledge", "Generating response"}
	for i, step := range steps {
		assert.Equal(t, stream.EventStatus, got[i].Type)
		assert.Equal(t, step, got[i].Step)
	}

	words := []string{"Paris", "is", "the", "capital", "of", "France"}
	for i, word := range words {
		ev := got[3+i]
		assert.Equal(t, stream.EventToken, ev.Type)
		assert.Equal(t, word, ev.Content)
		assert.Equal(t, i+1, ev.TokenCount)
	}

	last := got[len(got)-1]
	assert.Equal(t, stream.EventDone, last.Type)
	assert.Equal(t, 6, last.TokenCount)
}

func TestStreamChatRecordsTurnBeforeStreaming(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	svc, sessions, _ := newChatFixture(provider)

	ch := svc.StreamChat(context.Background(), "abc", "hello")

	// The turn is counted synchronously, before any event is consumed.
	assert.Equal(t, 1, sessions.GetOrCreate("abc").MessageCount)
	drainEvents(ch)
}

func TestStreamChatCountsFailedTurns(t *testing.T) {
	provider := &stubProvider{err: errors.New("model overloaded")}
	svc, sessions, _ := newChatFixture(provider)

	drainEvents(svc.StreamChat(context.Background(), "abc", "hello"))

	assert.Equal(t, 1, sessions.GetOrCreate("abc").MessageCount)
}

func TestStreamChatAugmentsPromptWithDocument(t *testing.T) {
	provider := &stubProvider{reply: "Blue."}
	svc, sessions, _ := newChatFixture(provider)

	sessions.StoreDocument("abc", "The sky is blue.", store.DocumentMeta{
		Filename: "sky.pdf",
		Pages:    1,
	})

	drainEvents(svc.StreamChat(context.Background(), "abc", "What color is the sky?"))

	history := provider.lastHistory()
	require.Len(t, history, 2)
	assert.Equal(t, constant.ChatMessageRoleSystem, history[0].Role)
	assert.Equal(t, constant.ChatSystemPrompt, history[0].Content)

	docContext := fmt.Sprintf(constant.DocumentContextTemplate, "sky.pdf", 1, "The sky is blue.")
	want := fmt.Sprintf(constant.ChatAugmentedPromptTemplate, docContext, "What color is the sky?")
	assert.Equal(t, constant.ChatMessageRoleUser, history[1].Role)
	assert.Equal(t, want, history[1].Content)
}

func TestStreamChatWithoutDocumentUsesBareMessage(t *testing.T) {
	provider := &stubProvider{reply: "Hi."}
	svc, _, _ := newChatFixture(provider)

	drainEvents(svc.StreamChat(context.Background(), "abc", "Just saying hello"))

	history := provider.lastHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "Just saying hello", history[1].Content)
}

func TestStreamChatPublishesCompletion(t *testing.T) {
	provider := &stubProvider{reply: "one two three"}
	svc, _, pub := newChatFixture(provider)

	drainEvents(svc.StreamChat(context.Background(), "abc", "count"))

	activities := pub.activities(t)
	require.Len(t, activities, 1)
	assert.Equal(t, events.TypeChatCompleted, activities[0].Type)
	assert.Equal(t, "abc", activities[0].SessionID)
	assert.Equal(t, float64(3), activities[0].Data["token_count"])
	assert.Equal(t, events.ChatStatusCompleted, activities[0].Data["status"])
}

func TestStreamChatErrorEndsStreamAndMarksFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("model overloaded")}
	svc, _, pub := newChatFixture(provider)

	got := drainEvents(svc.StreamChat(context.Background(), "abc", "hello"))

	// Three statuses, then the error terminal. No tokens, no done.
	require.Len(t, got, 4)
	last := got[len(got)-1]
	assert.Equal(t, stream.EventError, last.Type)
	assert.Equal(t, "model overloaded", last.Content)
	assert.Equal(t, 0, last.TokenCount)

	activities := pub.activities(t)
	require.Len(t, activities, 1)
	assert.Equal(t, events.TypeChatCompleted, activities[0].Type)
	assert.Equal(t, events.ChatStatusFailed, activities[0].Data["status"])
	assert.Equal(t, float64(0), activities[0].Data["token_count"])
}

func TestStreamChatCancelledPublishesNothing(t *testing.T) {
	provider := &stubProvider{waitCtx: true}
	svc, _, pub := newChatFixture(provider)

	ctx, cancel := context.WithCancel(context.Background())
	ch := svc.StreamChat(ctx, "abc", "hello")

	for i := 0; i < 3; i++ {
		select {
		case ev := <-ch:
			assert.Equal(t, stream.EventStatus, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("status event never arrived")
		}
	}

	cancel()
	rest := drainEvents(ch)

	// A cancelled stream ends without a terminal event and reports nothing.
	for _, ev := range rest {
		assert.False(t, ev.Terminal())
	}
	assert.Empty(t, pub.activities(t))
}
