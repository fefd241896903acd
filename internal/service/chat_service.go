// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"fmt"

	"docqa-chat-be/internal/constant"
	"docqa-chat-be/internal/repository/memory"
	"docqa-chat-be/pkg/events"
	"docqa-chat-be/pkg/llm"
	"docqa-chat-be/pkg/stream"
)

type IChatService interface {
	StreamChat(ctx context.Context, sessionID string, message string) <-chan stream.Event
}

type chatService struct {
	sessions         memory.ISessionStore
	llmProvider      llm.LLMProvider
	responder        *stream.Responder
	publisherService IPublisherService
}

func NewChatService(
	sessions memory.ISessionStore,
	llmProvider llm.LLMProvider,
	responder *stream.Responder,
	publisherService IPublisherService,
) IChatService {
	return &chatService{
		sessions:         sessions,
		llmProvider:      llmProvider,
		responder:        responder,
		publisherService: publisherService,
	}
}

// StreamChat records the turn, augments the message with the session's
// document context and returns the ordered event stream. The turn counts
// before streaming starts: an attempted turn increments even when the
// answer later fails.
func (c *chatService) StreamChat(ctx context.Context, sessionID string, message string) <-chan stream.Event {
	c.sessions.RecordTurn(sessionID)

	prompt := message
	if docContext := c.sessions.ContextFor(sessionID); docContext != "" {
		prompt = fmt.Sprintf(constant.ChatAugmentedPromptTemplate, docContext, message)
	}

	answer := func(ctx context.Context, prompt string) (string, error) {
		messages := []llm.Message{
			{Role: constant.ChatMessageRoleSystem, Content: constant.ChatSystemPrompt},
			{Role: constant.ChatMessageRoleUser, Content: prompt},
		}
		return c.llmProvider.Chat(ctx, messages)
	}

	inner := c.responder.Stream(ctx, prompt, answer)
	out := make(chan stream.Event)

	go func() {
		defer close(out)
		tokens := 0
		elapsed := 0.0
		failed := false
		terminal := false
		for ev := range inner {
			if ev.Terminal() {
				terminal = true
				tokens = ev.TokenCount
				elapsed = ev.ElapsedSeconds
				failed = ev.Type == stream.EventError
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				// Consumer is gone; the responder notices the same ctx and
				// closes inner on its own.
				return
			}
		}
		// A cancelled stream never reaches a terminal event and publishes
		// no completion.
		if terminal {
			publishActivity(ctx, c.publisherService, sessionID, events.NewChatCompletedEvent(sessionID, tokens, elapsed, failed))
		}
	}()

	return out
}
