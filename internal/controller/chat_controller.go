package controller

import (
	"bufio"
	"context"
	"encoding/json"

	"docqa-chat-be/internal/dto"
	"docqa-chat-be/internal/pkg/serverutils"
	"docqa-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Stream(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat/stream", c.Stream)
}

// Stream answers one chat message as newline-delimited JSON events. The
// response is always 200 once streaming starts; failures inside the stream
// travel as error events, not status codes.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	message := *req.Message

	ctx.Set(fiber.HeaderContentType, "application/x-ndjson")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Session-ID", sessionID)

	// The writer runs after this handler returns, so it must not touch the
	// fiber context. Everything it needs is copied above.
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		for ev := range c.chatService.StreamChat(streamCtx, sessionID, message) {
			line, err := json.Marshal(ev)
			if err != nil {
				return
			}
			if _, err := w.Write(line); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
			// Flush per event; a failed flush means the consumer is gone
			// and cancel stops the stream and the in-flight model call.
			if err := w.Flush(); err != nil {
				return
			}
		}
	})

	return nil
}
