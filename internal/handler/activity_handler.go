package handler

import (
	"encoding/json"
	"time"

	"docqa-chat-be/internal/dto"
	"docqa-chat-be/internal/pkg/logger"
	"docqa-chat-be/internal/pkg/serverutils"
	"docqa-chat-be/internal/service"
	internalWS "docqa-chat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ActivityHandler exposes the per-session activity feed over websocket plus
// a debug endpoint that injects synthetic events into the pipeline.
type ActivityHandler struct {
	publisher service.IPublisherService
	hub       *internalWS.Hub
	logger    logger.ILogger
}

func NewActivityHandler(publisher service.IPublisherService, hub *internalWS.Hub, log logger.ILogger) *ActivityHandler {
	return &ActivityHandler{
		publisher: publisher,
		hub:       hub,
		logger:    log,
	}
}

// ServeWs handles websocket requests from the peer. Session keys are opaque
// and unauthenticated; knowing the key grants the feed.
func (h *ActivityHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "session_id is required"))
	}

	// Upgrade via Fiber WebSocket Middleware
	// We handle the upgrade here using the helper which automatically hijacks the connection
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ActivityHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("ActivityHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// DebugTriggerActivity pushes a synthetic event through the real pipeline
// (watermill -> consumer -> hub) to test the flow end to end.
func (h *ActivityHandler) DebugTriggerActivity(c *fiber.Ctx) error {
	type Request struct {
		Type      string                 `json:"type"`
		SessionID string                 `json:"session_id"`
		Payload   map[string]interface{} `json:"payload"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if req.Type == "" {
		req.Type = "TEST_EVENT"
	}
	if req.Payload == nil {
		req.Payload = make(map[string]interface{})
	}

	msg := dto.SessionActivityMessage{
		Type:       req.Type,
		SessionID:  req.SessionID,
		Data:       req.Payload,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	if err := h.publisher.Publish(c.UserContext(), payload); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return c.JSON(serverutils.SuccessResponse("Activity published", msg))
}

// RegisterRoutes registers the activity feed routes.
func (h *ActivityHandler) RegisterRoutes(router fiber.Router) {
	debug := router.Group("/debug")
	debug.Post("/trigger-activity", h.DebugTriggerActivity)

	// WebSocket
	router.Get("/ws/sessions/:session_id", h.ServeWs)
}
