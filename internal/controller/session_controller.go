package controller

import (
	"docqa-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Get("/sessions", c.List)
	r.Get("/sessions/:session_id", c.Show)
}

// Show returns the session's current state. Unknown ids come back as fresh
// sessions, reading one is how clients bootstrap it.
func (c *sessionController) Show(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	return ctx.JSON(c.sessionService.Get(sessionID))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	return ctx.JSON(c.sessionService.List())
}
