package controller

import (
	"io"

	"docqa-chat-be/internal/pkg/serverutils"
	"docqa-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload/pdf", c.Upload)
}

// Upload accepts one multipart PDF for a session. Parse and validation
// failures of the document itself come back in-band with success=false and
// a 200; only a missing file or session id is a request error.
func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return &serverutils.ValidationError{Fields: map[string]string{
			"file": "failed on the 'required' rule",
		}}
	}

	sessionID := ctx.FormValue("session_id")
	if sessionID == "" {
		return &serverutils.ValidationError{Fields: map[string]string{
			"session_id": "failed on the 'required' rule",
		}}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res := c.documentService.UploadPDF(ctx.Context(), sessionID, fileHeader.Filename, content)
	return ctx.JSON(res)
}
