package serverutils

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware is the outermost boundary for every request.
// Validation errors become 422 with field details, fiber errors keep their
// status, anything else is logged and answered with a generic 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ERROR] Panic recovered: %v", r)
				_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":  "Internal server error",
					"detail": fmt.Sprintf("%v", r),
				})
			}
		}()

		err := c.Next()
		if err == nil {
			return nil
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(BaseResponse[map[string]string]{
				Success: false,
				Code:    fiber.StatusUnprocessableEntity,
				Message: "Validation failed",
				Data:    ve.Fields,
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		log.Printf("[ERROR] Unhandled error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "Internal server error",
			"detail": err.Error(),
		})
	}
}
