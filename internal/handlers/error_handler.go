package handlers

import (
	"errors"

	"resourcesvc/internal/database"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Messages returned by the error handler.
const (
	MsgConstraintViolation = "Constraint violation"
	MsgDatabaseError       = "Database error"
	MsgInternalError       = "Internal server error"
	MsgRouteNotFound       = "Route not found"
)

// NewErrorHandler returns the app-wide fiber.ErrorHandler. It turns any error
// a handler returns into the standard failure envelope. The raw error text is
// added as "details" unless hideDetails is set.
func NewErrorHandler(hideDetails bool, log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg := translate(err)

		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		} else {
			log.Debug("request rejected", zap.Int("status", status), zap.Error(err))
		}

		body := fiber.Map{
			"success": false,
			"error":   msg,
		}
		if !hideDetails {
			body["details"] = err.Error()
		}
		return c.Status(status).JSON(body)
	}
}

func translate(err error) (int, string) {
	if kind, ok := database.KindOf(err); ok {
		if kind == database.KindConstraintViolation {
			return fiber.StatusBadRequest, MsgConstraintViolation
		}
		return fiber.StatusInternalServerError, MsgDatabaseError
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusNotFound {
			return fe.Code, MsgRouteNotFound
		}
		return fe.Code, fe.Message
	}

	return fiber.StatusInternalServerError, MsgInternalError
}
