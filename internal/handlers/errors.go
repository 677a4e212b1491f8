package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

// NewErrorHandler maps the service error taxonomy onto HTTP statuses.
// Handlers return errors instead of writing error bodies themselves.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	log = logger.WithFields(log, zap.String("component", "http"))

	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, services.ErrNotFound), errors.Is(err, repositories.ErrNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, services.ErrPreconditionFailed):
			code = fiber.StatusBadRequest
		case errors.Is(err, services.ErrUpstreamUnavailable):
			log.Warn("upstream request failed", zap.String("path", c.Path()), zap.Error(err))
		default:
			log.Error("request failed",
				zap.String("path", c.Path()),
				zap.Any("request_id", c.Locals("requestid")),
				zap.Error(err))
			message = "internal server error"
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
			"code":  code,
		})
	}
}

func badRequest(message string) error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func parseUUID(value, field string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, badRequest(field + " is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, badRequest("invalid " + field + " format")
	}
	return id, nil
}
