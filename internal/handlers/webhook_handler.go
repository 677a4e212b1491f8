package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type WebhookHandler struct {
	interviews services.InterviewService
	log        *zap.Logger
}

func NewWebhookHandler(interviews services.InterviewService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		interviews: interviews,
		log:        logger.WithFields(log, zap.String("component", "webhook")),
	}
}

// HandleVoiceEvent handles POST /webhooks/voice. The sender always gets a
// success answer so it never starts redelivering; failures are only logged.
func (h *WebhookHandler) HandleVoiceEvent(c *fiber.Ctx) error {
	raw := append([]byte(nil), c.Body()...)

	var payload models.WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.log.Warn("malformed webhook payload", zap.Error(err), zap.String("body", logger.TruncateForLog(string(raw), 200)))
		return c.JSON(fiber.Map{"success": true})
	}

	if err := h.interviews.HandleWebhook(c.UserContext(), payload, raw); err != nil {
		h.log.Error("webhook processing failed",
			append(logger.Webhook(payload.Type, payload.Data.CallID), zap.Error(err))...)
	}

	return c.JSON(fiber.Map{"success": true})
}
