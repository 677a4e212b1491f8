package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type VoiceHandler struct {
	vapi       services.VapiClient
	interviews services.InterviewService
	publicKey  string
}

func NewVoiceHandler(vapi services.VapiClient, interviews services.InterviewService, publicKey string) *VoiceHandler {
	return &VoiceHandler{
		vapi:       vapi,
		interviews: interviews,
		publicKey:  publicKey,
	}
}

// HandleCreateAssistant handles POST /voice/assistant
func (h *VoiceHandler) HandleCreateAssistant(c *fiber.Ctx) error {
	var req models.CreateAssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		return badRequest("jobTitle is required")
	}
	if len(req.Questions) == 0 {
		return badRequest("questions are required")
	}

	assistant := services.BuildInterviewAssistant(req.JobTitle, req.JobDescription, req.Questions, req.CandidateName)
	id, err := h.vapi.CreateAssistant(c.UserContext(), assistant)
	if err != nil {
		return err
	}
	return c.JSON(models.CreateAssistantResponse{AssistantID: id})
}

// HandleStartCall handles POST /voice/call
func (h *VoiceHandler) HandleStartCall(c *fiber.Ctx) error {
	var req models.StartCallRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}
	if req.AssistantID == "" {
		return badRequest("assistantId is required")
	}
	interviewID, err := parseUUID(req.InterviewID, "interviewId")
	if err != nil {
		return err
	}

	res, err := h.interviews.StartCall(c.UserContext(), interviewID, req.AssistantID, nil)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// HandleGetCall handles GET /voice/call?callId=
func (h *VoiceHandler) HandleGetCall(c *fiber.Ctx) error {
	callID := c.Query("callId")
	if callID == "" {
		return badRequest("callId is required")
	}

	call, err := h.vapi.GetCall(c.UserContext(), callID)
	if err != nil {
		return err
	}
	return c.JSON(call)
}

// HandleEndCall handles DELETE /voice/call?callId=
func (h *VoiceHandler) HandleEndCall(c *fiber.Ctx) error {
	callID := c.Query("callId")
	if callID == "" {
		return badRequest("callId is required")
	}

	if err := h.vapi.EndCall(c.UserContext(), callID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleConfig handles GET /voice/config. Only the public key is exposed.
func (h *VoiceHandler) HandleConfig(c *fiber.Ctx) error {
	if h.publicKey == "" {
		return fiber.NewError(fiber.StatusInternalServerError, "vapi public key not configured")
	}
	return c.JSON(fiber.Map{"publicKey": h.publicKey})
}
