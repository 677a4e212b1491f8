package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type AIHandler struct {
	questions  services.QuestionService
	interviews services.InterviewService
	ai         services.AIService
}

func NewAIHandler(questions services.QuestionService, interviews services.InterviewService, ai services.AIService) *AIHandler {
	return &AIHandler{
		questions:  questions,
		interviews: interviews,
		ai:         ai,
	}
}

// HandleGenerateQuestions handles POST /ai/questions
func (h *AIHandler) HandleGenerateQuestions(c *fiber.Ctx) error {
	var req models.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}

	jobID, err := parseUUID(req.JobPositionID, "jobPositionId")
	if err != nil {
		return err
	}

	res, err := h.questions.GenerateForJob(c.UserContext(), jobID)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// HandleEvaluate handles POST /ai/evaluate
func (h *AIHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}

	interviewID, err := parseUUID(req.InterviewID, "interviewId")
	if err != nil {
		return err
	}

	res, err := h.interviews.Evaluate(c.UserContext(), interviewID)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// HandleFollowUp handles POST /ai/follow-up
func (h *AIHandler) HandleFollowUp(c *fiber.Ctx) error {
	var req models.FollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}
	if req.PreviousResponse == "" || req.OriginalQuestion == "" {
		return badRequest("previousResponse and originalQuestion are required")
	}

	res, err := h.ai.GenerateFollowUps(c.UserContext(), req.PreviousResponse, req.OriginalQuestion, req.JobContext)
	if err != nil {
		return err
	}
	return c.JSON(models.FollowUpResponse{Questions: res.Value, Fallback: res.Fallback})
}
