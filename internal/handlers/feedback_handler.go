package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type FeedbackHandler struct {
	feedbackRepo repositories.FeedbackRepository
	interviews   services.InterviewService
}

func NewFeedbackHandler(feedbackRepo repositories.FeedbackRepository, interviews services.InterviewService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackRepo: feedbackRepo,
		interviews:   interviews,
	}
}

// HandleCreate handles POST /interviews/:id/feedback
func (h *FeedbackHandler) HandleCreate(c *fiber.Ctx) error {
	interviewID, err := parseUUID(c.Params("id"), "interview id")
	if err != nil {
		return err
	}

	var req models.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return badRequest("rating must be between 1 and 5")
	}

	feedback := &models.InterviewFeedback{
		InterviewID: interviewID,
		Rating:      req.Rating,
		Feedback:    strings.TrimSpace(req.Feedback),
	}
	if req.Recommendation != "" {
		rec := services.NormalizeRecommendation(req.Recommendation)
		if !rec.IsValid() {
			return badRequest("recommendation must be hire, maybe or no-hire")
		}
		feedback.Recommendation = rec
	}
	if req.RecruiterID != "" {
		recruiterID, err := uuid.Parse(req.RecruiterID)
		if err != nil {
			return badRequest("invalid recruiterId format")
		}
		feedback.RecruiterID = &recruiterID
	}

	if _, err := h.interviews.Get(c.UserContext(), interviewID); err != nil {
		return err
	}
	if err := h.feedbackRepo.Create(c.UserContext(), feedback); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(feedback)
}

// HandleList handles GET /interviews/:id/feedback
func (h *FeedbackHandler) HandleList(c *fiber.Ctx) error {
	interviewID, err := parseUUID(c.Params("id"), "interview id")
	if err != nil {
		return err
	}

	feedback, err := h.feedbackRepo.ListByInterview(c.UserContext(), interviewID)
	if err != nil {
		return err
	}
	return c.JSON(feedback)
}
