package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type ApplicationHandler struct {
	applicationRepo repositories.ApplicationRepository
	candidateRepo   repositories.CandidateRepository
	jobRepo         repositories.JobPositionRepository
}

func NewApplicationHandler(
	applicationRepo repositories.ApplicationRepository,
	candidateRepo repositories.CandidateRepository,
	jobRepo repositories.JobPositionRepository,
) *ApplicationHandler {
	return &ApplicationHandler{
		applicationRepo: applicationRepo,
		candidateRepo:   candidateRepo,
		jobRepo:         jobRepo,
	}
}

// HandleApply handles POST /applications. Applying twice returns the
// existing application.
func (h *ApplicationHandler) HandleApply(c *fiber.Ctx) error {
	var req models.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}

	candidateID, err := parseUUID(req.CandidateID, "candidateId")
	if err != nil {
		return err
	}
	jobID, err := parseUUID(req.JobPositionID, "jobPositionId")
	if err != nil {
		return err
	}

	if _, err := h.candidateRepo.FindByID(c.UserContext(), candidateID); err != nil {
		return err
	}
	job, err := h.jobRepo.FindByID(c.UserContext(), jobID)
	if err != nil {
		return err
	}
	if !job.IsActive {
		return badRequest("job position is not accepting applications")
	}

	application, err := h.applicationRepo.FindOrCreate(c.UserContext(), &models.Application{
		CandidateID:   candidateID,
		JobPositionID: jobID,
		Status:        models.HiringStatusApplied,
	})
	if err != nil {
		return err
	}
	return c.JSON(application)
}
