package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type CandidateHandler struct {
	candidateRepo   repositories.CandidateRepository
	applicationRepo repositories.ApplicationRepository
	resume          services.ResumeService
}

func NewCandidateHandler(
	candidateRepo repositories.CandidateRepository,
	applicationRepo repositories.ApplicationRepository,
	resume services.ResumeService,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo:   candidateRepo,
		applicationRepo: applicationRepo,
		resume:          resume,
	}
}

// HandleSaveProfile handles PUT /candidates/profile. A known userId updates
// the existing profile; anything else creates one.
func (h *CandidateHandler) HandleSaveProfile(c *fiber.Ctx) error {
	var req models.CandidateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" || strings.TrimSpace(req.Email) == "" {
		return badRequest("firstName, lastName and email are required")
	}

	candidate := &models.Candidate{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           strings.TrimSpace(req.Email),
		Phone:           req.Phone,
		LinkedinURL:     req.LinkedinURL,
		Skills:          req.Skills,
		ExperienceYears: req.ExperienceYears,
		CurrentPosition: req.CurrentPosition,
	}
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return badRequest("invalid userId format")
		}
		candidate.UserID = &userID
	}

	saved, err := h.candidateRepo.SaveProfile(c.UserContext(), candidate)
	if err != nil {
		return err
	}
	return c.JSON(saved)
}

// HandleList handles GET /candidates
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	candidates, err := h.candidateRepo.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(candidates)
}

// HandleGet handles GET /candidates/:id and includes the candidate's applications.
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "candidate id")
	if err != nil {
		return err
	}

	candidate, err := h.candidateRepo.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	applications, err := h.applicationRepo.ListByCandidate(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"candidate":    candidate,
		"applications": applications,
	})
}

// HandleUploadResume handles POST /candidates/:id/resume
func (h *CandidateHandler) HandleUploadResume(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "candidate id")
	if err != nil {
		return err
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest("resume file is required")
	}

	res, err := h.resume.Upload(c.UserContext(), id, file)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
