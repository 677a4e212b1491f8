package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type JobHandler struct {
	jobRepo repositories.JobPositionRepository
}

func NewJobHandler(jobRepo repositories.JobPositionRepository) *JobHandler {
	return &JobHandler{jobRepo: jobRepo}
}

// HandleList handles GET /jobs?active=true
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.List(c.UserContext(), c.QueryBool("active"))
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}
	if strings.TrimSpace(req.Title) == "" {
		return badRequest("title is required")
	}

	job := &models.JobPosition{IsActive: true}
	if err := applyJobRequest(job, &req); err != nil {
		return err
	}

	if err := h.jobRepo.Create(c.UserContext(), job); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "job position id")
	if err != nil {
		return err
	}

	job, err := h.jobRepo.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(job)
}

// HandleUpdate handles PUT /jobs/:id. Absent fields keep their value.
func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "job position id")
	if err != nil {
		return err
	}

	var req models.JobPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request payload")
	}

	job, err := h.jobRepo.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if err := applyJobRequest(job, &req); err != nil {
		return err
	}

	if err := h.jobRepo.Save(c.UserContext(), job); err != nil {
		return err
	}
	return c.JSON(job)
}

func applyJobRequest(job *models.JobPosition, req *models.JobPositionRequest) error {
	if title := strings.TrimSpace(req.Title); title != "" {
		job.Title = title
	}
	if req.Department != nil {
		job.Department = req.Department
	}
	if req.Description != nil {
		job.Description = req.Description
	}
	if req.Requirements != nil {
		job.Requirements = req.Requirements
	}
	if req.Skills != nil {
		job.Skills = req.Skills
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = req.ExperienceLevel
	}
	if req.SalaryRange != nil {
		job.SalaryRange = req.SalaryRange
	}
	if req.Location != nil {
		job.Location = req.Location
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}
	if req.CreatedBy != nil {
		createdBy, err := uuid.Parse(*req.CreatedBy)
		if err != nil {
			return badRequest("invalid createdBy format")
		}
		job.CreatedBy = &createdBy
	}
	return nil
}
