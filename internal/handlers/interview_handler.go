package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

const defaultSearchLimit = 10

type InterviewHandler struct {
	interviews services.InterviewService
	index      services.InterviewIndex
}

// NewInterviewHandler accepts a nil index; search then answers 500.
func NewInterviewHandler(interviews services.InterviewService, index services.InterviewIndex) *InterviewHandler {
	return &InterviewHandler{
		interviews: interviews,
		index:      index,
	}
}

// HandleOpen handles POST /interviews
func (h *InterviewHandler) HandleOpen(c *fiber.Ctx) error {
	var req models.OpenInterviewRequest
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

	interview, err := h.interviews.Open(c.UserContext(), candidateID, jobID)
	if err != nil {
		return err
	}
	return c.JSON(interview)
}

// HandleList handles GET /interviews?status=&jobPositionId=&candidateId=&limit=
func (h *InterviewHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.InterviewFilter{
		Status: models.InterviewStatus(c.Query("status")),
		Limit:  c.QueryInt("limit", 0),
	}
	if v := c.Query("jobPositionId"); v != "" {
		id, err := parseUUID(v, "jobPositionId")
		if err != nil {
			return err
		}
		filter.JobPositionID = &id
	}
	if v := c.Query("candidateId"); v != "" {
		id, err := parseUUID(v, "candidateId")
		if err != nil {
			return err
		}
		filter.CandidateID = &id
	}

	interviews, err := h.interviews.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(interviews)
}

// HandleGet handles GET /interviews/:id
func (h *InterviewHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "interview id")
	if err != nil {
		return err
	}

	interview, err := h.interviews.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(interview)
}

// HandleSearch handles GET /interviews/search?q=
func (h *InterviewHandler) HandleSearch(c *fiber.Ctx) error {
	if h.index == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "interview search is not configured")
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return badRequest("q is required")
	}

	limit := c.QueryInt("limit", defaultSearchLimit)
	switch {
	case limit < 1:
		limit = defaultSearchLimit
	case limit > services.MaxSearchLimit:
		limit = services.MaxSearchLimit
	}

	hits, err := h.index.Search(c.UserContext(), query, limit)
	if err != nil {
		return err
	}
	return c.JSON(hits)
}

// HandleStart handles POST /interviews/:id/start
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "interview id")
	if err != nil {
		return err
	}

	res, err := h.interviews.Start(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// HandleSync handles POST /interviews/:id/sync
func (h *InterviewHandler) HandleSync(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "interview id")
	if err != nil {
		return err
	}

	interview, err := h.interviews.Sync(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(interview)
}

// HandleCancel handles POST /interviews/:id/cancel
func (h *InterviewHandler) HandleCancel(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "interview id")
	if err != nil {
		return err
	}

	if err := h.interviews.Cancel(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
