package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	AI          *AIHandler
	Voice       *VoiceHandler
	Webhook     *WebhookHandler
	Jobs        *JobHandler
	Candidates  *CandidateHandler
	Application *ApplicationHandler
	Interviews  *InterviewHandler
	Feedback    *FeedbackHandler
	Dashboard   *DashboardHandler
}

// Register mounts every route on router, which is expected to be the /api group.
func (h *Handlers) Register(router fiber.Router) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	ai := router.Group("/ai")
	ai.Post("/questions", h.AI.HandleGenerateQuestions)
	ai.Post("/evaluate", h.AI.HandleEvaluate)
	ai.Post("/follow-up", h.AI.HandleFollowUp)

	voice := router.Group("/voice")
	voice.Post("/assistant", h.Voice.HandleCreateAssistant)
	voice.Post("/call", h.Voice.HandleStartCall)
	voice.Get("/call", h.Voice.HandleGetCall)
	voice.Delete("/call", h.Voice.HandleEndCall)
	voice.Get("/config", h.Voice.HandleConfig)

	router.Post("/webhooks/voice", h.Webhook.HandleVoiceEvent)

	jobs := router.Group("/jobs")
	jobs.Get("/", h.Jobs.HandleList)
	jobs.Post("/", h.Jobs.HandleCreate)
	jobs.Get("/:id", h.Jobs.HandleGet)
	jobs.Put("/:id", h.Jobs.HandleUpdate)

	candidates := router.Group("/candidates")
	candidates.Put("/profile", h.Candidates.HandleSaveProfile)
	candidates.Get("/", h.Candidates.HandleList)
	candidates.Get("/:id", h.Candidates.HandleGet)
	candidates.Post("/:id/resume", h.Candidates.HandleUploadResume)

	router.Post("/applications", h.Application.HandleApply)

	interviews := router.Group("/interviews")
	interviews.Post("/", h.Interviews.HandleOpen)
	interviews.Get("/", h.Interviews.HandleList)
	interviews.Get("/search", h.Interviews.HandleSearch)
	interviews.Get("/:id", h.Interviews.HandleGet)
	interviews.Post("/:id/start", h.Interviews.HandleStart)
	interviews.Post("/:id/sync", h.Interviews.HandleSync)
	interviews.Post("/:id/cancel", h.Interviews.HandleCancel)
	interviews.Post("/:id/feedback", h.Feedback.HandleCreate)
	interviews.Get("/:id/feedback", h.Feedback.HandleList)

	router.Get("/dashboard/stats", h.Dashboard.HandleStats)
}
