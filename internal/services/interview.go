package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

// ReplayGuard reports whether a webhook delivery key is seen for the first time.
type ReplayGuard interface {
	FirstDelivery(ctx context.Context, key string) bool
}

// EvaluationQueue accepts interviews that are ready to be scored.
type EvaluationQueue interface {
	EnqueueJob(interviewID uuid.UUID)
}

type InterviewService interface {
	Open(ctx context.Context, candidateID, jobPositionID uuid.UUID) (*models.Interview, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	List(ctx context.Context, filter repositories.InterviewFilter) ([]models.Interview, error)
	Start(ctx context.Context, id uuid.UUID) (*models.StartInterviewResponse, error)
	StartCall(ctx context.Context, id uuid.UUID, assistantID string, questions []string) (*models.StartCallResponse, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload, raw []byte) error
	ReconcileCall(ctx context.Context, call *Call) error
	Sync(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Evaluate(ctx context.Context, id uuid.UUID) (*models.EvaluateResponse, error)
	Calls(ctx context.Context) ([]models.CallOverview, error)
	SetEvaluationQueue(queue EvaluationQueue)
}

type InterviewOptions struct {
	Guard ReplayGuard
	Index InterviewIndex
}

type interviewService struct {
	interviewRepo   repositories.InterviewRepository
	applicationRepo repositories.ApplicationRepository
	candidateRepo   repositories.CandidateRepository
	jobRepo         repositories.JobPositionRepository
	questions       QuestionService
	ai              AIService
	vapi            VapiClient
	guard           ReplayGuard
	index           InterviewIndex
	queue           EvaluationQueue
	now             func() time.Time
	log             *zap.Logger
}

func NewInterviewService(
	interviewRepo repositories.InterviewRepository,
	applicationRepo repositories.ApplicationRepository,
	candidateRepo repositories.CandidateRepository,
	jobRepo repositories.JobPositionRepository,
	questions QuestionService,
	ai AIService,
	vapi VapiClient,
	opts InterviewOptions,
	log *zap.Logger,
) InterviewService {
	return &interviewService{
		interviewRepo:   interviewRepo,
		applicationRepo: applicationRepo,
		candidateRepo:   candidateRepo,
		jobRepo:         jobRepo,
		questions:       questions,
		ai:              ai,
		vapi:            vapi,
		guard:           opts.Guard,
		index:           opts.Index,
		now:             time.Now,
		log:             logger.WithFields(log, zap.String("component", "interviews")),
	}
}

func (s *interviewService) SetEvaluationQueue(queue EvaluationQueue) {
	s.queue = queue
}

// Open returns the candidate's interview for the job, creating it on first
// visit. The candidate must have applied.
func (s *interviewService) Open(ctx context.Context, candidateID, jobPositionID uuid.UUID) (*models.Interview, error) {
	application, err := s.applicationRepo.FindByCandidateAndJob(ctx, candidateID, jobPositionID)
	if err != nil {
		return nil, notFound(err, "application")
	}

	now := s.now()
	interview, err := s.interviewRepo.FindOrCreate(ctx, &models.Interview{
		ApplicationID: application.ID,
		CandidateID:   candidateID,
		JobPositionID: jobPositionID,
		Status:        models.InterviewStatusScheduled,
		ScheduledAt:   &now,
	})
	if err != nil {
		return nil, err
	}
	return interview, nil
}

func (s *interviewService) Get(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.interviewRepo.FindDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, "interview")
	}
	return interview, nil
}

func (s *interviewService) List(ctx context.Context, filter repositories.InterviewFilter) ([]models.Interview, error) {
	return s.interviewRepo.List(ctx, filter)
}

// Start builds the question script, creates the voice assistant and starts
// the call for an open interview.
func (s *interviewService) Start(ctx context.Context, id uuid.UUID) (*models.StartInterviewResponse, error) {
	interview, err := s.interviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "interview")
	}
	if !isOpen(interview.Status) {
		return nil, precondition(fmt.Sprintf("interview is %s", interview.Status))
	}

	job, err := s.jobRepo.FindByID(ctx, interview.JobPositionID)
	if err != nil {
		return nil, notFound(err, "job position")
	}
	candidate, err := s.candidateRepo.FindByID(ctx, interview.CandidateID)
	if err != nil {
		return nil, notFound(err, "candidate")
	}

	questions := s.questions.ScriptFor(ctx, job)

	assistantID, err := s.vapi.CreateAssistant(ctx, BuildInterviewAssistant(job.Title, job.DescriptionText(), questions, candidate.FullName()))
	if err != nil {
		return nil, err
	}

	call, err := s.StartCall(ctx, id, assistantID, questions)
	if err != nil {
		return nil, err
	}

	return &models.StartInterviewResponse{
		InterviewID: id,
		AssistantID: assistantID,
		CallID:      call.CallID,
		Status:      call.Status,
		Questions:   questions,
	}, nil
}

// StartCall starts a call on an existing assistant and binds it to the
// interview. A call that cannot be recorded is ended again, and a call the
// new one replaces is ended once the swap is stored.
func (s *interviewService) StartCall(ctx context.Context, id uuid.UUID, assistantID string, questions []string) (*models.StartCallResponse, error) {
	interview, err := s.interviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "interview")
	}
	if !isOpen(interview.Status) {
		return nil, precondition(fmt.Sprintf("interview is %s", interview.Status))
	}

	call, err := s.vapi.StartCall(ctx, assistantID, "")
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(s.log, zap.String(logger.FieldInterviewID, id.String()), zap.String(logger.FieldCallID, call.ID))

	tr, err := PlanCallStart(interview, call.ID, questions, s.now())
	if err == nil {
		err = s.interviewRepo.Update(ctx, id, tr.Update, tr.From...)
	}
	if err != nil {
		log.Error("failed to record started call, ending it", zap.Error(err))
		if endErr := s.vapi.EndCall(context.WithoutCancel(ctx), call.ID); endErr != nil {
			log.Warn("failed to end orphaned call", zap.Error(endErr))
		}
		if errors.Is(err, repositories.ErrConflict) {
			return nil, precondition("interview changed state while starting")
		}
		return nil, err
	}

	if previous := interview.CallID(); previous != "" && previous != call.ID {
		if endErr := s.vapi.EndCall(context.WithoutCancel(ctx), previous); endErr != nil {
			log.Warn("failed to end replaced call", zap.String("replaced_call_id", previous), zap.Error(endErr))
		}
	}

	log.Info("interview call started")

	status := call.Status
	if status == "" {
		status = CallStatusQueued
	}
	return &models.StartCallResponse{CallID: call.ID, Status: status}, nil
}

// HandleWebhook applies one voice event. Unknown calls, replays and late
// events are logged no-ops. Returned errors are for logging only.
func (s *interviewService) HandleWebhook(ctx context.Context, payload models.WebhookPayload, raw []byte) error {
	log := logger.WithFields(s.log, logger.Webhook(payload.Type, payload.Data.CallID)...)

	if payload.Data.CallID == "" {
		log.Warn("webhook without call id ignored")
		return nil
	}

	if s.guard != nil && len(raw) > 0 {
		sum := sha256.Sum256(raw)
		key := fmt.Sprintf("webhook:%s:%s:%s", payload.Type, payload.Data.CallID, hex.EncodeToString(sum[:]))
		if !s.guard.FirstDelivery(ctx, key) {
			log.Info("duplicate webhook delivery dropped")
			return nil
		}
	}

	interview, err := s.interviewRepo.FindByCallID(ctx, payload.Data.CallID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Info("webhook for unknown call ignored")
			return nil
		}
		return fmt.Errorf("failed to load interview for call: %w", err)
	}

	return s.apply(ctx, interview, PlanWebhook(interview, payload.Type, payload.Data, s.now()), log)
}

// ReconcileCall applies the voice platform's current view of a call to the
// interview bound to it.
func (s *interviewService) ReconcileCall(ctx context.Context, call *Call) error {
	log := logger.WithFields(s.log, zap.String(logger.FieldCallID, call.ID), zap.String("call_status", call.Status))

	interview, err := s.interviewRepo.FindByCallID(ctx, call.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Info("no interview bound to call")
			return nil
		}
		return err
	}

	return s.apply(ctx, interview, PlanSync(interview, call, s.now()), log)
}

// Sync pulls the call state from the voice platform for interviews whose
// webhooks never arrived.
func (s *interviewService) Sync(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.interviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "interview")
	}
	if interview.CallID() == "" {
		return nil, precondition("interview has no call")
	}

	call, err := s.vapi.GetCall(ctx, interview.CallID())
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(s.log, zap.String(logger.FieldInterviewID, id.String()), zap.String(logger.FieldCallID, call.ID))
	if err := s.apply(ctx, interview, PlanSync(interview, call, s.now()), log); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Calls lists the voice platform's calls next to the interviews they belong to.
func (s *interviewService) Calls(ctx context.Context) ([]models.CallOverview, error) {
	calls, err := s.vapi.ListCalls(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.CallOverview, 0, len(calls))
	for _, call := range calls {
		overview := models.CallOverview{
			CallID:      call.ID,
			Status:      call.Status,
			EndedReason: call.EndedReason,
		}

		interview, err := s.interviewRepo.FindByCallID(ctx, call.ID)
		switch {
		case err == nil:
			id := interview.ID
			overview.InterviewID = &id
			overview.InterviewStatus = interview.Status
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("failed to resolve call %s: %w", call.ID, err)
		}

		live := call.Status != CallStatusEnded
		overview.Stray = live && (overview.InterviewID == nil || overview.InterviewStatus.IsTerminal())
		out = append(out, overview)
	}
	return out, nil
}

// Cancel is an administrative stop. Ending the live call is best effort.
func (s *interviewService) Cancel(ctx context.Context, id uuid.UUID) error {
	interview, err := s.interviewRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "interview")
	}

	tr, err := PlanCancel(interview)
	if err != nil {
		return err
	}
	if err := s.interviewRepo.Update(ctx, id, tr.Update, tr.From...); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return precondition("interview changed state while cancelling")
		}
		return err
	}

	log := logger.WithFields(s.log, zap.String(logger.FieldInterviewID, id.String()))
	if callID := interview.CallID(); callID != "" {
		if err := s.vapi.EndCall(ctx, callID); err != nil {
			log.Warn("failed to end call for cancelled interview", zap.String(logger.FieldCallID, callID), zap.Error(err))
		}
	}

	log.Info("interview cancelled")
	return nil
}

// Evaluate scores a completed interview and moves the application along
// the funnel according to the recommendation.
func (s *interviewService) Evaluate(ctx context.Context, id uuid.UUID) (*models.EvaluateResponse, error) {
	interview, err := s.interviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "interview")
	}
	if interview.Status != models.InterviewStatusCompleted {
		return nil, precondition(fmt.Sprintf("interview is %s, not completed", interview.Status))
	}
	if !interview.HasTranscript() {
		return nil, precondition("interview has no transcript")
	}

	job, err := s.jobRepo.FindByID(ctx, interview.JobPositionID)
	if err != nil {
		return nil, notFound(err, "job position")
	}

	result, err := s.ai.EvaluateInterview(ctx, EvaluationInput{
		Transcript:     *interview.Transcript,
		JobTitle:       job.Title,
		JobDescription: job.DescriptionText(),
		QuestionsAsked: interview.QuestionsAsked,
		Skills:         job.Skills,
	})
	if err != nil {
		return nil, err
	}

	tr, err := PlanEvaluation(interview, result, s.now())
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(s.log, zap.String(logger.FieldInterviewID, id.String()))
	if interview.IsEvaluated() && !result.ModelUnavailable() {
		log.Info("re-evaluating interview", zap.Int("previous_score", *interview.AIScore))
	}

	if err := s.interviewRepo.Update(ctx, id, tr.Update, tr.From...); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, precondition("interview changed state while evaluating")
		}
		return nil, err
	}

	status := result.Value.Recommendation.HiringStatus()

	if result.ModelUnavailable() {
		log.Warn("model unavailable, interview flagged for manual review and left pending")
		return &models.EvaluateResponse{
			Evaluation: result.Value,
			Status:     status,
			Fallback:   true,
		}, nil
	}

	s.cascade(ctx, interview, status, log)

	log.Info("interview evaluated",
		zap.Int("score", result.Value.Score),
		zap.String("recommendation", string(result.Value.Recommendation)),
		zap.Bool("fallback", result.Fallback))

	if s.index != nil {
		if err := s.index.IndexInterview(ctx, interview); err != nil {
			log.Warn("failed to index interview transcript", zap.Error(err))
		}
	}

	return &models.EvaluateResponse{
		Evaluation: result.Value,
		Status:     status,
		Fallback:   result.Fallback,
	}, nil
}

func (s *interviewService) apply(ctx context.Context, interview *models.Interview, tr Transition, log *zap.Logger) error {
	log = logger.WithFields(log, zap.String(logger.FieldInterviewID, interview.ID.String()))

	if tr.Skip != "" {
		log.Info("lifecycle event ignored", zap.String("reason", tr.Skip))
		return nil
	}

	if err := s.interviewRepo.Update(ctx, interview.ID, tr.Update, tr.From...); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			log.Info("interview changed state concurrently, event ignored", zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to update interview: %w", err)
	}

	if tr.Completes {
		log.Info("interview completed")
		s.cascade(ctx, interview, models.HiringStatusInterviewed, log)
		if s.queue != nil {
			s.queue.EnqueueJob(interview.ID)
		}
	}
	return nil
}

// cascade mirrors a hiring decision onto the application and candidate.
// Both writes are secondary and never fail the caller.
func (s *interviewService) cascade(ctx context.Context, interview *models.Interview, status models.HiringStatus, log *zap.Logger) {
	if err := s.applicationRepo.UpdateStatus(ctx, interview.ApplicationID, status); err != nil {
		log.Warn("failed to update application status",
			zap.String("application_id", interview.ApplicationID.String()),
			zap.String("status", string(status)),
			zap.Error(err))
	}
	if err := s.candidateRepo.UpdateStatus(ctx, interview.CandidateID, status); err != nil {
		log.Warn("failed to update candidate status",
			zap.String("candidate_id", interview.CandidateID.String()),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}
