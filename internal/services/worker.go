package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(interviewID uuid.UUID)
}

// worker scores completed interviews in the background. Jobs come from
// call completion and from a poller that picks up anything missed.
type worker struct {
	interviewRepo repositories.InterviewRepository
	interviews    InterviewService
	jobQueue      chan uuid.UUID
	inFlight      sync.Map
	concurrency   int
	pollInterval  time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
	log           *zap.Logger
}

func NewWorker(
	interviewRepo repositories.InterviewRepository,
	interviews InterviewService,
	concurrency int,
	pollInterval time.Duration,
	log *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &worker{
		interviewRepo: interviewRepo,
		interviews:    interviews,
		jobQueue:      make(chan uuid.UUID, 100),
		concurrency:   concurrency,
		pollInterval:  pollInterval,
		stopChan:      make(chan struct{}),
		log:           logger.WithFields(log, zap.String("component", "worker")),
	}
}

func (w *worker) Start(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.log.Info("evaluation worker started", zap.Int("concurrency", w.concurrency))
}

func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	w.log.Info("evaluation worker stopped")
}

// EnqueueJob never blocks the caller; a full queue leaves the job to the poller.
func (w *worker) EnqueueJob(interviewID uuid.UUID) {
	if _, loaded := w.inFlight.LoadOrStore(interviewID, struct{}{}); loaded {
		return
	}

	select {
	case <-w.stopChan:
		w.inFlight.Delete(interviewID)
	case w.jobQueue <- interviewID:
		w.log.Debug("evaluation enqueued", zap.String(logger.FieldInterviewID, interviewID.String()))
	default:
		w.inFlight.Delete(interviewID)
		w.log.Warn("evaluation queue full, deferring to poller", zap.String(logger.FieldInterviewID, interviewID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case interviewID := <-w.jobQueue:
			w.evaluate(ctx, workerID, interviewID)
		}
	}
}

func (w *worker) evaluate(ctx context.Context, workerID int, interviewID uuid.UUID) {
	defer w.inFlight.Delete(interviewID)

	log := w.log.With(zap.Int("worker", workerID), zap.String(logger.FieldInterviewID, interviewID.String()))

	result, err := w.interviews.Evaluate(ctx, interviewID)
	if err != nil {
		log.Error("auto evaluation failed", zap.Error(err))
		return
	}
	log.Info("auto evaluation completed",
		zap.Int("score", result.Evaluation.Score),
		zap.String("status", string(result.Status)),
		zap.Bool("fallback", result.Fallback))
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.interviewRepo.FindPendingEvaluations(ctx, 10)
			if err != nil {
				w.log.Warn("failed to fetch pending evaluations", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.log.Info("found pending evaluations", zap.Int("count", len(pending)))
			}

			for _, interview := range pending {
				w.EnqueueJob(interview.ID)
			}
		}
	}
}
