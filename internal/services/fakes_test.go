package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type fakeGemini struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	reply   string
	err     error
}

func (f *fakeGemini) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, embeddingSize), nil
}

func (f *fakeGemini) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, _ int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}

func (f *fakeGemini) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeVapi struct {
	mu          sync.Mutex
	nextCallID  string
	startErr    error
	endErr      error
	calls       map[string]*Call
	assistants  []Assistant
	ended       []string
	getSequence []*Call
}

func newFakeVapi() *fakeVapi {
	return &fakeVapi{nextCallID: "call-1", calls: map[string]*Call{}}
}

func (f *fakeVapi) CreateAssistant(_ context.Context, a Assistant) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assistants = append(f.assistants, a)
	return fmt.Sprintf("asst-%d", len(f.assistants)), nil
}

func (f *fakeVapi) StartCall(_ context.Context, assistantID, _ string) (*Call, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	call := &Call{ID: f.nextCallID, AssistantID: assistantID, Status: CallStatusQueued, Type: "webCall"}
	f.calls[call.ID] = call
	return call, nil
}

func (f *fakeVapi) GetCall(_ context.Context, callID string) (*Call, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.getSequence) > 0 {
		next := f.getSequence[0]
		if len(f.getSequence) > 1 {
			f.getSequence = f.getSequence[1:]
		}
		return next, nil
	}
	call, ok := f.calls[callID]
	if !ok {
		return nil, &RequestError{StatusCode: 404, Status: "Not Found"}
	}
	return call, nil
}

func (f *fakeVapi) EndCall(_ context.Context, callID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, callID)
	return f.endErr
}

func (f *fakeVapi) ListCalls(_ context.Context) ([]Call, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, *c)
	}
	return out, nil
}

type fakeInterviewRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*models.Interview
	updates   int
	updateErr error
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{rows: map[uuid.UUID]*models.Interview{}}
}

func (r *fakeInterviewRepo) put(iv *models.Interview) *models.Interview {
	r.mu.Lock()
	defer r.mu.Unlock()
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	cp := *iv
	r.rows[iv.ID] = &cp
	return iv
}

func (r *fakeInterviewRepo) get(id uuid.UUID) models.Interview {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.rows[id]
}

func (r *fakeInterviewRepo) FindOrCreate(_ context.Context, iv *models.Interview) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CandidateID == iv.CandidateID && row.JobPositionID == iv.JobPositionID {
			cp := *row
			return &cp, nil
		}
	}
	iv.ID = uuid.New()
	cp := *iv
	r.rows[iv.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeInterviewRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("interview %s: %w", id, repositories.ErrNotFound)
	}
	cp := *row
	return &cp, nil
}

func (r *fakeInterviewRepo) FindDetail(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeInterviewRepo) FindByCallID(_ context.Context, callID string) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CallID() == callID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("call %s: %w", callID, repositories.ErrNotFound)
}

func (r *fakeInterviewRepo) FindByCandidateAndJob(_ context.Context, candidateID, jobID uuid.UUID) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CandidateID == candidateID && row.JobPositionID == jobID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeInterviewRepo) Update(_ context.Context, id uuid.UUID, u *repositories.InterviewUpdate, from ...models.InterviewStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if len(from) > 0 {
		allowed := false
		for _, s := range from {
			if row.Status == s {
				allowed = true
			}
		}
		if !allowed {
			return repositories.ErrConflict
		}
	}

	r.updates++
	if u.Status != nil {
		row.Status = *u.Status
	}
	if u.VapiCallID != nil {
		v := *u.VapiCallID
		row.VapiCallID = &v
	}
	if u.StartedAt != nil {
		row.StartedAt = u.StartedAt
	} else if u.StartedAtIfUnset != nil && row.StartedAt == nil {
		row.StartedAt = u.StartedAtIfUnset
	}
	if u.CompletedAt != nil {
		row.CompletedAt = u.CompletedAt
	}
	if u.DurationMinutes != nil {
		row.DurationMinutes = u.DurationMinutes
	}
	if u.Transcript != nil {
		row.Transcript = u.Transcript
	}
	if u.AudioURL != nil {
		row.AudioURL = u.AudioURL
	}
	if u.AISummary != nil {
		row.AISummary = u.AISummary
	}
	if u.AIScore != nil {
		row.AIScore = u.AIScore
	}
	if u.AIRecommendation != nil {
		row.AIRecommendation = u.AIRecommendation
	}
	if u.AIReasoning != nil {
		row.AIReasoning = u.AIReasoning
	}
	if u.Strengths != nil {
		row.Strengths = u.Strengths
	}
	if u.Weaknesses != nil {
		row.Weaknesses = u.Weaknesses
	}
	if u.QuestionsAsked != nil {
		row.QuestionsAsked = u.QuestionsAsked
	}
	if u.EvaluatedAt != nil {
		row.EvaluatedAt = u.EvaluatedAt
	}
	if u.NeedsManualReview != nil {
		row.NeedsManualReview = *u.NeedsManualReview
	}
	return nil
}

func (r *fakeInterviewRepo) List(_ context.Context, filter repositories.InterviewFilter) ([]models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Interview
	for _, row := range r.rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		out = append(out, *row)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) FindPendingEvaluations(_ context.Context, limit int) ([]models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Interview
	for _, row := range r.rows {
		if row.Status == models.InterviewStatusCompleted && row.EvaluatedAt == nil && row.HasTranscript() {
			out = append(out, *row)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) FindEvaluated(_ context.Context) ([]models.Interview, error) {
	return nil, nil
}

func (r *fakeInterviewRepo) CountByStatus(_ context.Context, status models.InterviewStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeInterviewRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeInterviewRepo) SumScores(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, row := range r.rows {
		if row.Status == models.InterviewStatusCompleted && row.AIScore != nil {
			sum += int64(*row.AIScore)
		}
	}
	return sum, nil
}

type fakeApplicationRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*models.Application
	updateErr error
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{rows: map[uuid.UUID]*models.Application{}}
}

func (r *fakeApplicationRepo) status(id uuid.UUID) models.HiringStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id].Status
}

func (r *fakeApplicationRepo) FindOrCreate(ctx context.Context, app *models.Application) (*models.Application, error) {
	if existing, err := r.FindByCandidateAndJob(ctx, app.CandidateID, app.JobPositionID); err == nil {
		return existing, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app.ID = uuid.New()
	if app.Status == "" {
		app.Status = models.HiringStatusApplied
	}
	cp := *app
	r.rows[app.ID] = &cp
	return app, nil
}

func (r *fakeApplicationRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeApplicationRepo) FindByCandidateAndJob(_ context.Context, candidateID, jobID uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CandidateID == candidateID && row.JobPositionID == jobID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("application: %w", repositories.ErrNotFound)
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.HiringStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	row.Status = status
	return nil
}

func (r *fakeApplicationRepo) ListByCandidate(_ context.Context, candidateID uuid.UUID) ([]models.Application, error) {
	return nil, nil
}

type fakeCandidateRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{rows: map[uuid.UUID]*models.Candidate{}}
}

func (r *fakeCandidateRepo) status(id uuid.UUID) models.HiringStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id].Status
}

func (r *fakeCandidateRepo) Create(_ context.Context, c *models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = models.HiringStatusApplied
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeCandidateRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("candidate %s: %w", id, repositories.ErrNotFound)
	}
	cp := *row
	return &cp, nil
}

func (r *fakeCandidateRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Candidate, error) {
	return nil, repositories.ErrNotFound
}

func (r *fakeCandidateRepo) SaveProfile(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	return c, r.Create(ctx, c)
}

func (r *fakeCandidateRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.HiringStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	row.Status = status
	return nil
}

func (r *fakeCandidateRepo) UpdateResume(_ context.Context, id uuid.UUID, url, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	row.ResumeURL = &url
	row.ResumeText = &text
	return nil
}

func (r *fakeCandidateRepo) List(_ context.Context) ([]models.Candidate, error) {
	return nil, nil
}

func (r *fakeCandidateRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type fakeJobRepo struct {
	rows map[uuid.UUID]*models.JobPosition
}

func newFakeJobRepo(jobs ...*models.JobPosition) *fakeJobRepo {
	r := &fakeJobRepo{rows: map[uuid.UUID]*models.JobPosition{}}
	for _, j := range jobs {
		if j.ID == uuid.Nil {
			j.ID = uuid.New()
		}
		r.rows[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(_ context.Context, job *models.JobPosition) error {
	job.ID = uuid.New()
	r.rows[job.ID] = job
	return nil
}

func (r *fakeJobRepo) FindByID(_ context.Context, id uuid.UUID) (*models.JobPosition, error) {
	job, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("job position %s: %w", id, repositories.ErrNotFound)
	}
	cp := *job
	return &cp, nil
}

func (r *fakeJobRepo) List(_ context.Context, _ bool) ([]models.JobPosition, error) {
	return nil, nil
}

func (r *fakeJobRepo) Save(_ context.Context, job *models.JobPosition) error {
	r.rows[job.ID] = job
	return nil
}

type fakePromptRepo struct {
	rows map[uuid.UUID]*models.AIPrompt
	err  error
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{rows: map[uuid.UUID]*models.AIPrompt{}}
}

func (r *fakePromptRepo) Upsert(_ context.Context, p *models.AIPrompt) error {
	if r.err != nil {
		return r.err
	}
	cp := *p
	r.rows[p.JobPositionID] = &cp
	return nil
}

func (r *fakePromptRepo) FindActiveByJob(_ context.Context, jobID uuid.UUID) (*models.AIPrompt, error) {
	p, ok := r.rows[jobID]
	if !ok || !p.IsActive {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

type fakeQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (q *fakeQueue) EnqueueJob(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, id)
}

type fakeGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (g *fakeGuard) FirstDelivery(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen == nil {
		g.seen = map[string]bool{}
	}
	if g.seen[key] {
		return false
	}
	g.seen[key] = true
	return true
}

// fixture wires an interview service over in-memory stores with one
// candidate who applied to one job.
type fixture struct {
	svc          *interviewService
	interviews   *fakeInterviewRepo
	applications *fakeApplicationRepo
	candidates   *fakeCandidateRepo
	jobs         *fakeJobRepo
	prompts      *fakePromptRepo
	gemini       *fakeGemini
	vapi         *fakeVapi
	queue        *fakeQueue
	candidate    *models.Candidate
	job          *models.JobPosition
	application  *models.Application
	clock        time.Time
}

func newFixture() *fixture {
	description := "Build and operate Go services."
	job := &models.JobPosition{
		Title:        "Backend Engineer",
		Description:  &description,
		Skills:       []string{"Go", "PostgreSQL", "Kubernetes", "gRPC"},
		Requirements: []string{"5 years of backend development"},
		IsActive:     true,
	}

	f := &fixture{
		interviews:   newFakeInterviewRepo(),
		applications: newFakeApplicationRepo(),
		candidates:   newFakeCandidateRepo(),
		jobs:         newFakeJobRepo(job),
		prompts:      newFakePromptRepo(),
		gemini:       &fakeGemini{},
		vapi:         newFakeVapi(),
		queue:        &fakeQueue{},
		job:          job,
		clock:        time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	ctx := context.Background()
	f.candidate = &models.Candidate{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	_ = f.candidates.Create(ctx, f.candidate)
	f.application, _ = f.applications.FindOrCreate(ctx, &models.Application{CandidateID: f.candidate.ID, JobPositionID: job.ID})

	ai := NewAIService(f.gemini, 1, nil)
	questions := NewQuestionService(f.jobs, f.prompts, ai, nil)
	f.svc = NewInterviewService(f.interviews, f.applications, f.candidates, f.jobs, questions, ai, f.vapi, InterviewOptions{}, nil).(*interviewService)
	f.svc.now = func() time.Time { return f.clock }
	f.svc.SetEvaluationQueue(f.queue)
	return f
}

// openInProgress creates an interview already bound to call-1.
func (f *fixture) openInProgress() *models.Interview {
	callID := "call-1"
	return f.interviews.put(&models.Interview{
		ApplicationID: f.application.ID,
		CandidateID:   f.candidate.ID,
		JobPositionID: f.job.ID,
		Status:        models.InterviewStatusInProgress,
		VapiCallID:    &callID,
	})
}
