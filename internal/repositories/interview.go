package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type InterviewRepository interface {
	FindOrCreate(ctx context.Context, interview *models.Interview) (*models.Interview, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	FindByCallID(ctx context.Context, callID string) (*models.Interview, error)
	FindByCandidateAndJob(ctx context.Context, candidateID, jobPositionID uuid.UUID) (*models.Interview, error)
	Update(ctx context.Context, id uuid.UUID, data *InterviewUpdate, from ...models.InterviewStatus) error
	List(ctx context.Context, filter InterviewFilter) ([]models.Interview, error)
	FindPendingEvaluations(ctx context.Context, limit int) ([]models.Interview, error)
	FindEvaluated(ctx context.Context) ([]models.Interview, error)
	CountByStatus(ctx context.Context, status models.InterviewStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
	SumScores(ctx context.Context) (int64, error)
}

// InterviewUpdate carries the columns a lifecycle step writes. Nil fields
// are left untouched.
type InterviewUpdate struct {
	Status            *models.InterviewStatus
	VapiCallID        *string
	StartedAt         *time.Time
	StartedAtIfUnset  *time.Time
	CompletedAt       *time.Time
	DurationMinutes   *int
	Transcript        *string
	AudioURL          *string
	AISummary         *string
	AIScore           *int
	AIRecommendation  *models.Recommendation
	AIReasoning       *string
	Strengths         []string
	Weaknesses        []string
	QuestionsAsked    []string
	EvaluatedAt       *time.Time
	NeedsManualReview *bool
}

func (u *InterviewUpdate) columns() map[string]interface{} {
	updates := map[string]interface{}{}

	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.VapiCallID != nil {
		updates["vapi_call_id"] = *u.VapiCallID
	}
	if u.StartedAt != nil {
		updates["started_at"] = *u.StartedAt
	} else if u.StartedAtIfUnset != nil {
		updates["started_at"] = gorm.Expr("COALESCE(started_at, ?)", *u.StartedAtIfUnset)
	}
	if u.CompletedAt != nil {
		updates["completed_at"] = *u.CompletedAt
	}
	if u.DurationMinutes != nil {
		updates["duration_minutes"] = *u.DurationMinutes
	}
	if u.Transcript != nil {
		updates["transcript"] = *u.Transcript
	}
	if u.AudioURL != nil {
		updates["audio_url"] = *u.AudioURL
	}
	if u.AISummary != nil {
		updates["ai_summary"] = *u.AISummary
	}
	if u.AIScore != nil {
		updates["ai_score"] = *u.AIScore
	}
	if u.AIRecommendation != nil {
		updates["ai_recommendation"] = *u.AIRecommendation
	}
	if u.AIReasoning != nil {
		updates["ai_reasoning"] = *u.AIReasoning
	}
	if u.Strengths != nil {
		updates["strengths"] = pq.StringArray(u.Strengths)
	}
	if u.Weaknesses != nil {
		updates["weaknesses"] = pq.StringArray(u.Weaknesses)
	}
	if u.QuestionsAsked != nil {
		updates["questions_asked"] = pq.StringArray(u.QuestionsAsked)
	}
	if u.EvaluatedAt != nil {
		updates["evaluated_at"] = *u.EvaluatedAt
	}
	if u.NeedsManualReview != nil {
		updates["needs_manual_review"] = *u.NeedsManualReview
	}

	return updates
}

type InterviewFilter struct {
	Status        models.InterviewStatus
	JobPositionID *uuid.UUID
	CandidateID   *uuid.UUID
	Limit         int
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// FindOrCreate relies on the candidate+job unique index so that concurrent
// openers converge on one row.
func (r *interviewRepository) FindOrCreate(ctx context.Context, interview *models.Interview) (*models.Interview, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(interview).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	return r.FindByCandidateAndJob(ctx, interview.CandidateID, interview.JobPositionID)
}

func (r *interviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id), fmt.Sprintf("interview %s", id))
}

func (r *interviewRepository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	query := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("JobPosition").
		Preload("Feedback", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id)
	return r.first(ctx, query, fmt.Sprintf("interview %s", id))
}

func (r *interviewRepository) FindByCallID(ctx context.Context, callID string) (*models.Interview, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("vapi_call_id = ?", callID), fmt.Sprintf("interview for call %s", callID))
}

func (r *interviewRepository) FindByCandidateAndJob(ctx context.Context, candidateID, jobPositionID uuid.UUID) (*models.Interview, error) {
	query := r.db.WithContext(ctx).Where("candidate_id = ? AND job_position_id = ?", candidateID, jobPositionID)
	return r.first(ctx, query, fmt.Sprintf("interview for candidate %s and job %s", candidateID, jobPositionID))
}

func (r *interviewRepository) first(_ context.Context, query *gorm.DB, what string) (*models.Interview, error) {
	var interview models.Interview
	if err := query.First(&interview).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

// Update writes the non-nil fields of data. When from is given the row must
// currently hold one of those statuses, otherwise ErrConflict is returned and
// nothing is written.
func (r *interviewRepository) Update(ctx context.Context, id uuid.UUID, data *InterviewUpdate, from ...models.InterviewStatus) error {
	updates := data.columns()
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	query := r.db.WithContext(ctx).Model(&models.Interview{}).Where("id = ?", id)
	if len(from) > 0 {
		query = query.Where("status IN ?", from)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update interview: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if len(from) > 0 {
			return fmt.Errorf("interview %s not in %v: %w", id, from, ErrConflict)
		}
		return fmt.Errorf("interview %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *interviewRepository) List(ctx context.Context, filter InterviewFilter) ([]models.Interview, error) {
	var interviews []models.Interview

	query := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("JobPosition").
		Order("created_at DESC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.JobPositionID != nil {
		query = query.Where("job_position_id = ?", *filter.JobPositionID)
	}
	if filter.CandidateID != nil {
		query = query.Where("candidate_id = ?", *filter.CandidateID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&interviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// FindPendingEvaluations returns completed interviews with a transcript that
// have never been scored, oldest first.
func (r *interviewRepository) FindPendingEvaluations(ctx context.Context, limit int) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.WithContext(ctx).
		Where("status = ? AND evaluated_at IS NULL", models.InterviewStatusCompleted).
		Where("transcript IS NOT NULL AND btrim(transcript) <> ''").
		Order("completed_at ASC").
		Limit(limit).
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending evaluations: %w", err)
	}
	return interviews, nil
}

func (r *interviewRepository) FindEvaluated(ctx context.Context) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.WithContext(ctx).
		Where("evaluated_at IS NOT NULL").
		Order("evaluated_at ASC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find evaluated interviews: %w", err)
	}
	return interviews, nil
}

func (r *interviewRepository) CountByStatus(ctx context.Context, status models.InterviewStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Interview{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count interviews: %w", err)
	}
	return count, nil
}

func (r *interviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Interview{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count interviews: %w", err)
	}
	return count, nil
}

func (r *interviewRepository) SumScores(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.Interview{}).
		Select("COALESCE(SUM(ai_score), 0)").
		Where("status = ?", models.InterviewStatusCompleted).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum interview scores: %w", err)
	}
	return sum, nil
}
