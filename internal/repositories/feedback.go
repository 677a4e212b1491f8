package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.InterviewFeedback) error
	ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]models.InterviewFeedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.InterviewFeedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create interview feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepository) ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]models.InterviewFeedback, error) {
	var feedback []models.InterviewFeedback
	err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&feedback).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interview feedback: %w", err)
	}
	return feedback, nil
}
