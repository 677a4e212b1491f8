package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type AIPromptRepository interface {
	Upsert(ctx context.Context, prompt *models.AIPrompt) error
	FindActiveByJob(ctx context.Context, jobPositionID uuid.UUID) (*models.AIPrompt, error)
}

type aiPromptRepository struct {
	db *gorm.DB
}

func NewAIPromptRepository(db *gorm.DB) AIPromptRepository {
	return &aiPromptRepository{db: db}
}

// Upsert keeps a single prompt row per job position.
func (r *aiPromptRepository) Upsert(ctx context.Context, prompt *models.AIPrompt) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "job_position_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"role_title", "system_prompt", "question_prompts",
				"follow_up_prompts", "evaluation_criteria", "is_active", "updated_at",
			}),
		}).
		Create(prompt).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ai prompt: %w", err)
	}
	return nil
}

func (r *aiPromptRepository) FindActiveByJob(ctx context.Context, jobPositionID uuid.UUID) (*models.AIPrompt, error) {
	var prompt models.AIPrompt
	err := r.db.WithContext(ctx).
		Where("job_position_id = ? AND is_active = ?", jobPositionID, true).
		First(&prompt).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("ai prompt for job %s: %w", jobPositionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find ai prompt: %w", err)
	}
	return &prompt, nil
}
