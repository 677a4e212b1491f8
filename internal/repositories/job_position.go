package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type JobPositionRepository interface {
	Create(ctx context.Context, job *models.JobPosition) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.JobPosition, error)
	List(ctx context.Context, activeOnly bool) ([]models.JobPosition, error)
	Save(ctx context.Context, job *models.JobPosition) error
}

type jobPositionRepository struct {
	db *gorm.DB
}

func NewJobPositionRepository(db *gorm.DB) JobPositionRepository {
	return &jobPositionRepository{db: db}
}

func (r *jobPositionRepository) Create(ctx context.Context, job *models.JobPosition) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job position: %w", err)
	}
	return nil
}

func (r *jobPositionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.JobPosition, error) {
	var job models.JobPosition
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("job position %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job position: %w", err)
	}
	return &job, nil
}

func (r *jobPositionRepository) List(ctx context.Context, activeOnly bool) ([]models.JobPosition, error) {
	var jobs []models.JobPosition
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list job positions: %w", err)
	}
	return jobs, nil
}

func (r *jobPositionRepository) Save(ctx context.Context, job *models.JobPosition) error {
	result := r.db.WithContext(ctx).Model(job).Select("*").Omit("id", "created_at").Updates(job)
	if result.Error != nil {
		return fmt.Errorf("failed to update job position: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job position %s: %w", job.ID, ErrNotFound)
	}
	return nil
}
