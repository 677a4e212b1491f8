package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type ApplicationRepository interface {
	FindOrCreate(ctx context.Context, application *models.Application) (*models.Application, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindByCandidateAndJob(ctx context.Context, candidateID, jobPositionID uuid.UUID) (*models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.HiringStatus) error
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// FindOrCreate returns the existing application for the candidate and job,
// inserting one first when none exists.
func (r *applicationRepository) FindOrCreate(ctx context.Context, application *models.Application) (*models.Application, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(application).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return r.FindByCandidateAndJob(ctx, application.CandidateID, application.JobPositionID)
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&application).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &application, nil
}

func (r *applicationRepository) FindByCandidateAndJob(ctx context.Context, candidateID, jobPositionID uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND job_position_id = ?", candidateID, jobPositionID).
		First(&application).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("application for candidate %s and job %s: %w", candidateID, jobPositionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &application, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.HiringStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return fmt.Errorf("failed to update application status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *applicationRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.WithContext(ctx).
		Preload("JobPosition").
		Where("candidate_id = ?", candidateID).
		Order("applied_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}
