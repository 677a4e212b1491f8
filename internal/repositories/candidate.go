package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type CandidateRepository interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Candidate, error)
	SaveProfile(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.HiringStatus) error
	UpdateResume(ctx context.Context, id uuid.UUID, resumeURL, resumeText string) error
	List(ctx context.Context) ([]models.Candidate, error)
	Count(ctx context.Context) (int64, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	if err := r.db.WithContext(ctx).Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&candidate).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&candidate).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("candidate for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

// SaveProfile inserts the candidate or, when a profile already exists for
// the same user, overwrites its editable fields. Status is never touched here.
func (r *candidateRepository) SaveProfile(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error) {
	if candidate.UserID == nil {
		if err := r.Create(ctx, candidate); err != nil {
			return nil, err
		}
		return candidate, nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name", "last_name", "email", "phone", "linkedin_url",
				"skills", "experience_years", "current_position", "updated_at",
			}),
		}).
		Omit("status").
		Create(candidate).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save candidate profile: %w", err)
	}

	return r.FindByUserID(ctx, *candidate.UserID)
}

func (r *candidateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.HiringStatus) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

func (r *candidateRepository) UpdateResume(ctx context.Context, id uuid.UUID, resumeURL, resumeText string) error {
	return r.update(ctx, id, map[string]interface{}{
		"resume_url":  resumeURL,
		"resume_text": resumeText,
		"updated_at":  time.Now(),
	})
}

func (r *candidateRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *candidateRepository) List(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Candidate{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return count, nil
}
