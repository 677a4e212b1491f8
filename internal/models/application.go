package models

import (
	"time"

	"github.com/google/uuid"
)

type Application struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_applications_candidate_job" json:"candidate_id"`
	JobPositionID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_applications_candidate_job" json:"job_position_id"`
	Status        HiringStatus `gorm:"type:text;not null;default:'applied'" json:"status"`
	AppliedAt     time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"applied_at"`
	Notes         *string      `gorm:"type:text" json:"notes,omitempty"`

	Candidate   *Candidate   `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	JobPosition *JobPosition `gorm:"foreignKey:JobPositionID" json:"job_position,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}
