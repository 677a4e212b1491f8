package models

import (
	"time"

	"github.com/google/uuid"
)

type InterviewFeedback struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"interview_id"`
	RecruiterID    *uuid.UUID     `gorm:"type:uuid" json:"recruiter_id,omitempty"`
	Rating         int            `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Feedback       string         `gorm:"type:text" json:"feedback"`
	Recommendation Recommendation `gorm:"type:text" json:"recommendation"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (InterviewFeedback) TableName() string {
	return "interview_feedback"
}
