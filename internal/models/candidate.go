package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Candidate struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID          *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	FirstName       string         `gorm:"type:text;not null" json:"first_name"`
	LastName        string         `gorm:"type:text;not null" json:"last_name"`
	Email           string         `gorm:"type:text;not null" json:"email"`
	Phone           *string        `gorm:"type:text" json:"phone,omitempty"`
	ResumeURL       *string        `gorm:"type:text" json:"resume_url,omitempty"`
	ResumeText      *string        `gorm:"type:text" json:"-"`
	LinkedinURL     *string        `gorm:"type:text" json:"linkedin_url,omitempty"`
	Skills          pq.StringArray `gorm:"type:text[]" json:"skills"`
	ExperienceYears *int           `json:"experience_years,omitempty"`
	CurrentPosition *string        `gorm:"type:text" json:"current_position,omitempty"`
	Status          HiringStatus   `gorm:"type:text;not null;default:'applied'" json:"status"`
	Notes           *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
