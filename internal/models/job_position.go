package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type JobPosition struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title           string         `gorm:"type:text;not null" json:"title"`
	Department      *string        `gorm:"type:text" json:"department,omitempty"`
	Description     *string        `gorm:"type:text" json:"description,omitempty"`
	Requirements    pq.StringArray `gorm:"type:text[]" json:"requirements"`
	Skills          pq.StringArray `gorm:"type:text[]" json:"skills"`
	ExperienceLevel *string        `gorm:"type:text" json:"experience_level,omitempty"`
	SalaryRange     *string        `gorm:"type:text" json:"salary_range,omitempty"`
	Location        *string        `gorm:"type:text" json:"location,omitempty"`
	IsActive        bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedBy       *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobPosition) TableName() string {
	return "job_positions"
}

// DescriptionText never returns an empty string: a posting without a
// description is described by its title and department.
func (j *JobPosition) DescriptionText() string {
	if j.Description != nil && strings.TrimSpace(*j.Description) != "" {
		return *j.Description
	}
	if j.Department != nil && strings.TrimSpace(*j.Department) != "" {
		return fmt.Sprintf("%s position at %s", j.Title, *j.Department)
	}
	return j.Title + " position"
}

// ExperienceLevelOrDefault falls back to mid-level, which is what question
// generation assumes when a posting leaves the level blank.
func (j *JobPosition) ExperienceLevelOrDefault() string {
	if j.ExperienceLevel == nil || *j.ExperienceLevel == "" {
		return "mid-level"
	}
	return *j.ExperienceLevel
}
