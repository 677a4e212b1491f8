package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AIPrompt caches the generated question script for a job position.
type AIPrompt struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobPositionID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"job_position_id"`
	RoleTitle          string         `gorm:"type:text;not null" json:"role_title"`
	SystemPrompt       string         `gorm:"type:text;not null" json:"system_prompt"`
	QuestionPrompts    pq.StringArray `gorm:"type:text[]" json:"question_prompts"`
	FollowUpPrompts    pq.StringArray `gorm:"type:text[]" json:"follow_up_prompts"`
	EvaluationCriteria string         `gorm:"type:text" json:"evaluation_criteria"`
	IsActive           bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AIPrompt) TableName() string {
	return "ai_prompts"
}
