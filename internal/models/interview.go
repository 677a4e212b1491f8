package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Interview is matched to voice platform events through VapiCallID, and to
// the hiring funnel through ApplicationID. At most one exists per
// candidate and job position.
type Interview struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"application_id"`
	CandidateID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_interviews_candidate_job" json:"candidate_id"`
	JobPositionID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_interviews_candidate_job" json:"job_position_id"`
	RecruiterID       *uuid.UUID      `gorm:"type:uuid" json:"recruiter_id,omitempty"`
	Status            InterviewStatus `gorm:"type:text;not null;default:'scheduled'" json:"status"`
	ScheduledAt       *time.Time      `json:"scheduled_at,omitempty"`
	StartedAt         *time.Time      `json:"started_at,omitempty"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	DurationMinutes   *int            `json:"duration_minutes,omitempty"`
	VapiCallID        *string         `gorm:"type:text;index" json:"vapi_call_id,omitempty"`
	Transcript        *string         `gorm:"type:text" json:"transcript,omitempty"`
	AudioURL          *string         `gorm:"type:text" json:"audio_url,omitempty"`
	AISummary         *string         `gorm:"type:text" json:"ai_summary,omitempty"`
	AIScore           *int            `json:"ai_score,omitempty"`
	AIRecommendation  *Recommendation `gorm:"type:text" json:"ai_recommendation,omitempty"`
	AIReasoning       *string         `gorm:"type:text" json:"ai_reasoning,omitempty"`
	Strengths         pq.StringArray  `gorm:"type:text[]" json:"strengths"`
	Weaknesses        pq.StringArray  `gorm:"type:text[]" json:"weaknesses"`
	QuestionsAsked    pq.StringArray  `gorm:"type:text[]" json:"questions_asked"`
	EvaluatedAt       *time.Time      `json:"evaluated_at,omitempty"`
	NeedsManualReview bool            `gorm:"not null;default:false" json:"needs_manual_review"`
	CreatedAt         time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Candidate   *Candidate          `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	JobPosition *JobPosition        `gorm:"foreignKey:JobPositionID" json:"job_position,omitempty"`
	Application *Application        `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Feedback    []InterviewFeedback `gorm:"foreignKey:InterviewID" json:"feedback,omitempty"`
}

func (Interview) TableName() string {
	return "interviews"
}

func (i *Interview) HasTranscript() bool {
	return i.Transcript != nil && strings.TrimSpace(*i.Transcript) != ""
}

func (i *Interview) IsEvaluated() bool {
	return i.AIScore != nil
}

func (i *Interview) CallID() string {
	if i.VapiCallID == nil {
		return ""
	}
	return *i.VapiCallID
}
