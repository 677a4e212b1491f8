package models

import "github.com/google/uuid"

type QuestionSet struct {
	Role               string   `json:"role"`
	Questions          []string `json:"questions"`
	FollowUpQuestions  []string `json:"followUpQuestions"`
	EvaluationCriteria []string `json:"evaluationCriteria"`
}

type InterviewEvaluation struct {
	Summary           string         `json:"summary"`
	Strengths         []string       `json:"strengths"`
	Weaknesses        []string       `json:"weaknesses"`
	Score             int            `json:"score"`
	Recommendation    Recommendation `json:"recommendation"`
	Reasoning         string         `json:"reasoning"`
	NeedsManualReview bool           `json:"needsManualReview,omitempty"`
}

type GenerateQuestionsRequest struct {
	JobPositionID string `json:"jobPositionId"`
}

type GenerateQuestionsResponse struct {
	QuestionSet
	Fallback bool `json:"fallback"`
}

type EvaluateRequest struct {
	InterviewID string `json:"interviewId"`
}

type EvaluateResponse struct {
	Evaluation InterviewEvaluation `json:"evaluation"`
	Status     HiringStatus        `json:"status"`
	Fallback   bool                `json:"fallback"`
}

type FollowUpRequest struct {
	PreviousResponse string `json:"previousResponse"`
	OriginalQuestion string `json:"originalQuestion"`
	JobContext       string `json:"jobContext"`
}

type FollowUpResponse struct {
	Questions []string `json:"questions"`
	Fallback  bool     `json:"fallback"`
}

type CreateAssistantRequest struct {
	JobTitle       string   `json:"jobTitle"`
	JobDescription string   `json:"jobDescription"`
	Questions      []string `json:"questions"`
	CandidateName  string   `json:"candidateName"`
}

type CreateAssistantResponse struct {
	AssistantID string `json:"assistantId"`
}

type StartCallRequest struct {
	AssistantID string `json:"assistantId"`
	InterviewID string `json:"interviewId"`
}

type StartCallResponse struct {
	CallID string `json:"callId"`
	Status string `json:"status"`
}

// CallOverview pairs a voice platform call with the interview bound to it.
// Stray marks a call that is still live while no open interview owns it.
type CallOverview struct {
	CallID          string          `json:"callId"`
	Status          string          `json:"status"`
	EndedReason     string          `json:"endedReason,omitempty"`
	InterviewID     *uuid.UUID      `json:"interviewId,omitempty"`
	InterviewStatus InterviewStatus `json:"interviewStatus,omitempty"`
	Stray           bool            `json:"stray"`
}

// WebhookPayload is the envelope the voice platform posts to the webhook route.
type WebhookPayload struct {
	Type string      `json:"type"`
	Data WebhookData `json:"data"`
}

type WebhookData struct {
	CallID       string   `json:"callId"`
	AssistantID  string   `json:"assistantId,omitempty"`
	Duration     *float64 `json:"duration,omitempty"`
	Transcript   string   `json:"transcript,omitempty"`
	RecordingURL string   `json:"recordingUrl,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	EndReason    string   `json:"endReason,omitempty"`
}

type JobPositionRequest struct {
	Title           string   `json:"title"`
	Department      *string  `json:"department"`
	Description     *string  `json:"description"`
	Requirements    []string `json:"requirements"`
	Skills          []string `json:"skills"`
	ExperienceLevel *string  `json:"experienceLevel"`
	SalaryRange     *string  `json:"salaryRange"`
	Location        *string  `json:"location"`
	IsActive        *bool    `json:"isActive"`
	CreatedBy       *string  `json:"createdBy"`
}

type CandidateProfileRequest struct {
	UserID          string   `json:"userId"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Phone           *string  `json:"phone"`
	LinkedinURL     *string  `json:"linkedinUrl"`
	Skills          []string `json:"skills"`
	ExperienceYears *int     `json:"experienceYears"`
	CurrentPosition *string  `json:"currentPosition"`
}

type ApplyRequest struct {
	CandidateID   string `json:"candidateId"`
	JobPositionID string `json:"jobPositionId"`
}

type OpenInterviewRequest struct {
	CandidateID   string `json:"candidateId"`
	JobPositionID string `json:"jobPositionId"`
}

type StartInterviewResponse struct {
	InterviewID uuid.UUID `json:"interviewId"`
	AssistantID string    `json:"assistantId"`
	CallID      string    `json:"callId"`
	Status      string    `json:"status"`
	Questions   []string  `json:"questions"`
}

type FeedbackRequest struct {
	RecruiterID    string `json:"recruiterId"`
	Rating         int    `json:"rating"`
	Feedback       string `json:"feedback"`
	Recommendation string `json:"recommendation"`
}

type DashboardStats struct {
	TotalCandidates     int64       `json:"totalCandidates"`
	TotalInterviews     int64       `json:"totalInterviews"`
	CompletedInterviews int64       `json:"completedInterviews"`
	AverageScore        int         `json:"averageScore"`
	RecentActivity      []Interview `json:"recentActivity"`
}

type InterviewSearchHit struct {
	InterviewID   string  `json:"interviewId"`
	JobPositionID string  `json:"jobPositionId"`
	Score         float32 `json:"score"`
	Excerpt       string  `json:"excerpt"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	ResumeURL    string `json:"resume_url"`
	Pages        int    `json:"pages"`
}
