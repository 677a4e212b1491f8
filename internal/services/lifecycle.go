package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

// Voice platform event types accepted on the webhook.
const (
	EventCallStarted        = "call-started"
	EventCallEnded          = "call-ended"
	EventTranscriptUpdate   = "transcript-update"
	EventRecordingAvailable = "recording-available"
)

var (
	openStatuses   = []models.InterviewStatus{models.InterviewStatusScheduled, models.InterviewStatusInProgress}
	liveOrComplete = []models.InterviewStatus{models.InterviewStatusScheduled, models.InterviewStatusInProgress, models.InterviewStatusCompleted}
)

// Transition is the persisted effect of one lifecycle event. A transition
// with a non-empty Skip writes nothing.
type Transition struct {
	Update *repositories.InterviewUpdate
	// From is the status set the row must still hold when the update lands.
	From []models.InterviewStatus
	// Completes marks the move into completed, which cascades the
	// application and candidate to interviewed.
	Completes bool
	Skip      string
}

func skip(format string, args ...interface{}) Transition {
	return Transition{Skip: fmt.Sprintf(format, args...)}
}

func isOpen(status models.InterviewStatus) bool {
	return status != "" && !status.IsTerminal()
}

// PlanWebhook decides what a voice event does to the interview it matched.
// Redeliveries and late events resolve to a skip rather than an error.
func PlanWebhook(iv *models.Interview, eventType string, data models.WebhookData, now time.Time) Transition {
	switch eventType {
	case EventCallStarted:
		if !isOpen(iv.Status) {
			return skip("interview already %s", iv.Status)
		}
		status := models.InterviewStatusInProgress
		return Transition{
			Update: &repositories.InterviewUpdate{Status: &status, StartedAtIfUnset: &now},
			From:   openStatuses,
		}

	case EventCallEnded:
		return planCallEnded(iv, data.Duration, data.Transcript, data.RecordingURL, now)

	case EventTranscriptUpdate:
		transcript := strings.TrimSpace(data.Transcript)
		if transcript == "" {
			return skip("empty transcript")
		}
		if isOpen(iv.Status) {
			return Transition{
				Update: &repositories.InterviewUpdate{Transcript: &transcript},
				From:   openStatuses,
			}
		}
		// A late partial transcript may fill a completed call that ended
		// without one, but never replaces the final transcript.
		if iv.Status == models.InterviewStatusCompleted && !iv.HasTranscript() {
			return Transition{
				Update: &repositories.InterviewUpdate{Transcript: &transcript},
				From:   []models.InterviewStatus{models.InterviewStatusCompleted},
			}
		}
		return skip("interview %s with transcript", iv.Status)

	case EventRecordingAvailable:
		recording := strings.TrimSpace(data.RecordingURL)
		if recording == "" {
			return skip("empty recording url")
		}
		if iv.Status == models.InterviewStatusCancelled {
			return skip("interview cancelled")
		}
		return Transition{
			Update: &repositories.InterviewUpdate{AudioURL: &recording},
			From:   liveOrComplete,
		}

	default:
		return skip("unsupported event type %q", eventType)
	}
}

func planCallEnded(iv *models.Interview, durationSeconds *float64, transcript, recording string, now time.Time) Transition {
	if !isOpen(iv.Status) {
		return skip("interview already %s", iv.Status)
	}

	status := models.InterviewStatusCompleted
	update := &repositories.InterviewUpdate{
		Status:          &status,
		CompletedAt:     &now,
		DurationMinutes: DurationMinutes(durationSeconds),
	}
	if t := strings.TrimSpace(transcript); t != "" {
		update.Transcript = &t
	}
	if r := strings.TrimSpace(recording); r != "" {
		update.AudioURL = &r
	}

	return Transition{Update: update, From: openStatuses, Completes: true}
}

// PlanCallStart records a freshly started call. Restarting an in-progress
// interview replaces its call id.
func PlanCallStart(iv *models.Interview, callID string, questions []string, now time.Time) (Transition, error) {
	if !isOpen(iv.Status) {
		return Transition{}, precondition(fmt.Sprintf("interview is %s", iv.Status))
	}

	status := models.InterviewStatusInProgress
	update := &repositories.InterviewUpdate{
		Status:           &status,
		VapiCallID:       &callID,
		StartedAtIfUnset: &now,
	}
	if len(questions) > 0 {
		update.QuestionsAsked = questions
	}
	return Transition{Update: update, From: openStatuses}, nil
}

// PlanSync maps the voice platform's view of a call onto the interview.
func PlanSync(iv *models.Interview, call *Call, now time.Time) Transition {
	switch call.Status {
	case CallStatusEnded:
		var duration *float64
		if secs := call.DurationSeconds(); secs > 0 {
			duration = &secs
		}
		return planCallEnded(iv, duration, call.TranscriptText(), call.Recording(), now)
	case CallStatusInProgress, CallStatusForwarding:
		return PlanWebhook(iv, EventCallStarted, models.WebhookData{CallID: call.ID}, now)
	default:
		return skip("call is %s", call.Status)
	}
}

func PlanCancel(iv *models.Interview) (Transition, error) {
	if !isOpen(iv.Status) {
		return Transition{}, precondition(fmt.Sprintf("interview is %s", iv.Status))
	}
	status := models.InterviewStatusCancelled
	return Transition{
		Update: &repositories.InterviewUpdate{Status: &status},
		From:   openStatuses,
	}, nil
}

// PlanEvaluation stores a verdict on a completed interview. Re-running it
// overwrites the previous verdict. When the model was unreachable only the
// manual review flag is written, so any earlier verdict survives and an
// unscored interview stays pending for the poller.
func PlanEvaluation(iv *models.Interview, result Generated[models.InterviewEvaluation], now time.Time) (Transition, error) {
	if iv.Status != models.InterviewStatusCompleted {
		return Transition{}, precondition(fmt.Sprintf("interview is %s, not completed", iv.Status))
	}
	if !iv.HasTranscript() {
		return Transition{}, precondition("interview has no transcript")
	}

	completed := []models.InterviewStatus{models.InterviewStatusCompleted}
	review := result.Fallback || result.Value.NeedsManualReview

	if result.ModelUnavailable() {
		return Transition{
			Update: &repositories.InterviewUpdate{NeedsManualReview: &review},
			From:   completed,
		}, nil
	}

	eval := result.Value
	summary := eval.Summary
	score := eval.Score
	recommendation := eval.Recommendation
	reasoning := eval.Reasoning

	return Transition{
		Update: &repositories.InterviewUpdate{
			AISummary:         &summary,
			AIScore:           &score,
			AIRecommendation:  &recommendation,
			AIReasoning:       &reasoning,
			Strengths:         nonNil(eval.Strengths),
			Weaknesses:        nonNil(eval.Weaknesses),
			EvaluatedAt:       &now,
			NeedsManualReview: &review,
		},
		From: completed,
	}, nil
}

// DurationMinutes rounds a call length up to whole minutes. Missing or
// non-positive lengths yield nil.
func DurationMinutes(seconds *float64) *int {
	if seconds == nil || *seconds <= 0 {
		return nil
	}
	minutes := int(math.Ceil(*seconds / 60))
	return &minutes
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
