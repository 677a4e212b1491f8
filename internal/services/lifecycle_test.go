package services

import (
	"errors"
	"testing"
	"time"

	"alfredoptarigan/ai-interviewer/internal/models"
)

func TestDurationMinutes(t *testing.T) {
	cases := []struct {
		in   *float64
		want int
		nil  bool
	}{
		{in: seconds(930), want: 16},
		{in: seconds(60), want: 1},
		{in: seconds(61), want: 2},
		{in: seconds(0.4), want: 1},
		{in: seconds(0), nil: true},
		{in: nil, nil: true},
	}
	for _, tc := range cases {
		got := DurationMinutes(tc.in)
		if tc.nil {
			if got != nil {
				t.Fatalf("expected nil, got %d", *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Fatalf("expected %d, got %v", tc.want, got)
		}
	}
}

func TestPlanWebhookTable(t *testing.T) {
	now := time.Now()
	transcript := "final"

	cases := []struct {
		name   string
		status models.InterviewStatus
		text   *string
		event  string
		data   models.WebhookData
		skip   bool
	}{
		{"started from scheduled", models.InterviewStatusScheduled, nil, EventCallStarted, models.WebhookData{}, false},
		{"started replay", models.InterviewStatusInProgress, nil, EventCallStarted, models.WebhookData{}, false},
		{"started after completion", models.InterviewStatusCompleted, nil, EventCallStarted, models.WebhookData{}, true},
		{"ended from in progress", models.InterviewStatusInProgress, nil, EventCallEnded, models.WebhookData{}, false},
		{"ended replay", models.InterviewStatusCompleted, &transcript, EventCallEnded, models.WebhookData{}, true},
		{"ended after cancel", models.InterviewStatusCancelled, nil, EventCallEnded, models.WebhookData{}, true},
		{"transcript live", models.InterviewStatusInProgress, nil, EventTranscriptUpdate, models.WebhookData{Transcript: "x"}, false},
		{"transcript empty", models.InterviewStatusInProgress, nil, EventTranscriptUpdate, models.WebhookData{Transcript: "  "}, true},
		{"transcript late with final", models.InterviewStatusCompleted, &transcript, EventTranscriptUpdate, models.WebhookData{Transcript: "x"}, true},
		{"transcript late without final", models.InterviewStatusCompleted, nil, EventTranscriptUpdate, models.WebhookData{Transcript: "x"}, false},
		{"recording completed", models.InterviewStatusCompleted, &transcript, EventRecordingAvailable, models.WebhookData{RecordingURL: "u"}, false},
		{"recording cancelled", models.InterviewStatusCancelled, nil, EventRecordingAvailable, models.WebhookData{RecordingURL: "u"}, true},
		{"unknown event", models.InterviewStatusInProgress, nil, "speech-update", models.WebhookData{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			iv := &models.Interview{Status: tc.status, Transcript: tc.text}
			tr := PlanWebhook(iv, tc.event, tc.data, now)
			if (tr.Skip != "") != tc.skip {
				t.Fatalf("skip=%q, expected skip=%v", tr.Skip, tc.skip)
			}
			if !tc.skip && (tr.Update == nil || len(tr.From) == 0) {
				t.Fatalf("expected a guarded update, got %+v", tr)
			}
		})
	}
}

func TestPlanCallEndedFields(t *testing.T) {
	now := time.Now()
	tr := PlanWebhook(&models.Interview{Status: models.InterviewStatusInProgress}, EventCallEnded,
		models.WebhookData{Duration: seconds(930), Transcript: " hi ", RecordingURL: "https://r"}, now)

	if !tr.Completes {
		t.Fatal("call-ended must complete the interview")
	}
	u := tr.Update
	if *u.Status != models.InterviewStatusCompleted || !u.CompletedAt.Equal(now) {
		t.Fatalf("unexpected status update: %+v", u)
	}
	if *u.DurationMinutes != 16 || *u.Transcript != "hi" || *u.AudioURL != "https://r" {
		t.Fatalf("unexpected payload fields: %d %q %q", *u.DurationMinutes, *u.Transcript, *u.AudioURL)
	}

	bare := PlanWebhook(&models.Interview{Status: models.InterviewStatusInProgress}, EventCallEnded, models.WebhookData{}, now)
	if bare.Update.Transcript != nil || bare.Update.AudioURL != nil || bare.Update.DurationMinutes != nil {
		t.Fatalf("absent fields must stay untouched: %+v", bare.Update)
	}
}

func TestPlanEvaluationGuards(t *testing.T) {
	now := time.Now()
	empty := " "
	text := "t"

	if _, err := PlanEvaluation(&models.Interview{Status: models.InterviewStatusCompleted, Transcript: &empty}, parsed(FallbackEvaluation()), now); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed for blank transcript, got %v", err)
	}
	if _, err := PlanEvaluation(&models.Interview{Status: models.InterviewStatusInProgress, Transcript: &text}, parsed(FallbackEvaluation()), now); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed for open interview, got %v", err)
	}

	score := 10
	tr, err := PlanEvaluation(&models.Interview{Status: models.InterviewStatusCompleted, Transcript: &text, AIScore: &score}, fallback(FallbackEvaluation(), "missing score"), now)
	if err != nil {
		t.Fatalf("re-evaluation must be allowed: %v", err)
	}
	if *tr.Update.AIScore != 50 {
		t.Fatalf("expected overwrite with 50, got %d", *tr.Update.AIScore)
	}
	if tr.Update.NeedsManualReview == nil || !*tr.Update.NeedsManualReview {
		t.Fatal("a fallback verdict must be flagged for manual review")
	}
}

func TestPlanEvaluationModelUnavailableOnlyFlags(t *testing.T) {
	text := "t"
	iv := &models.Interview{Status: models.InterviewStatusCompleted, Transcript: &text}

	tr, err := PlanEvaluation(iv, fallback(FallbackEvaluation(), reasonModelError), time.Now())
	if err != nil {
		t.Fatalf("PlanEvaluation: %v", err)
	}
	u := tr.Update
	if u.NeedsManualReview == nil || !*u.NeedsManualReview {
		t.Fatal("expected manual review flag")
	}
	if u.EvaluatedAt != nil || u.AIScore != nil || u.AIRecommendation != nil {
		t.Fatalf("no verdict may be stored while the model is unreachable: %+v", u)
	}
}

func TestPlanEvaluationClearsManualReview(t *testing.T) {
	text := "t"
	iv := &models.Interview{Status: models.InterviewStatusCompleted, Transcript: &text, NeedsManualReview: true}

	tr, err := PlanEvaluation(iv, parsed(models.InterviewEvaluation{Score: 81, Recommendation: models.RecommendationHire}), time.Now())
	if err != nil {
		t.Fatalf("PlanEvaluation: %v", err)
	}
	if tr.Update.NeedsManualReview == nil || *tr.Update.NeedsManualReview {
		t.Fatal("a parsed verdict must clear the manual review flag")
	}
	if tr.Update.EvaluatedAt == nil {
		t.Fatal("expected evaluated_at")
	}
}

func TestPlanCallStart(t *testing.T) {
	now := time.Now()
	tr, err := PlanCallStart(&models.Interview{Status: models.InterviewStatusScheduled}, "c-9", []string{"q"}, now)
	if err != nil {
		t.Fatalf("PlanCallStart: %v", err)
	}
	if *tr.Update.VapiCallID != "c-9" || *tr.Update.Status != models.InterviewStatusInProgress || len(tr.Update.QuestionsAsked) != 1 {
		t.Fatalf("unexpected update: %+v", tr.Update)
	}

	if _, err := PlanCallStart(&models.Interview{Status: models.InterviewStatusCancelled}, "c", nil, now); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got %v", err)
	}
}
