package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"alfredoptarigan/ai-interviewer/internal/models"
)

func questionsJSON(n int, role string) string {
	qs := make([]string, n)
	for i := range qs {
		qs[i] = fmt.Sprintf("%q", fmt.Sprintf("Question %d?", i+1))
	}
	return fmt.Sprintf(`{"role":%q,"questions":[%s],"followUpQuestions":["Why?"],"evaluationCriteria":["Clarity"]}`, role, strings.Join(qs, ","))
}

func TestGenerateQuestionsParsed(t *testing.T) {
	gemini := &fakeGemini{reply: "Here you go:\n```json\n" + questionsJSON(9, "Backend Engineer") + "\n```"}
	svc := NewAIService(gemini, 1, nil)

	res, err := svc.GenerateQuestions(context.Background(), QuestionsInput{JobTitle: "Backend Engineer"})
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if res.Fallback {
		t.Fatalf("unexpected fallback: %s", res.Reason)
	}
	if len(res.Value.Questions) != 9 {
		t.Fatalf("expected 9 questions, got %d", len(res.Value.Questions))
	}
	if !strings.Contains(gemini.prompts[0], "Job Title: Backend Engineer") {
		t.Fatalf("prompt missing job title: %s", gemini.prompts[0])
	}
}

func TestGenerateQuestionsTruncatesToTen(t *testing.T) {
	res := parseQuestionSet(questionsJSON(14, "Role"), "Role")
	if res.Fallback || len(res.Value.Questions) != 10 {
		t.Fatalf("expected 10 parsed questions, got %d (fallback=%v)", len(res.Value.Questions), res.Fallback)
	}
}

func TestGenerateQuestionsFillsMissingParts(t *testing.T) {
	raw := strings.Replace(questionsJSON(8, ""), `"followUpQuestions":["Why?"],"evaluationCriteria":["Clarity"]`, `"followUpQuestions":[],"evaluationCriteria":[]`, 1)
	res := parseQuestionSet(raw, "Data Engineer")
	if res.Fallback {
		t.Fatalf("unexpected fallback: %s", res.Reason)
	}
	def := FallbackQuestionSet("Data Engineer")
	if res.Value.Role != "Data Engineer" {
		t.Fatalf("expected role from job title, got %q", res.Value.Role)
	}
	if !reflect.DeepEqual(res.Value.FollowUpQuestions, def.FollowUpQuestions) {
		t.Fatalf("expected default follow-ups, got %v", res.Value.FollowUpQuestions)
	}
	if !reflect.DeepEqual(res.Value.EvaluationCriteria, def.EvaluationCriteria) {
		t.Fatalf("expected default criteria, got %v", res.Value.EvaluationCriteria)
	}
}

func TestGenerateQuestionsFallbackIsDeterministic(t *testing.T) {
	outputs := []string{
		"I cannot help with that.",
		`{"role": "x", "questions": [`,
		questionsJSON(5, "x"),
		`{"questions": "not a list"}`,
	}

	want := FallbackQuestionSet("Designer")
	for _, out := range outputs {
		res, err := NewAIService(&fakeGemini{reply: out}, 1, nil).GenerateQuestions(context.Background(), QuestionsInput{JobTitle: "Designer"})
		if err != nil {
			t.Fatalf("%q: %v", out, err)
		}
		if !res.Fallback {
			t.Fatalf("%q: expected fallback", out)
		}
		if !reflect.DeepEqual(res.Value, want) {
			t.Fatalf("%q: fallback differs: %+v", out, res.Value)
		}
	}

	if len(want.Questions) != 8 || len(want.FollowUpQuestions) != 5 || len(want.EvaluationCriteria) != 6 {
		t.Fatalf("unexpected fallback shape: %d/%d/%d", len(want.Questions), len(want.FollowUpQuestions), len(want.EvaluationCriteria))
	}
}

func TestGenerateQuestionsModelErrorFallsBack(t *testing.T) {
	res, err := NewAIService(&fakeGemini{err: errors.New("timeout")}, 1, nil).GenerateQuestions(context.Background(), QuestionsInput{JobTitle: "QA"})
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if !res.Fallback || res.Value.Role != "QA" {
		t.Fatalf("expected fallback for QA, got %+v", res)
	}
}

func TestAIServiceWithoutGemini(t *testing.T) {
	svc := NewAIService(nil, 1, nil)

	if _, err := svc.GenerateQuestions(context.Background(), QuestionsInput{JobTitle: "x"}); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("questions: expected ErrUpstreamUnavailable, got %v", err)
	}
	if _, err := svc.EvaluateInterview(context.Background(), EvaluationInput{Transcript: "t"}); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("evaluate: expected ErrUpstreamUnavailable, got %v", err)
	}
	if _, err := svc.GenerateFollowUps(context.Background(), "a", "b", "c"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("follow-ups: expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestEvaluateInterviewRejectsBlankTranscript(t *testing.T) {
	for _, transcript := range []string{"", "   ", "\n\t"} {
		gemini := &fakeGemini{reply: `{"score": 90}`}
		_, err := NewAIService(gemini, 1, nil).EvaluateInterview(context.Background(), EvaluationInput{Transcript: transcript})
		if !errors.Is(err, ErrPreconditionFailed) {
			t.Fatalf("%q: expected ErrPreconditionFailed, got %v", transcript, err)
		}
		if gemini.callCount() != 0 {
			t.Fatalf("%q: model was called", transcript)
		}
	}
}

func TestParseEvaluation(t *testing.T) {
	res := parseEvaluation(`Result: {"summary":" ok ","strengths":["a"," "],"score":104.6,"recommendation":"NO_HIRE","reasoning":"r"}`)
	if res.Fallback {
		t.Fatalf("unexpected fallback: %s", res.Reason)
	}
	if res.Value.Score != 100 {
		t.Fatalf("expected clamped score 100, got %d", res.Value.Score)
	}
	if res.Value.Recommendation != models.RecommendationNoHire {
		t.Fatalf("expected no-hire, got %q", res.Value.Recommendation)
	}
	if res.Value.Summary != "ok" || len(res.Value.Strengths) != 1 {
		t.Fatalf("unexpected evaluation: %+v", res.Value)
	}
	if res.Value.Weaknesses == nil {
		t.Fatal("weaknesses must be an empty list, not nil")
	}

	neg := parseEvaluation(`{"score": -3, "recommendation": "maybe"}`)
	if neg.Value.Score != 0 {
		t.Fatalf("expected clamped score 0, got %d", neg.Value.Score)
	}
}

func TestParseEvaluationFallback(t *testing.T) {
	for _, out := range []string{"no json here", `{"summary": "missing score"}`, `{"score": "high"}`} {
		res := parseEvaluation(out)
		if !res.Fallback {
			t.Fatalf("%q: expected fallback", out)
		}
		if !reflect.DeepEqual(res.Value, FallbackEvaluation()) {
			t.Fatalf("%q: unexpected fallback value %+v", out, res.Value)
		}
	}
	fb := FallbackEvaluation()
	if fb.Score != 50 || fb.Recommendation != models.RecommendationMaybe || !fb.NeedsManualReview {
		t.Fatalf("unexpected fallback evaluation: %+v", fb)
	}
}

func TestNormalizeRecommendation(t *testing.T) {
	cases := map[string]models.Recommendation{
		"hire":      models.RecommendationHire,
		" HIRE ":    models.RecommendationHire,
		"Maybe":     models.RecommendationMaybe,
		"no hire":   models.RecommendationNoHire,
		"no_hire":   models.RecommendationNoHire,
		"NO-HIRE":   models.RecommendationNoHire,
		"nohire":    models.RecommendationNoHire,
		"Strong Go": models.Recommendation("Strong Go"),
	}
	for in, want := range cases {
		if got := NormalizeRecommendation(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestGenerateFollowUps(t *testing.T) {
	ctx := context.Background()

	res, _ := NewAIService(&fakeGemini{reply: `["What stack?", "How long?"]`}, 1, nil).GenerateFollowUps(ctx, "I built it", "Tell me", "Go")
	if res.Fallback || len(res.Value) != 2 {
		t.Fatalf("expected parsed follow-ups, got %+v", res)
	}

	res, _ = NewAIService(&fakeGemini{reply: "No questions."}, 1, nil).GenerateFollowUps(ctx, "a", "b", "c")
	if !res.Fallback || res.Value[0] != "Can you elaborate on that point?" {
		t.Fatalf("expected no-array fallback, got %+v", res)
	}

	res, _ = NewAIService(&fakeGemini{err: errors.New("boom")}, 1, nil).GenerateFollowUps(ctx, "a", "b", "c")
	if !res.Fallback || res.Value[0] != "Can you provide more details?" {
		t.Fatalf("expected error fallback, got %+v", res)
	}
}

func TestExtractJSON(t *testing.T) {
	if _, ok := extractJSONObject("} nothing {"); ok {
		t.Fatal("reversed braces must not match")
	}
	got, ok := extractJSONObject("```json\n{\"a\": {\"b\": 1}}\n```")
	if !ok || got != `{"a": {"b": 1}}` {
		t.Fatalf("unexpected object: %q", got)
	}
	arr, ok := extractJSONArray(`Sure: ["x", "y"] done`)
	if !ok || arr != `["x", "y"]` {
		t.Fatalf("unexpected array: %q", arr)
	}
}
