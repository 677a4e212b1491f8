package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/models"
)

const (
	minQuestions = 8
	maxQuestions = 10

	questionsTemperature  float32 = 0.7
	evaluationTemperature float32 = 0.2
	followUpTemperature   float32 = 0.7
)

// Generated tells a value decoded from model output apart from a fixed
// fallback. Both are usable; Reason explains a fallback.
type Generated[T any] struct {
	Value    T
	Fallback bool
	Reason   string
}

// reasonModelError marks a fallback produced because the model could not be
// reached at all.
const reasonModelError = "model error"

// ModelUnavailable reports a fallback caused by an upstream failure rather
// than by an unusable reply.
func (g Generated[T]) ModelUnavailable() bool {
	return g.Fallback && g.Reason == reasonModelError
}

func parsed[T any](v T) Generated[T] {
	return Generated[T]{Value: v}
}

func fallback[T any](v T, reason string) Generated[T] {
	return Generated[T]{Value: v, Fallback: true, Reason: reason}
}

type QuestionsInput struct {
	JobTitle        string
	JobDescription  string
	Skills          []string
	ExperienceLevel string
}

type EvaluationInput struct {
	Transcript     string
	JobTitle       string
	JobDescription string
	QuestionsAsked []string
	Skills         []string
}

type AIService interface {
	GenerateQuestions(ctx context.Context, in QuestionsInput) (Generated[models.QuestionSet], error)
	EvaluateInterview(ctx context.Context, in EvaluationInput) (Generated[models.InterviewEvaluation], error)
	GenerateFollowUps(ctx context.Context, previousResponse, originalQuestion, jobContext string) (Generated[[]string], error)
}

type aiService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
	log           *zap.Logger
}

// NewAIService accepts a nil GeminiService; every call then fails with
// ErrUpstreamUnavailable instead of falling back.
func NewAIService(gemini GeminiService, maxRetries int, log *zap.Logger) AIService {
	return &aiService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		log:           logger.WithFields(log, zap.String("component", "ai")),
	}
}

func (s *aiService) ready() error {
	if s.gemini == nil {
		return unavailable("gemini api key not configured")
	}
	return nil
}

func (s *aiService) GenerateQuestions(ctx context.Context, in QuestionsInput) (Generated[models.QuestionSet], error) {
	if err := s.ready(); err != nil {
		return Generated[models.QuestionSet]{}, err
	}

	prompt := s.promptBuilder.BuildQuestionsPrompt(in.JobTitle, in.JobDescription, in.Skills, in.ExperienceLevel)

	text, err := s.gemini.GenerateTextWithRetry(ctx, prompt, questionsTemperature, s.maxRetries)
	if err != nil {
		s.log.Warn("question generation failed, using fallback", zap.Error(err))
		return fallback(FallbackQuestionSet(in.JobTitle), reasonModelError), nil
	}

	result := parseQuestionSet(text, in.JobTitle)
	if result.Fallback {
		s.log.Warn("question generation output rejected, using fallback",
			zap.String("reason", result.Reason),
			zap.String("output", logger.TruncateForLog(text, 200)))
	}
	return result, nil
}

func (s *aiService) EvaluateInterview(ctx context.Context, in EvaluationInput) (Generated[models.InterviewEvaluation], error) {
	if strings.TrimSpace(in.Transcript) == "" {
		return Generated[models.InterviewEvaluation]{}, precondition("interview has no transcript")
	}
	if err := s.ready(); err != nil {
		return Generated[models.InterviewEvaluation]{}, err
	}

	prompt := s.promptBuilder.BuildEvaluationPrompt(in.Transcript, in.JobTitle, in.JobDescription, in.QuestionsAsked, in.Skills)

	text, err := s.gemini.GenerateTextWithRetry(ctx, prompt, evaluationTemperature, s.maxRetries)
	if err != nil {
		s.log.Warn("interview evaluation failed, using fallback", zap.Error(err))
		return fallback(FallbackEvaluation(), reasonModelError), nil
	}

	result := parseEvaluation(text)
	if result.Fallback {
		s.log.Warn("interview evaluation output rejected, using fallback",
			zap.String("reason", result.Reason),
			zap.String("output", logger.TruncateForLog(text, 200)))
	}
	return result, nil
}

func (s *aiService) GenerateFollowUps(ctx context.Context, previousResponse, originalQuestion, jobContext string) (Generated[[]string], error) {
	if err := s.ready(); err != nil {
		return Generated[[]string]{}, err
	}

	prompt := s.promptBuilder.BuildFollowUpPrompt(previousResponse, originalQuestion, jobContext)

	text, err := s.gemini.GenerateTextWithRetry(ctx, prompt, followUpTemperature, s.maxRetries)
	if err != nil {
		s.log.Warn("follow-up generation failed, using fallback", zap.Error(err))
		return fallback([]string{"Can you provide more details?", "How did that work out?"}, reasonModelError), nil
	}

	return parseFollowUps(text), nil
}

type rawEvaluation struct {
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Score          *float64 `json:"score"`
	Recommendation string   `json:"recommendation"`
	Reasoning      string   `json:"reasoning"`
}

func parseQuestionSet(text, jobTitle string) Generated[models.QuestionSet] {
	raw, ok := extractJSONObject(text)
	if !ok {
		return fallback(FallbackQuestionSet(jobTitle), "no json object in output")
	}

	var set models.QuestionSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return fallback(FallbackQuestionSet(jobTitle), fmt.Sprintf("decode: %v", err))
	}

	set.Questions = compact(set.Questions)
	if len(set.Questions) < minQuestions {
		return fallback(FallbackQuestionSet(jobTitle), fmt.Sprintf("only %d questions", len(set.Questions)))
	}
	if len(set.Questions) > maxQuestions {
		set.Questions = set.Questions[:maxQuestions]
	}

	if strings.TrimSpace(set.Role) == "" {
		set.Role = jobTitle
	}
	def := FallbackQuestionSet(jobTitle)
	if set.FollowUpQuestions = compact(set.FollowUpQuestions); len(set.FollowUpQuestions) == 0 {
		set.FollowUpQuestions = def.FollowUpQuestions
	}
	if set.EvaluationCriteria = compact(set.EvaluationCriteria); len(set.EvaluationCriteria) == 0 {
		set.EvaluationCriteria = def.EvaluationCriteria
	}

	return parsed(set)
}

func parseEvaluation(text string) Generated[models.InterviewEvaluation] {
	raw, ok := extractJSONObject(text)
	if !ok {
		return fallback(FallbackEvaluation(), "no json object in output")
	}

	var out rawEvaluation
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fallback(FallbackEvaluation(), fmt.Sprintf("decode: %v", err))
	}
	if out.Score == nil {
		return fallback(FallbackEvaluation(), "missing score")
	}

	eval := models.InterviewEvaluation{
		Summary:        strings.TrimSpace(out.Summary),
		Strengths:      compact(out.Strengths),
		Weaknesses:     compact(out.Weaknesses),
		Score:          clampScore(*out.Score),
		Recommendation: NormalizeRecommendation(out.Recommendation),
		Reasoning:      strings.TrimSpace(out.Reasoning),
	}
	if eval.Strengths == nil {
		eval.Strengths = []string{}
	}
	if eval.Weaknesses == nil {
		eval.Weaknesses = []string{}
	}

	return parsed(eval)
}

func parseFollowUps(text string) Generated[[]string] {
	raw, ok := extractJSONArray(text)
	if !ok {
		return fallback([]string{"Can you elaborate on that point?", "What was the outcome?"}, "no json array in output")
	}

	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return fallback([]string{"Can you provide more details?", "How did that work out?"}, fmt.Sprintf("decode: %v", err))
	}

	questions = compact(questions)
	if len(questions) == 0 {
		return fallback([]string{"Can you elaborate on that point?", "What was the outcome?"}, "empty array")
	}
	return parsed(questions)
}

// NormalizeRecommendation folds case and separators so that "No Hire",
// "no_hire" and "NO-HIRE" all read as no-hire. Unknown verdicts are kept
// verbatim and later map to interviewed.
func NormalizeRecommendation(s string) models.Recommendation {
	trimmed := strings.TrimSpace(s)
	folded := strings.ToLower(trimmed)
	folded = strings.NewReplacer("_", "-", " ", "-").Replace(folded)

	switch r := models.Recommendation(folded); {
	case r.IsValid():
		return r
	case folded == "nohire":
		return models.RecommendationNoHire
	default:
		return models.Recommendation(trimmed)
	}
}

func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func compact(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	return strings.ReplaceAll(text, "```", "")
}

// extractJSONObject returns the outermost brace-delimited substring.
func extractJSONObject(text string) (string, bool) {
	text = stripFences(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// extractJSONArray returns the outermost bracket-delimited substring.
func extractJSONArray(text string) (string, bool) {
	text = stripFences(text)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func FallbackQuestionSet(jobTitle string) models.QuestionSet {
	return models.QuestionSet{
		Role: jobTitle,
		Questions: []string{
			"Tell me about yourself and your background.",
			"What interests you about this position and our company?",
			"Can you describe a challenging project you worked on recently?",
			"How do you handle working under pressure or tight deadlines?",
			"Where do you see yourself in 5 years?",
			"What are your greatest strengths and how do they apply to this role?",
			"Describe a time when you had to learn a new technology or skill quickly.",
			"How do you approach problem-solving in your work?",
		},
		FollowUpQuestions: []string{
			"Can you give me a specific example?",
			"What was the outcome of that situation?",
			"How did you measure success in that project?",
			"What would you do differently if you faced that situation again?",
			"How did that experience change your approach?",
		},
		EvaluationCriteria: []string{
			"Technical knowledge and skills",
			"Communication and articulation",
			"Problem-solving approach",
			"Cultural fit and values alignment",
			"Experience relevance",
			"Growth mindset and learning ability",
		},
	}
}

func FallbackEvaluation() models.InterviewEvaluation {
	return models.InterviewEvaluation{
		Summary:           "Unable to process interview evaluation automatically. Manual review required.",
		Strengths:         []string{"Interview completed"},
		Weaknesses:        []string{"Evaluation system error"},
		Score:             50,
		Recommendation:    models.RecommendationMaybe,
		Reasoning:         "Technical error during evaluation. Please review manually.",
		NeedsManualReview: true,
	}
}
