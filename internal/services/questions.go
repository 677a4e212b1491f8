package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type QuestionService interface {
	GenerateForJob(ctx context.Context, jobPositionID uuid.UUID) (*models.GenerateQuestionsResponse, error)
	ScriptFor(ctx context.Context, job *models.JobPosition) []string
}

type questionService struct {
	jobRepo    repositories.JobPositionRepository
	promptRepo repositories.AIPromptRepository
	ai         AIService
	log        *zap.Logger
}

func NewQuestionService(
	jobRepo repositories.JobPositionRepository,
	promptRepo repositories.AIPromptRepository,
	ai AIService,
	log *zap.Logger,
) QuestionService {
	return &questionService{
		jobRepo:    jobRepo,
		promptRepo: promptRepo,
		ai:         ai,
		log:        logger.WithFields(log, zap.String("component", "questions")),
	}
}

// GenerateForJob asks the model for a question set and stores it as the
// job's prompt template. Fallback sets are stored as well.
func (s *questionService) GenerateForJob(ctx context.Context, jobPositionID uuid.UUID) (*models.GenerateQuestionsResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobPositionID)
	if err != nil {
		return nil, notFound(err, "job position")
	}

	result, err := s.ai.GenerateQuestions(ctx, QuestionsInput{
		JobTitle:        job.Title,
		JobDescription:  job.DescriptionText(),
		Skills:          job.Skills,
		ExperienceLevel: job.ExperienceLevelOrDefault(),
	})
	if err != nil {
		return nil, err
	}

	set := result.Value
	prompt := &models.AIPrompt{
		JobPositionID:      job.ID,
		RoleTitle:          set.Role,
		SystemPrompt:       fmt.Sprintf("You are conducting an interview for %s. Use these questions and criteria.", job.Title),
		QuestionPrompts:    set.Questions,
		FollowUpPrompts:    set.FollowUpQuestions,
		EvaluationCriteria: strings.Join(set.EvaluationCriteria, "; "),
		IsActive:           true,
	}
	if err := s.promptRepo.Upsert(ctx, prompt); err != nil {
		return nil, fmt.Errorf("failed to store question set: %w", err)
	}

	s.log.Info("question set stored",
		zap.String(logger.FieldJobID, job.ID.String()),
		zap.Int("questions", len(set.Questions)),
		zap.Bool("fallback", result.Fallback))

	return &models.GenerateQuestionsResponse{QuestionSet: set, Fallback: result.Fallback}, nil
}

// ScriptFor returns the stored question set for the job, or the default
// script when none exists or it cannot be read.
func (s *questionService) ScriptFor(ctx context.Context, job *models.JobPosition) []string {
	prompt, err := s.promptRepo.FindActiveByJob(ctx, job.ID)
	if err == nil && len(prompt.QuestionPrompts) > 0 {
		return prompt.QuestionPrompts
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		s.log.Warn("failed to load question set, using default script",
			zap.String(logger.FieldJobID, job.ID.String()), zap.Error(err))
	}
	return DefaultInterviewQuestions(job)
}

// DefaultInterviewQuestions builds the generic script, tailored with the
// first three skills and the first requirement when the posting has them.
func DefaultInterviewQuestions(job *models.JobPosition) []string {
	questions := []string{
		"Tell me about yourself and your background.",
		"What interests you about this position?",
		"Can you describe a challenging project you worked on recently?",
		"How do you handle working under pressure or tight deadlines?",
		"Where do you see yourself in 5 years?",
	}

	if len(job.Skills) > 0 {
		skills := job.Skills
		if len(skills) > 3 {
			skills = skills[:3]
		}
		questions = append(questions, fmt.Sprintf("Can you elaborate on your experience with %s?", strings.Join(skills, ", ")))
	}

	if len(job.Requirements) > 0 {
		questions = append(questions, fmt.Sprintf("How does your experience align with our requirement for %s?", job.Requirements[0]))
	}

	return questions
}
