package services

import (
	"context"
	"math"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

const recentActivityLimit = 5

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	candidateRepo repositories.CandidateRepository
	interviewRepo repositories.InterviewRepository
}

func NewDashboardService(candidateRepo repositories.CandidateRepository, interviewRepo repositories.InterviewRepository) DashboardService {
	return &dashboardService{
		candidateRepo: candidateRepo,
		interviewRepo: interviewRepo,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	candidates, err := s.candidateRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	interviews, err := s.interviewRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.interviewRepo.CountByStatus(ctx, models.InterviewStatusCompleted)
	if err != nil {
		return nil, err
	}
	sum, err := s.interviewRepo.SumScores(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.interviewRepo.List(ctx, repositories.InterviewFilter{Limit: recentActivityLimit})
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalCandidates:     candidates,
		TotalInterviews:     interviews,
		CompletedInterviews: completed,
		AverageScore:        AverageScore(sum, completed),
		RecentActivity:      recent,
	}, nil
}

// AverageScore divides by at least one so an empty board reads zero.
func AverageScore(sum, completed int64) int {
	if completed < 1 {
		completed = 1
	}
	return int(math.Round(float64(sum) / float64(completed)))
}
