package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

// App holds the wired repositories and services shared by the API server
// and the admin CLI.
type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB

	Jobs         repositories.JobPositionRepository
	Candidates   repositories.CandidateRepository
	Applications repositories.ApplicationRepository
	Interviews   repositories.InterviewRepository
	Feedback     repositories.FeedbackRepository
	Prompts      repositories.AIPromptRepository

	AI        services.AIService
	Vapi      services.VapiClient
	Questions services.QuestionService
	Interview services.InterviewService
	Resume    services.ResumeService
	Storage   services.StorageService
	Dashboard services.DashboardService
	Index     services.InterviewIndex

	replayGuard *services.RedisReplayGuard
}

// New connects the database and builds every service. Gemini, Redis and
// Qdrant are optional; a missing one disables only what depends on it.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:       cfg,
		Log:          log,
		DB:           db,
		Jobs:         repositories.NewJobPositionRepository(db),
		Candidates:   repositories.NewCandidateRepository(db),
		Applications: repositories.NewApplicationRepository(db),
		Interviews:   repositories.NewInterviewRepository(db),
		Feedback:     repositories.NewFeedbackRepository(db),
		Prompts:      repositories.NewAIPromptRepository(db),
	}
	log.Info("repositories initialized")

	var gemini services.GeminiService
	if cfg.Gemini.APIKey != "" {
		if gemini, err = services.NewGeminiService(cfg.Gemini, cfg.Upstream, log); err != nil {
			return nil, fmt.Errorf("failed to initialize gemini: %w", err)
		}
		log.Info("gemini initialized", zap.String("model", cfg.Gemini.Model))
	} else {
		log.Warn("GEMINI_API_KEY not set, ai routes will answer 500")
	}

	if cfg.Vapi.APIKey == "" {
		log.Warn("VAPI_API_KEY not set, voice routes will answer 500")
	}
	a.Vapi = services.NewVapiClient(cfg.Vapi, cfg.Upstream, log)
	a.AI = services.NewAIService(gemini, cfg.Upstream.MaxRetries, log)
	a.Questions = services.NewQuestionService(a.Jobs, a.Prompts, a.AI, log)

	var opts services.InterviewOptions
	if cfg.Redis.Addr != "" {
		guard, err := services.NewRedisReplayGuard(cfg.Redis, log)
		if err != nil {
			log.Warn("replay guard disabled", zap.Error(err))
		} else {
			a.replayGuard = guard
			opts.Guard = guard
			log.Info("replay guard enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	if cfg.Qdrant.URL != "" && gemini != nil {
		index, err := services.NewInterviewIndex(cfg.Qdrant, gemini, log)
		if err == nil {
			err = index.EnsureCollection(ctx)
		}
		if err != nil {
			log.Warn("interview index disabled", zap.Error(err))
		} else {
			a.Index = index
			opts.Index = index
			log.Info("interview index enabled", zap.String("collection", cfg.Qdrant.Collection))
		}
	}

	a.Interview = services.NewInterviewService(a.Interviews, a.Applications, a.Candidates, a.Jobs, a.Questions, a.AI, a.Vapi, opts, log)

	a.Storage = services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	a.Resume = services.NewResumeService(a.Candidates, a.Storage, services.NewPDFParserService(), log)
	a.Dashboard = services.NewDashboardService(a.Candidates, a.Interviews)
	log.Info("services initialized")

	return a, nil
}

func (a *App) Close() {
	if a.replayGuard != nil {
		if err := a.replayGuard.Close(); err != nil {
			a.Log.Warn("failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
