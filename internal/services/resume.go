package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type ResumeService interface {
	Upload(ctx context.Context, candidateID uuid.UUID, file *multipart.FileHeader) (*models.UploadResponse, error)
}

type resumeService struct {
	candidateRepo repositories.CandidateRepository
	storage       StorageService
	parser        PDFParserService
	log           *zap.Logger
}

func NewResumeService(
	candidateRepo repositories.CandidateRepository,
	storage StorageService,
	parser PDFParserService,
	log *zap.Logger,
) ResumeService {
	return &resumeService{
		candidateRepo: candidateRepo,
		storage:       storage,
		parser:        parser,
		log:           logger.WithFields(log, zap.String("component", "resume")),
	}
}

// Upload stores the PDF, extracts its text and attaches both to the
// candidate. The stored file is removed again when any later step fails.
func (s *resumeService) Upload(ctx context.Context, candidateID uuid.UUID, file *multipart.FileHeader) (*models.UploadResponse, error) {
	if _, err := s.candidateRepo.FindByID(ctx, candidateID); err != nil {
		return nil, notFound(err, "candidate")
	}

	filename, path, err := s.storage.SaveResume(file, candidateID)
	if err != nil {
		return nil, err
	}

	cleanup := func(cause error) {
		if err := s.storage.DeleteFile(filename); err != nil {
			s.log.Warn("failed to remove resume after error", zap.String("file", filename), zap.Error(err), zap.NamedError("cause", cause))
		}
	}

	content, err := s.parser.ExtractResume(path)
	if err != nil {
		cleanup(err)
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}

	resumeURL := "/uploads/" + filename
	if err := s.candidateRepo.UpdateResume(ctx, candidateID, resumeURL, content.Text); err != nil {
		cleanup(err)
		return nil, notFound(err, "candidate")
	}

	s.log.Info("resume uploaded",
		zap.String("candidate_id", candidateID.String()),
		zap.Int("pages", content.PageCount))

	return &models.UploadResponse{
		ID:           candidateID.String(),
		Filename:     filename,
		OriginalName: file.Filename,
		ResumeURL:    resumeURL,
		Pages:        content.PageCount,
	}, nil
}
