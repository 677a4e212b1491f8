package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/ai-interviewer/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func TestInterviewUpdateRequiresExpectedStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewRepository(db)

	completed := models.InterviewStatusCompleted
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "interviews" SET`) + `.*` + regexp.QuoteMeta(`status IN`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), uuid.New(), &InterviewUpdate{Status: &completed},
		models.InterviewStatusScheduled, models.InterviewStatusInProgress)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestInterviewUpdateMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewRepository(db)

	url := "https://cdn.example.com/a.mp3"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "interviews" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), uuid.New(), &InterviewUpdate{AudioURL: &url})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInterviewUpdateWritesStartedAtOnlyWhenUnset(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewRepository(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`"started_at"=COALESCE(started_at, `)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), uuid.New(), &InterviewUpdate{StartedAtIfUnset: &now},
		models.InterviewStatusScheduled, models.InterviewStatusInProgress)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestInterviewUpdateWritesClearedManualReviewFlag(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewRepository(db)

	cleared := false
	mock.ExpectExec(regexp.QuoteMeta(`"needs_manual_review"=`)).
		WithArgs(cleared, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), uuid.New(), &InterviewUpdate{NeedsManualReview: &cleared},
		models.InterviewStatusCompleted)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestInterviewUpdateEmptyIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewRepository(db)

	if err := repo.Update(context.Background(), uuid.New(), &InterviewUpdate{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statement: %v", err)
	}
}

func TestFindByCallIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "interviews" WHERE vapi_call_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByCallID(context.Background(), "call-unknown")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInterviewFindOrCreateReturnsExistingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewRepository(db)

	existing := uuid.New()
	candidateID, jobID := uuid.New(), uuid.New()

	// The insert hits the unique index and returns nothing.
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "interviews"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT DO NOTHING`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "interviews" WHERE candidate_id = $1 AND job_position_id = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "candidate_id", "job_position_id", "status"}).
			AddRow(existing, candidateID, jobID, "in_progress"))

	got, err := repo.FindOrCreate(context.Background(), &models.Interview{
		CandidateID:   candidateID,
		JobPositionID: jobID,
		Status:        models.InterviewStatusScheduled,
	})
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if got.ID != existing {
		t.Fatalf("expected existing interview %s, got %s", existing, got.ID)
	}
	if got.Status != models.InterviewStatusInProgress {
		t.Fatalf("existing status must be preserved, got %q", got.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestSumScoresOverCompletedInterviews(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInterviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(ai_score), 0) FROM "interviews" WHERE status = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(163))

	sum, err := repo.SumScores(context.Background())
	if err != nil {
		t.Fatalf("SumScores: %v", err)
	}
	if sum != 163 {
		t.Fatalf("expected 163, got %d", sum)
	}
}

func TestCandidateUpdateStatusMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "candidates" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), uuid.New(), models.HiringStatusPassed)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "applications" SET "status"=$1 WHERE id = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), uuid.New(), models.HiringStatusInterviewed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestAIPromptUpsertUsesJobConflictTarget(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAIPromptRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "ai_prompts"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT ("job_position_id") DO UPDATE SET`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	err := repo.Upsert(context.Background(), &models.AIPrompt{
		JobPositionID:   uuid.New(),
		RoleTitle:       "Backend Engineer",
		SystemPrompt:    "You are conducting an interview for Backend Engineer.",
		QuestionPrompts: []string{"q1"},
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
