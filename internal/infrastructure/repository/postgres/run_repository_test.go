package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"contextlab/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*RunRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &RunRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, name, mode, dataset").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansRun(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "name", "mode", "dataset", "status",
		"total_score", "max_score", "success_rate", "total_tokens", "tokens_saved",
		"error_message", "created_at", "updated_at",
	}).AddRow("run-1", "smart eval", "smart", "builtin", "completed", 6, 7, 0.857, 1320, 384, "", now, now)

	mock.ExpectQuery("SELECT id, name, mode, dataset").
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := repo.GetByID(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if run.Mode != domain.ModeSmart || run.Status != domain.RunCompleted {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.TokensSaved != 384 {
		t.Fatalf("unexpected tokens saved: %d", run.TokensSaved)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE experiment_runs").
		WithArgs("missing", string(domain.RunRunning), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.RunRunning, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveSummaryReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE experiment_runs").
		WithArgs("missing", 6, 7, 0.857, 1320, 384, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveSummary(context.Background(), "missing", domain.RunSummary{
		TotalScore:  6,
		MaxScore:    7,
		SuccessRate: 0.857,
		TotalTokens: 1320,
		TokensSaved: 384,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestAppendCasesInsertsWithinTransaction(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO experiment_cases").
		WithArgs("run-1", 0, "Good mouse.", string(domain.StrategyRulesBased),
			`{"sentiment":"positive","product":"mouse","issue":""}`,
			sqlmock.AnyArg(), 1, "", 120, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AppendCases(context.Background(), "run-1", []domain.CaseResult{
		{
			RunID:     "run-1",
			CaseIndex: 0,
			Input:     "Good mouse.",
			Strategy:  domain.StrategyRulesBased,
			Output:    `{"sentiment":"positive","product":"mouse","issue":""}`,
			Extraction: &domain.Extraction{
				Sentiment: domain.SentimentPositive,
				Product:   "mouse",
			},
			Score:           1,
			EstimatedTokens: 120,
		},
	})
	if err != nil {
		t.Fatalf("AppendCases() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAppendCasesNoopOnEmptySlice(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	if err := repo.AppendCases(context.Background(), "run-1", nil); err != nil {
		t.Fatalf("AppendCases() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
