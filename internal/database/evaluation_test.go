package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"git-repository-analyzer/internal/validation"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

func TestGetEvaluation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	db := NewTestDB(mock)
	ctx := context.Background()

	data := json.RawMessage(`{"structure":{"architecture":8}}`)
	mock.ExpectQuery("SELECT repository, data, created_at, updated_at").
		WithArgs("gr01/demo").
		WillReturnRows(pgxmock.NewRows([]string{"repository", "data", "created_at", "updated_at"}).
			AddRow("gr01/demo", data, time.Now(), time.Now()))

	rec, err := db.GetEvaluation(ctx, "gr01/demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Repository != "gr01/demo" {
		t.Errorf("expected repository gr01/demo, got %s", rec.Repository)
	}
	if string(rec.Data) != string(data) {
		t.Errorf("expected data %s, got %s", data, rec.Data)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetEvaluation_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	db := NewTestDB(mock)

	mock.ExpectQuery("SELECT repository, data, created_at, updated_at").
		WithArgs("gr01/missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = db.GetEvaluation(context.Background(), "gr01/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsertEvaluation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	db := NewTestDB(mock)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &EvaluationRecord{
		Repository: "gr01/demo",
		Data:       json.RawMessage(`{}`),
	}

	mock.ExpectQuery("INSERT INTO evaluations").
		WithArgs(rec.Repository, rec.Data).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(created, created))

	if err := db.UpsertEvaluation(context.Background(), rec); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, rec.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsertEvaluation_CheckViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	db := NewTestDB(mock)
	rec := &EvaluationRecord{Repository: "gr01/demo", Data: json.RawMessage(`{}`)}

	mock.ExpectQuery("INSERT INTO evaluations").
		WithArgs(rec.Repository, rec.Data).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "evaluations_data_check"})

	err = db.UpsertEvaluation(context.Background(), rec)
	if err == nil || err.Error() != "failed to save evaluation: Evaluation data was rejected by the database" {
		t.Errorf("expected mapped check violation, got %v", err)
	}

	var dbErr *validation.DatabaseError
	if !errors.As(err, &dbErr) || dbErr.Field != "data" {
		t.Errorf("expected data field, got %+v", dbErr)
	}
}

func TestDeleteEvaluation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	db := NewTestDB(mock)

	mock.ExpectExec("DELETE FROM evaluations").
		WithArgs("gr01/demo").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM evaluations").
		WithArgs("gr01/demo").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := db.DeleteEvaluation(context.Background(), "gr01/demo"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := db.DeleteEvaluation(context.Background(), "gr01/demo"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS evaluations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	if err := NewTestDB(mock).Migrate(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
