package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

// sqlmockArgumentFunc adapts a predicate into a sqlmock.Argument.
type sqlmockArgumentFunc func(driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool { return f(v) }

// isRecentUTC matches a time.Time in UTC close to now.
var isRecentUTC = sqlmockArgumentFunc(func(v driver.Value) bool {
	tm, ok := v.(time.Time)
	if !ok {
		return false
	}
	if tm.Location() != time.UTC {
		return false
	}
	now := time.Now().UTC()
	return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
})

func newCommandRepo(t *testing.T) (*repository.CommandSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	return repository.NewCommandSQLite(db), mock, func() { _ = db.Close() }
}

func TestCommandSQLite_SubmitPending_SupersedesThenInserts(t *testing.T) {
	repo, mock, closeDB := newCommandRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE command_queue SET status = 'SUPERSEDED'")).
		WithArgs(isRecentUTC).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO command_queue")).
		WithArgs("CLOSE", 255, -1, "AUTO", "too bright", isRecentUTC).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	id, err := repo.SubmitPending(context.Background(), models.Command{
		Action:         "CLOSE",
		Speed:          255,
		TargetPosition: -1,
		Source:         "AUTO",
		Reason:         "too bright",
	})
	if err != nil {
		t.Fatalf("SubmitPending: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommandSQLite_SubmitPending_RollsBackOnInsertError(t *testing.T) {
	repo, mock, closeDB := newCommandRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE command_queue SET status = 'SUPERSEDED'")).
		WithArgs(isRecentUTC).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO command_queue")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.SubmitPending(context.Background(), models.Command{
		Action: "OPEN", Speed: 70, TargetPosition: -1, Source: "MANUAL",
	})
	if err == nil {
		t.Fatal("expected insert error to surface")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommandSQLite_ClaimNext_DeliversNewestAndRetiresPending(t *testing.T) {
	repo, mock, closeDB := newCommandRepo(t)
	defer closeDB()

	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "action", "speed", "target_position", "source", "reason", "status", "created_at",
	}).AddRow(42, "CLOSE", 255, 80, "AI", "AI: movie time (Move to 80%)", "PENDING", created)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'PENDING'")).WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE command_queue SET status = 'EXECUTED'")).
		WithArgs(isRecentUTC).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cmd, err := repo.ClaimNext(context.Background())
	if err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}
	if cmd == nil {
		t.Fatal("expected a claimed command")
	}
	if cmd.ID != 42 || cmd.Action != "CLOSE" || cmd.TargetPosition != 80 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.Status != models.StatusExecuted || cmd.ExecutedAt == nil {
		t.Fatalf("command not marked executed: %+v", cmd)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommandSQLite_ClaimNext_EmptyQueue(t *testing.T) {
	repo, mock, closeDB := newCommandRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'PENDING'")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	cmd, err := repo.ClaimNext(context.Background())
	if err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}
	if cmd != nil {
		t.Fatalf("expected nil on empty queue, got %+v", cmd)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
