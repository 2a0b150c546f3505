package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diary/internal/errs"
	"diary/internal/models"
)

func setupMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestGetUser_QueryError(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username, password_hash FROM users WHERE username = ?`)).
		WithArgs("alice").
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.GetUser(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GetUser")
	assert.False(t, errors.Is(err, errs.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTask_RollsBackOnInsertFailure(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM categories WHERE username = ? AND category_name = ?)`)).
		WithArgs("alice", "Home").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tasks`)).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	_, err := s.AddTask(context.Background(), "alice", date(t, "2024-03-01"), "Buy milk", "Home", models.Low)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert task")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_CommitFailure(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE username = ?`)).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	err := s.DeleteUser(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTaskDone_ZeroRowsIsNotFound(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET done = ? WHERE`)).
		WithArgs(1, int64(42), "alice").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.SetTaskDone(context.Background(), "alice", 42, true)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStats_NullSumIsZero(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) AS total, COALESCE(SUM(done), 0) AS done FROM tasks`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"total", "done"}).AddRow(0, 0))

	st, err := s.Stats(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.Stats{}, st)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureForeignKeys_Disabled(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`PRAGMA foreign_keys;`)).
		WillReturnRows(sqlmock.NewRows([]string{"foreign_keys"}).AddRow(0))

	err := s.ensureForeignKeys(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foreign keys are disabled")
}
