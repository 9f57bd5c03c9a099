package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nanobio/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupQuizAttemptTestRepository creates a quiz attempt repository with a mock database
func setupQuizAttemptTestRepository(t *testing.T) (*quizAttemptRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewQuizAttemptRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewQuizAttemptRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewQuizAttemptRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestQuizAttemptRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		attempt       *models.QuizAttempt
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedID    int
	}{
		{
			name: "success",
			attempt: &models.QuizAttempt{
				UserID:         "user-1",
				QuestionID:     "q1",
				SelectedOption: "a",
				IsCorrect:      true,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_quiz_attempts`).
					WithArgs("user-1", "q1", "a", true).
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
			expectedID: 7,
		},
		{
			name: "database error on insert",
			attempt: &models.QuizAttempt{
				UserID:         "user-1",
				QuestionID:     "q1",
				SelectedOption: "a",
				IsCorrect:      true,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_quiz_attempts`).
					WithArgs("user-1", "q1", "a", true).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name: "error getting last insert id",
			attempt: &models.QuizAttempt{
				UserID:         "user-1",
				QuestionID:     "q1",
				SelectedOption: "d",
				IsCorrect:      false,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_quiz_attempts`).
					WithArgs("user-1", "q1", "d", false).
					WillReturnResult(sqlmock.NewErrorResult(errors.New("last insert id error")))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupQuizAttemptTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.attempt)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.attempt.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuizAttemptRepository_Counts(t *testing.T) {
	tests := []struct {
		name            string
		setupMock       func(sqlmock.Sqlmock)
		expectedError   bool
		expectedTotal   int
		expectedCorrect int
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"total", "correct"}).AddRow(4, 3)
				mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(is_correct\), 0\) FROM user_quiz_attempts WHERE user_id = \?`).
					WithArgs("user-1").
					WillReturnRows(rows)
			},
			expectedTotal:   4,
			expectedCorrect: 3,
		},
		{
			name: "no attempts",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"total", "correct"}).AddRow(0, 0)
				mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(is_correct\), 0\) FROM user_quiz_attempts WHERE user_id = \?`).
					WithArgs("user-1").
					WillReturnRows(rows)
			},
			expectedTotal:   0,
			expectedCorrect: 0,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(is_correct\), 0\) FROM user_quiz_attempts WHERE user_id = \?`).
					WithArgs("user-1").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupQuizAttemptTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			total, correct, err := repo.Counts(context.Background(), "user-1")

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedTotal, total)
				assert.Equal(t, tt.expectedCorrect, correct)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
