package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nanobio/backend/internal/models"
)

// quizAttemptRepository implements append-only quiz attempt data access.
// Attempt rows are never updated or deleted.
type quizAttemptRepository struct {
	db *sql.DB
}

// NewQuizAttemptRepository creates a new quiz attempt repository
func NewQuizAttemptRepository(db *sql.DB) *quizAttemptRepository {
	return &quizAttemptRepository{
		db: db,
	}
}

// Create appends an immutable attempt record
func (r *quizAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	query := `
		INSERT INTO user_quiz_attempts (user_id, question_id, selected_option, is_correct)
		VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		attempt.UserID,
		attempt.QuestionID,
		attempt.SelectedOption,
		attempt.IsCorrect,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	attempt.ID = int(id)

	return nil
}

// Counts returns the total and correct attempt counts over the user's full history
func (r *quizAttemptRepository) Counts(ctx context.Context, userID string) (total int, correct int, err error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(is_correct), 0)
		FROM user_quiz_attempts
		WHERE user_id = ?`

	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total, &correct); err != nil && err != sql.ErrNoRows {
		return 0, 0, fmt.Errorf("failed to count quiz attempts: %w", err)
	}

	return total, correct, nil
}
