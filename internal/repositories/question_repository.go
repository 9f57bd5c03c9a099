package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nanobio/backend/internal/models"
)

// questionRepository implements quiz question data access
type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *sql.DB) *questionRepository {
	return &questionRepository{
		db: db,
	}
}

// GetByTopic retrieves all questions for a topic in ascending difficulty order.
// Session engines rely on this order and never re-sort.
func (r *questionRepository) GetByTopic(ctx context.Context, topic string) ([]models.Question, error) {
	query := `
		SELECT id, topic, question, option_a, option_b, option_c, option_d, correct_answer, explanation, difficulty
		FROM questions
		WHERE topic = ?
		ORDER BY difficulty ASC`

	rows, err := r.db.QueryContext(ctx, query, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		err := rows.Scan(
			&q.ID,
			&q.Topic,
			&q.Question,
			&q.OptionA,
			&q.OptionB,
			&q.OptionC,
			&q.OptionD,
			&q.CorrectAnswer,
			&q.Explanation,
			&q.Difficulty,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return questions, nil
}
