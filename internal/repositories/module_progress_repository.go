package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nanobio/backend/internal/models"
)

// moduleProgressRepository implements per-user module progress data access.
// All writes are upserts keyed on (user_id, module_id); rows are never deleted.
type moduleProgressRepository struct {
	db *sql.DB
}

// NewModuleProgressRepository creates a new module progress repository
func NewModuleProgressRepository(db *sql.DB) *moduleProgressRepository {
	return &moduleProgressRepository{
		db: db,
	}
}

// TouchLastOpened records that the user opened a module just now.
// Creates the progress row on first access and never flips completion state.
func (r *moduleProgressRepository) TouchLastOpened(ctx context.Context, userID, moduleID string) error {
	query := `
		INSERT INTO module_progress (user_id, module_id, completed, progress, last_opened)
		VALUES (?, ?, FALSE, 0, NOW())
		ON DUPLICATE KEY UPDATE last_opened = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, moduleID); err != nil {
		return fmt.Errorf("failed to touch module progress: %w", err)
	}

	return nil
}

// MarkCompleted marks a module explicitly complete outside the quiz flow
func (r *moduleProgressRepository) MarkCompleted(ctx context.Context, userID, moduleID string) error {
	query := `
		INSERT INTO module_progress (user_id, module_id, completed, progress, last_opened)
		VALUES (?, ?, TRUE, 100, NOW())
		ON DUPLICATE KEY UPDATE completed = TRUE, progress = 100, last_opened = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, moduleID); err != nil {
		return fmt.Errorf("failed to mark module completed: %w", err)
	}

	return nil
}

// UpsertQuizResult stores a finished quiz session's outcome. The write is
// idempotent: replaying the same result leaves the row unchanged.
func (r *moduleProgressRepository) UpsertQuizResult(ctx context.Context, userID, moduleID string, lastScore int, completed bool) error {
	query := `
		INSERT INTO module_progress (user_id, module_id, completed, progress, last_score, last_opened)
		VALUES (?, ?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE completed = VALUES(completed), progress = VALUES(progress), last_score = VALUES(last_score), last_opened = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, moduleID, completed, lastScore, lastScore); err != nil {
		return fmt.Errorf("failed to upsert quiz result: %w", err)
	}

	return nil
}

// GetByUserID retrieves all progress rows for a user
func (r *moduleProgressRepository) GetByUserID(ctx context.Context, userID string) ([]models.ModuleProgress, error) {
	query := `
		SELECT user_id, module_id, completed, progress, last_score, last_opened
		FROM module_progress
		WHERE user_id = ?`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query module progress: %w", err)
	}
	defer rows.Close()

	var progress []models.ModuleProgress
	for rows.Next() {
		var p models.ModuleProgress
		var lastScore sql.NullInt64
		err := rows.Scan(
			&p.UserID,
			&p.ModuleID,
			&p.Completed,
			&p.Progress,
			&lastScore,
			&p.LastOpened,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan module progress: %w", err)
		}
		if lastScore.Valid {
			score := int(lastScore.Int64)
			p.LastScore = &score
		}
		progress = append(progress, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return progress, nil
}

// GetCompletedModuleIDs retrieves the set of module IDs the user has completed
func (r *moduleProgressRepository) GetCompletedModuleIDs(ctx context.Context, userID string) (map[string]bool, error) {
	query := `SELECT module_id FROM module_progress WHERE user_id = ? AND completed = TRUE`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed modules: %w", err)
	}
	defer rows.Close()

	completed := make(map[string]bool)
	for rows.Next() {
		var moduleID string
		if err := rows.Scan(&moduleID); err != nil {
			return nil, fmt.Errorf("failed to scan module id: %w", err)
		}
		completed[moduleID] = true
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return completed, nil
}

// CountCompletedByUser returns the number of modules the user has completed
func (r *moduleProgressRepository) CountCompletedByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM module_progress WHERE user_id = ? AND completed = TRUE`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed modules: %w", err)
	}

	return count, nil
}

// GetMostRecent retrieves the most recently opened module for a user,
// returning nil when the user has no progress yet
func (r *moduleProgressRepository) GetMostRecent(ctx context.Context, userID string) (*models.RecentModule, error) {
	query := `
		SELECT modules.title, modules.slug, module_progress.progress
		FROM module_progress
		JOIN modules ON modules.id = module_progress.module_id
		WHERE module_progress.user_id = ?
		ORDER BY module_progress.last_opened DESC
		LIMIT 1`

	var recent models.RecentModule
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&recent.Title, &recent.Slug, &recent.Progress)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recent module: %w", err)
	}

	return &recent, nil
}
