package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nanobio/backend/internal/models"
)

// profileRepository implements profile data access
type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *profileRepository {
	return &profileRepository{
		db: db,
	}
}

// Create inserts a new profile with zeroed progression state
func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, institution, role, xp, level, streak)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.FullName,
		profile.Institution,
		profile.Role,
		profile.XP,
		profile.Level,
		profile.Streak,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by user ID, returning nil when none exists
func (r *profileRepository) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT id, full_name, institution, role, xp, level, streak, last_activity
		FROM profiles
		WHERE id = ?`

	var profile models.Profile
	var lastActivity sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Institution,
		&profile.Role,
		&profile.XP,
		&profile.Level,
		&profile.Streak,
		&lastActivity,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	if lastActivity.Valid {
		profile.LastActivity = &lastActivity.Time
	}

	return &profile, nil
}

// UpdateInfo updates the editable identity fields of a profile.
// Progression fields (xp, level, streak) are never touched here.
func (r *profileRepository) UpdateInfo(ctx context.Context, userID, fullName, institution, role string) error {
	query := `UPDATE profiles SET full_name = ?, institution = ?, role = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, fullName, institution, role, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile not found")
	}

	return nil
}

// UpdateProgression writes the full progression state computed by the ledger.
// The affected row count is not checked: the driver reports zero for a
// same-values update, and the ledger verifies existence before writing.
func (r *profileRepository) UpdateProgression(ctx context.Context, userID string, xp, level, streak int, lastActivity time.Time) error {
	query := `UPDATE profiles SET xp = ?, level = ?, streak = ?, last_activity = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, xp, level, streak, lastActivity, userID); err != nil {
		return fmt.Errorf("failed to update progression: %w", err)
	}

	return nil
}

// ResetLapsedStreaks zeroes the streak for profiles whose last activity predates
// the cutoff date, and returns the IDs of the affected profiles
func (r *profileRepository) ResetLapsedStreaks(ctx context.Context, cutoff time.Time) ([]string, error) {
	selectQuery := `SELECT id FROM profiles WHERE streak > 0 AND (last_activity IS NULL OR last_activity < ?)`

	rows, err := r.db.QueryContext(ctx, selectQuery, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query lapsed profiles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	updateQuery := `UPDATE profiles SET streak = 0 WHERE streak > 0 AND (last_activity IS NULL OR last_activity < ?)`
	if _, err := r.db.ExecContext(ctx, updateQuery, cutoff); err != nil {
		return nil, fmt.Errorf("failed to reset lapsed streaks: %w", err)
	}

	return ids, nil
}
