package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nanobio/backend/internal/models"
)

// moduleRepository implements module catalog data access
type moduleRepository struct {
	db *sql.DB
}

// NewModuleRepository creates a new module repository
func NewModuleRepository(db *sql.DB) *moduleRepository {
	return &moduleRepository{
		db: db,
	}
}

// GetAll retrieves the full module catalog without lecture content,
// ordered by difficulty then title
func (r *moduleRepository) GetAll(ctx context.Context) ([]models.Module, error) {
	query := `
		SELECT id, title, slug, description, COALESCE(domain, ''), difficulty, estimated_minutes
		FROM modules
		ORDER BY difficulty, title`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	var modules []models.Module
	for rows.Next() {
		var mod models.Module
		err := rows.Scan(
			&mod.ID,
			&mod.Title,
			&mod.Slug,
			&mod.Description,
			&mod.Domain,
			&mod.Difficulty,
			&mod.EstimatedMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, mod)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return modules, nil
}

// GetBySlug retrieves one module with its lecture content,
// returning nil when no module matches the slug
func (r *moduleRepository) GetBySlug(ctx context.Context, slug string) (*models.Module, error) {
	query := `
		SELECT id, title, slug, description, content, COALESCE(domain, ''), difficulty, estimated_minutes
		FROM modules
		WHERE slug = ?`

	var mod models.Module
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&mod.ID,
		&mod.Title,
		&mod.Slug,
		&mod.Description,
		&mod.Content,
		&mod.Domain,
		&mod.Difficulty,
		&mod.EstimatedMinutes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query module by slug: %w", err)
	}

	return &mod, nil
}

// CountAll returns the total number of modules in the catalog
func (r *moduleRepository) CountAll(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM modules`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count modules: %w", err)
	}

	return count, nil
}
