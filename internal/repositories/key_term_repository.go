package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nanobio/backend/internal/models"
)

// keyTermRepository implements flashcard term data access
type keyTermRepository struct {
	db *sql.DB
}

// NewKeyTermRepository creates a new key term repository
func NewKeyTermRepository(db *sql.DB) *keyTermRepository {
	return &keyTermRepository{
		db: db,
	}
}

// GetAll retrieves every key term in the system
func (r *keyTermRepository) GetAll(ctx context.Context) ([]models.KeyTerm, error) {
	query := `SELECT id, COALESCE(module_id, ''), term, definition FROM key_terms ORDER BY term`

	return r.queryTerms(ctx, query)
}

// GetByModuleID retrieves the key terms linked to one module
func (r *keyTermRepository) GetByModuleID(ctx context.Context, moduleID string) ([]models.KeyTerm, error) {
	query := `SELECT id, COALESCE(module_id, ''), term, definition FROM key_terms WHERE module_id = ? ORDER BY term`

	return r.queryTerms(ctx, query, moduleID)
}

// queryTerms runs a key term query and scans the result rows
func (r *keyTermRepository) queryTerms(ctx context.Context, query string, args ...any) ([]models.KeyTerm, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query key terms: %w", err)
	}
	defer rows.Close()

	var terms []models.KeyTerm
	for rows.Next() {
		var term models.KeyTerm
		if err := rows.Scan(&term.ID, &term.ModuleID, &term.Term, &term.Definition); err != nil {
			return nil, fmt.Errorf("failed to scan key term: %w", err)
		}
		terms = append(terms, term)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return terms, nil
}
