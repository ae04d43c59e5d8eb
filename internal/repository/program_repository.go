package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

// ProgramRepository reads the raw study-plan membership rows the tree and
// level maps are derived from.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates a new repository instance.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// ListMemberships returns every program membership row.
func (r *ProgramRepository) ListMemberships(ctx context.Context) ([]models.ProgramMembership, error) {
	const query = `SELECT id, course_key, program_name, level, semester, exam_form, program_type FROM coursebook_programs ORDER BY program_name, level`
	var rows []models.ProgramMembership
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list program memberships: %w", err)
	}
	return rows, nil
}

// ListLevelLabels returns the distinct raw level labels across all
// memberships, the input for the levels-by-degree grouping.
func (r *ProgramRepository) ListLevelLabels(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT level FROM coursebook_programs WHERE level <> '' ORDER BY level`
	var labels []string
	if err := r.db.SelectContext(ctx, &labels, query); err != nil {
		return nil, fmt.Errorf("list level labels: %w", err)
	}
	return labels, nil
}
