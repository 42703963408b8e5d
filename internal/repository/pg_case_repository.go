package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// Compile-time interface verification.
var _ CaseRepository = (*PgCaseRepository)(nil)

// PgCaseRepository is a PostgreSQL implementation of CaseRepository.
type PgCaseRepository struct {
	db DBTX
}

// NewPgCaseRepository creates a new PostgreSQL case repository.
func NewPgCaseRepository(db DBTX) *PgCaseRepository {
	return &PgCaseRepository{db: db}
}

// Create inserts a new case record.
func (r *PgCaseRepository) Create(ctx context.Context, c *domain.Case) error {
	if c == nil {
		return domain.NewValidationError("case", "case cannot be nil")
	}
	if c.ID == uuid.Nil {
		return domain.NewValidationError("id", "case ID is required")
	}
	if c.FirmID == "" {
		return domain.NewValidationError("firm_id", "firm ID is required")
	}
	if c.Title == "" {
		return domain.NewValidationError("title", "case title is required")
	}

	query := `
		INSERT INTO cases (
			id, firm_id, title, case_type, status,
			current_stage_id, stage_entered_at, assigned_team_id,
			workflow_id, run_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12
		)`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.FirmID, c.Title, c.CaseType, c.Status,
		nullString(c.CurrentStageID), c.StageEnteredAt, nullString(c.AssignedTeamID),
		nullString(c.WorkflowID), nullString(c.RunID), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isPgUniqueViolation(err) {
			return domain.NewAlreadyExistsError("case", c.ID.String())
		}
		return fmt.Errorf("failed to create case: %w", err)
	}

	return nil
}

// Get retrieves a case by its ID within a tenant context.
func (r *PgCaseRepository) Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.Case, error) {
	query := caseSelectColumns + ` FROM cases WHERE id = $1 AND firm_id = $2`

	row := r.db.QueryRow(ctx, query, id, firmID)
	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("case", id.String())
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	return c, nil
}

// GetByWorkflowID retrieves a case by its Temporal workflow ID.
func (r *PgCaseRepository) GetByWorkflowID(ctx context.Context, workflowID string) (*domain.Case, error) {
	query := caseSelectColumns + ` FROM cases WHERE workflow_id = $1`

	row := r.db.QueryRow(ctx, query, workflowID)
	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("case", workflowID)
		}
		return nil, fmt.Errorf("failed to get case by workflow id: %w", err)
	}

	return c, nil
}

// UpdateStage mirrors the workflow's current stage onto the case record.
func (r *PgCaseRepository) UpdateStage(ctx context.Context, firmID string, id uuid.UUID, stageID string, enteredAt time.Time) error {
	query := `
		UPDATE cases
		SET current_stage_id = $1, stage_entered_at = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND firm_id = $4`

	result, err := r.db.Exec(ctx, query, stageID, enteredAt, id, firmID)
	if err != nil {
		return fmt.Errorf("failed to update case stage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("case", id.String())
	}

	return nil
}

// UpdateStatus updates the persisted lifecycle status of a case.
func (r *PgCaseRepository) UpdateStatus(ctx context.Context, firmID string, id uuid.UUID, status domain.CaseStatus) error {
	query := `
		UPDATE cases
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND firm_id = $3`

	result, err := r.db.Exec(ctx, query, status, id, firmID)
	if err != nil {
		return fmt.Errorf("failed to update case status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("case", id.String())
	}

	return nil
}

// SetWorkflow records the Temporal execution driving the case.
func (r *PgCaseRepository) SetWorkflow(ctx context.Context, firmID string, id uuid.UUID, workflowID, runID string) error {
	query := `
		UPDATE cases
		SET workflow_id = $1, run_id = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND firm_id = $4`

	result, err := r.db.Exec(ctx, query, nullString(workflowID), nullString(runID), id, firmID)
	if err != nil {
		return fmt.Errorf("failed to set case workflow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("case", id.String())
	}

	return nil
}

// AssignedTeam returns the team ID assigned to the case, empty if none.
func (r *PgCaseRepository) AssignedTeam(ctx context.Context, firmID string, id uuid.UUID) (string, error) {
	query := `SELECT assigned_team_id FROM cases WHERE id = $1 AND firm_id = $2`

	var teamID *string
	if err := r.db.QueryRow(ctx, query, id, firmID).Scan(&teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.NewNotFoundError("case", id.String())
		}
		return "", fmt.Errorf("failed to get assigned team: %w", err)
	}
	if teamID == nil {
		return "", nil
	}
	return *teamID, nil
}

// List retrieves cases matching the filter criteria.
func (r *PgCaseRepository) List(ctx context.Context, filter CaseFilter) ([]*domain.Case, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	where, args := buildCaseFilter(filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM cases WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count cases: %w", err)
	}

	query := fmt.Sprintf("%s FROM cases WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		caseSelectColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*domain.Case
	for rows.Next() {
		c, err := scanCaseFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate cases: %w", err)
	}

	return cases, total, nil
}

const caseSelectColumns = `
	SELECT id, firm_id, title, case_type, status,
		current_stage_id, stage_entered_at, assigned_team_id,
		workflow_id, run_id, created_at, updated_at`

// buildCaseFilter builds the WHERE clause and args shared by the case and
// offboarding list queries.
func buildCaseFilter(filter CaseFilter) (string, []interface{}) {
	conditions := []string{"firm_id = $1"}
	args := []interface{}{filter.FirmID}
	argPos := 2

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = fmt.Sprintf("$%d", argPos)
			args = append(args, s)
			argPos++
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.CurrentStageID != "" {
		conditions = append(conditions, fmt.Sprintf("current_stage_id = $%d", argPos))
		args = append(args, filter.CurrentStageID)
		argPos++
	}
	if filter.CreatedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("created_at > $%d", argPos))
		args = append(args, *filter.CreatedAfter)
		argPos++
	}
	if filter.CreatedBefore != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argPos))
		args = append(args, *filter.CreatedBefore)
		argPos++
	}

	return strings.Join(conditions, " AND "), args
}

// caseScanDest holds the destination pointers for scanning a Case row.
type caseScanDest struct {
	c              domain.Case
	currentStageID *string
	assignedTeamID *string
	workflowID     *string
	runID          *string
}

func (d *caseScanDest) destinations() []interface{} {
	return []interface{}{
		&d.c.ID, &d.c.FirmID, &d.c.Title, &d.c.CaseType, &d.c.Status,
		&d.currentStageID, &d.c.StageEnteredAt, &d.assignedTeamID,
		&d.workflowID, &d.runID, &d.c.CreatedAt, &d.c.UpdatedAt,
	}
}

func (d *caseScanDest) finalize() *domain.Case {
	if d.currentStageID != nil {
		d.c.CurrentStageID = *d.currentStageID
	}
	if d.assignedTeamID != nil {
		d.c.AssignedTeamID = *d.assignedTeamID
	}
	if d.workflowID != nil {
		d.c.WorkflowID = *d.workflowID
	}
	if d.runID != nil {
		d.c.RunID = *d.runID
	}
	return &d.c
}

// scanCase scans a single row into a Case.
func scanCase(row pgx.Row) (*domain.Case, error) {
	var dest caseScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize(), nil
}

// scanCaseFromRows scans the current row from pgx.Rows into a Case.
func scanCaseFromRows(rows pgx.Rows) (*domain.Case, error) {
	var dest caseScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize(), nil
}
