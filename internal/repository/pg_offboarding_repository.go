package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// Compile-time interface verification.
var _ OffboardingRepository = (*PgOffboardingRepository)(nil)

// PgOffboardingRepository is a PostgreSQL implementation of OffboardingRepository.
type PgOffboardingRepository struct {
	db DBTX
}

// NewPgOffboardingRepository creates a new PostgreSQL offboarding repository.
func NewPgOffboardingRepository(db DBTX) *PgOffboardingRepository {
	return &PgOffboardingRepository{db: db}
}

// Create inserts a new offboarding record.
func (r *PgOffboardingRepository) Create(ctx context.Context, o *domain.Offboarding) error {
	if o == nil {
		return domain.NewValidationError("offboarding", "offboarding cannot be nil")
	}
	if o.ID == uuid.Nil {
		return domain.NewValidationError("id", "offboarding ID is required")
	}
	if o.FirmID == "" {
		return domain.NewValidationError("firm_id", "firm ID is required")
	}
	if o.EmployeeID == uuid.Nil {
		return domain.NewValidationError("employee_id", "employee ID is required")
	}

	query := `
		INSERT INTO employee_offboardings (
			id, firm_id, employee_id, employee_name, reason, last_working_day,
			status, current_stage_id, stage_entered_at, assigned_team_id,
			workflow_id, run_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14
		)`

	_, err := r.db.Exec(ctx, query,
		o.ID, o.FirmID, o.EmployeeID, o.EmployeeName, o.Reason, o.LastWorkingDay,
		o.Status, nullString(o.CurrentStageID), o.StageEnteredAt, nullString(o.AssignedTeamID),
		nullString(o.WorkflowID), nullString(o.RunID), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isPgUniqueViolation(err) {
			return domain.NewAlreadyExistsError("offboarding", o.ID.String())
		}
		return fmt.Errorf("failed to create offboarding: %w", err)
	}

	return nil
}

// Get retrieves an offboarding record by its ID within a tenant context.
func (r *PgOffboardingRepository) Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.Offboarding, error) {
	query := offboardingSelectColumns + ` FROM employee_offboardings WHERE id = $1 AND firm_id = $2`

	row := r.db.QueryRow(ctx, query, id, firmID)
	o, err := scanOffboarding(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("offboarding", id.String())
		}
		return nil, fmt.Errorf("failed to get offboarding: %w", err)
	}

	return o, nil
}

// UpdateStage mirrors the workflow's current stage onto the offboarding record.
func (r *PgOffboardingRepository) UpdateStage(ctx context.Context, firmID string, id uuid.UUID, stageID string, enteredAt time.Time) error {
	query := `
		UPDATE employee_offboardings
		SET current_stage_id = $1, stage_entered_at = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND firm_id = $4`

	result, err := r.db.Exec(ctx, query, stageID, enteredAt, id, firmID)
	if err != nil {
		return fmt.Errorf("failed to update offboarding stage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("offboarding", id.String())
	}

	return nil
}

// UpdateStatus updates the persisted lifecycle status.
func (r *PgOffboardingRepository) UpdateStatus(ctx context.Context, firmID string, id uuid.UUID, status domain.CaseStatus) error {
	query := `
		UPDATE employee_offboardings
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND firm_id = $3`

	result, err := r.db.Exec(ctx, query, status, id, firmID)
	if err != nil {
		return fmt.Errorf("failed to update offboarding status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("offboarding", id.String())
	}

	return nil
}

// SetWorkflow records the Temporal execution driving the offboarding.
func (r *PgOffboardingRepository) SetWorkflow(ctx context.Context, firmID string, id uuid.UUID, workflowID, runID string) error {
	query := `
		UPDATE employee_offboardings
		SET workflow_id = $1, run_id = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND firm_id = $4`

	result, err := r.db.Exec(ctx, query, nullString(workflowID), nullString(runID), id, firmID)
	if err != nil {
		return fmt.Errorf("failed to set offboarding workflow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("offboarding", id.String())
	}

	return nil
}

// AssignedTeam returns the team ID handling the offboarding, empty if none.
func (r *PgOffboardingRepository) AssignedTeam(ctx context.Context, firmID string, id uuid.UUID) (string, error) {
	query := `SELECT assigned_team_id FROM employee_offboardings WHERE id = $1 AND firm_id = $2`

	var teamID *string
	if err := r.db.QueryRow(ctx, query, id, firmID).Scan(&teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.NewNotFoundError("offboarding", id.String())
		}
		return "", fmt.Errorf("failed to get assigned team: %w", err)
	}
	if teamID == nil {
		return "", nil
	}
	return *teamID, nil
}

// List retrieves offboarding records matching the filter criteria.
func (r *PgOffboardingRepository) List(ctx context.Context, filter CaseFilter) ([]*domain.Offboarding, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	where, args := buildCaseFilter(filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM employee_offboardings WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count offboardings: %w", err)
	}

	query := fmt.Sprintf("%s FROM employee_offboardings WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		offboardingSelectColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list offboardings: %w", err)
	}
	defer rows.Close()

	var records []*domain.Offboarding
	for rows.Next() {
		o, err := scanOffboardingFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan offboarding: %w", err)
		}
		records = append(records, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate offboardings: %w", err)
	}

	return records, total, nil
}

const offboardingSelectColumns = `
	SELECT id, firm_id, employee_id, employee_name, reason, last_working_day,
		status, current_stage_id, stage_entered_at, assigned_team_id,
		workflow_id, run_id, created_at, updated_at`

// offboardingScanDest holds the destination pointers for scanning an Offboarding row.
type offboardingScanDest struct {
	o              domain.Offboarding
	currentStageID *string
	assignedTeamID *string
	workflowID     *string
	runID          *string
}

func (d *offboardingScanDest) destinations() []interface{} {
	return []interface{}{
		&d.o.ID, &d.o.FirmID, &d.o.EmployeeID, &d.o.EmployeeName, &d.o.Reason, &d.o.LastWorkingDay,
		&d.o.Status, &d.currentStageID, &d.o.StageEnteredAt, &d.assignedTeamID,
		&d.workflowID, &d.runID, &d.o.CreatedAt, &d.o.UpdatedAt,
	}
}

func (d *offboardingScanDest) finalize() *domain.Offboarding {
	if d.currentStageID != nil {
		d.o.CurrentStageID = *d.currentStageID
	}
	if d.assignedTeamID != nil {
		d.o.AssignedTeamID = *d.assignedTeamID
	}
	if d.workflowID != nil {
		d.o.WorkflowID = *d.workflowID
	}
	if d.runID != nil {
		d.o.RunID = *d.runID
	}
	return &d.o
}

// scanOffboarding scans a single row into an Offboarding.
func scanOffboarding(row pgx.Row) (*domain.Offboarding, error) {
	var dest offboardingScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize(), nil
}

// scanOffboardingFromRows scans the current row from pgx.Rows into an Offboarding.
func scanOffboardingFromRows(rows pgx.Rows) (*domain.Offboarding, error) {
	var dest offboardingScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize(), nil
}
