package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// Helper to create a valid template for testing.
func newTestTemplate() *domain.WorkflowTemplate {
	now := time.Now().UTC()
	return &domain.WorkflowTemplate{
		ID:         uuid.New(),
		FirmID:     "firm-123",
		Name:       "Litigation - Standard",
		EntityType: domain.EntityTypeCase,
		Stages: []domain.Stage{
			{ID: "intake", Name: "Intake", Order: 1, IsInitial: true},
			{
				ID: "discovery", Name: "Discovery", Order: 2,
				Requirements: []domain.Requirement{
					{ID: "evidence-list", Name: "Evidence list", Kind: domain.RequirementKindDocument, Mandatory: true},
				},
			},
			{ID: "closed", Name: "Closed", Order: 3, IsFinal: true},
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func templateRows(tpl *domain.WorkflowTemplate) *pgxmock.Rows {
	stagesJSON, _ := json.Marshal(tpl.Stages)
	return pgxmock.NewRows([]string{
		"id", "firm_id", "name", "entity_type", "stages", "is_active",
		"created_at", "updated_at",
	}).AddRow(
		tpl.ID, tpl.FirmID, tpl.Name, tpl.EntityType, stagesJSON, tpl.IsActive,
		tpl.CreatedAt, tpl.UpdatedAt,
	)
}

func TestPgTemplateRepository_Create(t *testing.T) {
	t.Run("creates valid template", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tpl := newTestTemplate()

		mock.ExpectExec("INSERT INTO workflow_templates").
			WithArgs(
				tpl.ID, tpl.FirmID, tpl.Name, tpl.EntityType, pgxmock.AnyArg(), tpl.IsActive,
				tpl.CreatedAt, tpl.UpdatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewPgTemplateRepository(mock)
		err = repo.Create(context.Background(), tpl)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects nil template", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgTemplateRepository(mock)
		err = repo.Create(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects template without firm", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tpl := newTestTemplate()
		tpl.FirmID = ""

		repo := NewPgTemplateRepository(mock)
		err = repo.Create(context.Background(), tpl)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects template failing domain validation", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tpl := newTestTemplate()
		tpl.Stages = nil

		repo := NewPgTemplateRepository(mock)
		err = repo.Create(context.Background(), tpl)
		assert.ErrorIs(t, err, domain.ErrInvalidTemplate)
	})

	t.Run("maps unique violation to already exists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tpl := newTestTemplate()
		pgErr := &pgconn.PgError{Code: pgUniqueViolation}

		mock.ExpectExec("INSERT INTO workflow_templates").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(pgErr)

		repo := NewPgTemplateRepository(mock)
		err = repo.Create(context.Background(), tpl)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})
}

func TestPgTemplateRepository_Get(t *testing.T) {
	t.Run("returns template with stages", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tpl := newTestTemplate()

		mock.ExpectQuery("SELECT .* FROM workflow_templates WHERE id = \\$1 AND firm_id = \\$2").
			WithArgs(tpl.ID, tpl.FirmID).
			WillReturnRows(templateRows(tpl))

		repo := NewPgTemplateRepository(mock)
		got, err := repo.Get(context.Background(), tpl.FirmID, tpl.ID)
		require.NoError(t, err)

		assert.Equal(t, tpl.ID, got.ID)
		assert.Equal(t, tpl.Name, got.Name)
		require.Len(t, got.Stages, 3)
		assert.Equal(t, "intake", got.Stages[0].ID)
		assert.True(t, got.Stages[0].IsInitial)
		require.Len(t, got.Stages[1].Requirements, 1)
		assert.True(t, got.Stages[1].Requirements[0].Mandatory)
	})

	t.Run("returns not found for missing template", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := uuid.New()
		mock.ExpectQuery("SELECT .* FROM workflow_templates WHERE id = \\$1 AND firm_id = \\$2").
			WithArgs(id, "firm-123").
			WillReturnError(pgx.ErrNoRows)

		repo := NewPgTemplateRepository(mock)
		_, err = repo.Get(context.Background(), "firm-123", id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPgTemplateRepository_GetActive(t *testing.T) {
	t.Run("returns active template for entity type", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tpl := newTestTemplate()

		mock.ExpectQuery("SELECT .* FROM workflow_templates WHERE firm_id = \\$1 AND entity_type = \\$2 AND is_active = TRUE").
			WithArgs(tpl.FirmID, domain.EntityTypeCase).
			WillReturnRows(templateRows(tpl))

		repo := NewPgTemplateRepository(mock)
		got, err := repo.GetActive(context.Background(), tpl.FirmID, domain.EntityTypeCase)
		require.NoError(t, err)
		assert.Equal(t, tpl.ID, got.ID)
		assert.True(t, got.IsActive)
	})

	t.Run("returns not found when no active template exists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT .* FROM workflow_templates WHERE firm_id = \\$1 AND entity_type = \\$2 AND is_active = TRUE").
			WithArgs("firm-123", domain.EntityTypeOffboarding).
			WillReturnError(pgx.ErrNoRows)

		repo := NewPgTemplateRepository(mock)
		_, err = repo.GetActive(context.Background(), "firm-123", domain.EntityTypeOffboarding)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPgTemplateRepository_SetActive(t *testing.T) {
	t.Run("activation deactivates siblings first", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := uuid.New()

		mock.ExpectExec("UPDATE workflow_templates").
			WithArgs("firm-123", id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("UPDATE workflow_templates").
			WithArgs(true, id, "firm-123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewPgTemplateRepository(mock)
		err = repo.SetActive(context.Background(), "firm-123", id, true)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deactivation skips sibling update", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := uuid.New()

		mock.ExpectExec("UPDATE workflow_templates").
			WithArgs(false, id, "firm-123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewPgTemplateRepository(mock)
		err = repo.SetActive(context.Background(), "firm-123", id, false)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no rows affected", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := uuid.New()

		mock.ExpectExec("UPDATE workflow_templates").
			WithArgs(false, id, "firm-123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewPgTemplateRepository(mock)
		err = repo.SetActive(context.Background(), "firm-123", id, false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPgTemplateRepository_List(t *testing.T) {
	t.Run("filter requires firm", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgTemplateRepository(mock)
		_, _, err = repo.List(context.Background(), TemplateFilter{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("lists templates with count", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tpl := newTestTemplate()

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM workflow_templates").
			WithArgs(tpl.FirmID).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
		mock.ExpectQuery("SELECT .* FROM workflow_templates").
			WithArgs(tpl.FirmID, 100, 0).
			WillReturnRows(templateRows(tpl))

		repo := NewPgTemplateRepository(mock)
		templates, total, err := repo.List(context.Background(), TemplateFilter{FirmID: tpl.FirmID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, templates, 1)
		assert.Equal(t, tpl.ID, templates[0].ID)
	})
}
