package activities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

func TestEnterStage_Case(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()

	caseStore := &mockLifecycleStore{}
	offboardingStore := &mockLifecycleStore{}
	activityRepo := &mockActivityRepository{}

	entityID := uuid.New()
	enteredAt := time.Now().UTC().Truncate(time.Second)

	caseStore.On("UpdateStage", mock.Anything, "firm-1", entityID, "discovery", mock.Anything).
		Return(nil)

	act := NewLifecycleActivities(caseStore, offboardingStore, activityRepo, nil)
	env.RegisterActivity(act.EnterStage)

	_, err := env.ExecuteActivity(act.EnterStage, EnterStageInput{
		FirmID:     "firm-1",
		EntityType: domain.EntityTypeCase,
		EntityID:   entityID,
		StageID:    "discovery",
		StageName:  "Discovery",
		EnteredAt:  enteredAt,
	})
	require.NoError(t, err)

	caseStore.AssertExpectations(t)
	offboardingStore.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnterStage_Offboarding(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()

	caseStore := &mockLifecycleStore{}
	offboardingStore := &mockLifecycleStore{}
	activityRepo := &mockActivityRepository{}

	entityID := uuid.New()

	offboardingStore.On("UpdateStage", mock.Anything, "firm-1", entityID, "it_clearance", mock.Anything).
		Return(nil)

	act := NewLifecycleActivities(caseStore, offboardingStore, activityRepo, nil)
	env.RegisterActivity(act.EnterStage)

	_, err := env.ExecuteActivity(act.EnterStage, EnterStageInput{
		FirmID:     "firm-1",
		EntityType: domain.EntityTypeOffboarding,
		EntityID:   entityID,
		StageID:    "it_clearance",
		StageName:  "IT Clearance",
		EnteredAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	offboardingStore.AssertExpectations(t)
}

func TestEnterStage_UnknownEntityType(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()

	act := NewLifecycleActivities(&mockLifecycleStore{}, &mockLifecycleStore{}, &mockActivityRepository{}, nil)
	env.RegisterActivity(act.EnterStage)

	_, err := env.ExecuteActivity(act.EnterStage, EnterStageInput{
		FirmID:     "firm-1",
		EntityType: domain.EntityType("merger"),
		EntityID:   uuid.New(),
		StageID:    "intake",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entity type")
}

func TestExitStage_AppendsAuditEntry(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()

	activityRepo := &mockActivityRepository{}
	entityID := uuid.New()
	enteredAt := time.Now().UTC().Add(-36 * time.Hour)
	exitedAt := time.Now().UTC()

	activityRepo.On("Append", mock.Anything, mock.MatchedBy(func(entry *domain.CaseActivity) bool {
		return entry.Action == domain.ActivityStageExited &&
			entry.EntityID == entityID &&
			entry.FirmID == "firm-1"
	})).Return(nil)

	act := NewLifecycleActivities(&mockLifecycleStore{}, &mockLifecycleStore{}, activityRepo, nil)
	env.RegisterActivity(act.ExitStage)

	_, err := env.ExecuteActivity(act.ExitStage, ExitStageInput{
		FirmID:     "firm-1",
		EntityType: domain.EntityTypeCase,
		EntityID:   entityID,
		StageID:    "discovery",
		StageName:  "Discovery",
		EnteredAt:  enteredAt,
		ExitedAt:   exitedAt,
	})
	require.NoError(t, err)

	activityRepo.AssertExpectations(t)
}

func TestCheckStageRequirements(t *testing.T) {
	requirements := []domain.Requirement{
		{ID: "evidence-list", Name: "Evidence list", Kind: domain.RequirementKindDocument, Mandatory: true},
		{ID: "witness-prep", Name: "Witness prep", Kind: domain.RequirementKindTask, Mandatory: true},
		{ID: "press-note", Name: "Press note", Kind: domain.RequirementKindTask, Mandatory: false},
	}

	tests := []struct {
		name        string
		completed   []string
		satisfied   bool
		missingLen  int
	}{
		{"nothing completed", nil, false, 2},
		{"one mandatory completed", []string{"evidence-list"}, false, 1},
		{"all mandatory completed", []string{"evidence-list", "witness-prep"}, true, 0},
		{"optional alone does not satisfy", []string{"press-note"}, false, 2},
		{"optional never blocks", []string{"evidence-list", "witness-prep"}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite := &testsuite.WorkflowTestSuite{}
			env := suite.NewTestActivityEnvironment()

			act := NewLifecycleActivities(&mockLifecycleStore{}, &mockLifecycleStore{}, &mockActivityRepository{}, nil)
			env.RegisterActivity(act.CheckStageRequirements)

			result, err := env.ExecuteActivity(act.CheckStageRequirements, CheckStageRequirementsInput{
				StageID:      "discovery",
				Requirements: requirements,
				CompletedIDs: tt.completed,
			})
			require.NoError(t, err)

			var output CheckStageRequirementsOutput
			require.NoError(t, result.Get(&output))
			assert.Equal(t, tt.satisfied, output.Satisfied)
			assert.Len(t, output.Missing, tt.missingLen)
		})
	}
}

func TestCheckStageRequirements_NoRequirements(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()

	act := NewLifecycleActivities(&mockLifecycleStore{}, &mockLifecycleStore{}, &mockActivityRepository{}, nil)
	env.RegisterActivity(act.CheckStageRequirements)

	result, err := env.ExecuteActivity(act.CheckStageRequirements, CheckStageRequirementsInput{
		StageID: "intake",
	})
	require.NoError(t, err)

	var output CheckStageRequirementsOutput
	require.NoError(t, result.Get(&output))
	assert.True(t, output.Satisfied)
	assert.Empty(t, output.Missing)
}

func TestLogCaseActivity(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()

	activityRepo := &mockActivityRepository{}
	entityID := uuid.New()

	activityRepo.On("Append", mock.Anything, mock.MatchedBy(func(entry *domain.CaseActivity) bool {
		return entry.Action == domain.ActivityRequirementCompleted &&
			entry.EntityID == entityID &&
			len(entry.Details) > 0
	})).Return(nil)

	act := NewLifecycleActivities(&mockLifecycleStore{}, &mockLifecycleStore{}, activityRepo, nil)
	env.RegisterActivity(act.LogCaseActivity)

	_, err := env.ExecuteActivity(act.LogCaseActivity, LogCaseActivityInput{
		FirmID:     "firm-1",
		EntityType: domain.EntityTypeCase,
		EntityID:   entityID,
		Action:     domain.ActivityRequirementCompleted,
		Details: map[string]interface{}{
			"requirement_id": "evidence-list",
			"completed_by":   "user-9",
		},
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	activityRepo.AssertExpectations(t)
}

func TestUpdateCaseStatus(t *testing.T) {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestActivityEnvironment()

	caseStore := &mockLifecycleStore{}
	entityID := uuid.New()

	caseStore.On("UpdateStatus", mock.Anything, "firm-1", entityID, domain.CaseStatusClosed).
		Return(nil)

	act := NewLifecycleActivities(caseStore, &mockLifecycleStore{}, &mockActivityRepository{}, nil)
	env.RegisterActivity(act.UpdateCaseStatus)

	_, err := env.ExecuteActivity(act.UpdateCaseStatus, UpdateCaseStatusInput{
		FirmID:     "firm-1",
		EntityType: domain.EntityTypeCase,
		EntityID:   entityID,
		Status:     domain.CaseStatusClosed,
	})
	require.NoError(t, err)

	caseStore.AssertExpectations(t)
}
