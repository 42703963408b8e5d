package activities

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
)

// TemplateActivities provides Temporal activities for resolving workflow
// templates. Methods on this struct are registered as Temporal activities via
// the worker.
type TemplateActivities struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateActivities creates a new TemplateActivities instance.
func NewTemplateActivities(templateRepo repository.TemplateRepository) *TemplateActivities {
	return &TemplateActivities{templateRepo: templateRepo}
}

// GetWorkflowTemplate resolves the template that drives a lifecycle run.
//
// When TemplateID is set the pinned template is loaded; otherwise the firm's
// active template for the entity type is used. The returned template is
// validated so the workflow never caches a stage list it cannot drive. A
// missing or invalid template cannot heal on retry, so those failures are
// non-retryable and abort the run immediately; transient store errors keep
// the retry policy.
func (a *TemplateActivities) GetWorkflowTemplate(ctx context.Context, input GetWorkflowTemplateInput) (*GetWorkflowTemplateOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("resolving workflow template",
		"firmID", input.FirmID,
		"entityType", input.EntityType,
		"pinned", input.TemplateID != nil,
	)

	var (
		tpl *domain.WorkflowTemplate
		err error
	)
	if input.TemplateID != nil {
		tpl, err = a.templateRepo.Get(ctx, input.FirmID, *input.TemplateID)
		if err != nil {
			logger.Error("failed to load pinned template",
				"templateID", *input.TemplateID,
				"error", err,
			)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, temporal.NewNonRetryableApplicationError(
					fmt.Sprintf("template_not_found: %s", *input.TemplateID), "template_not_found", err)
			}
			return nil, fmt.Errorf("get template %s: %w", *input.TemplateID, err)
		}
	} else {
		tpl, err = a.templateRepo.GetActive(ctx, input.FirmID, input.EntityType)
		if err != nil {
			logger.Error("failed to load active template",
				"entityType", input.EntityType,
				"error", err,
			)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, temporal.NewNonRetryableApplicationError(
					fmt.Sprintf("no_active_template: %s", input.EntityType), "no_active_template", err)
			}
			return nil, fmt.Errorf("get active template for %s: %w", input.EntityType, err)
		}
	}

	if err := tpl.Validate(); err != nil {
		logger.Error("template failed validation",
			"templateID", tpl.ID,
			"error", err,
		)
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("invalid_template: %s", tpl.ID), "invalid_template", err)
	}

	logger.Info("template resolved",
		"templateID", tpl.ID,
		"stages", len(tpl.Stages),
	)
	return &GetWorkflowTemplateOutput{Template: tpl}, nil
}
