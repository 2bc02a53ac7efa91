package kfp

import (
	"context"
	"fmt"

	"github.com/gkcalat/pipelines/internal/models"
)

const recurringRunsPath = "/recurringruns"

func (c *Client) CreateRecurringRun(ctx context.Context, recurringRun *models.RecurringRun) (*models.RecurringRun, error) {
	if recurringRun == nil {
		return nil, models.MissingArgument("recurring_run")
	}
	if err := recurringRun.Validate(); err != nil {
		return nil, err
	}

	body := *recurringRun
	if body.Namespace == "" {
		body.Namespace = c.config.Namespace
	}
	if body.ExperimentID == "" {
		body.ExperimentID = c.config.ExperimentID
	}

	var created models.RecurringRun
	if err := c.post(ctx, recurringRunsPath, &body, &created); err != nil {
		return nil, fmt.Errorf("failed to create recurring run: %w", err)
	}
	return &created, nil
}

func (c *Client) GetRecurringRun(ctx context.Context, recurringRunID string) (*models.RecurringRun, error) {
	if recurringRunID == "" {
		return nil, models.MissingArgument("recurring_run_id")
	}

	var recurringRun models.RecurringRun
	if err := c.get(ctx, resourcePath(recurringRunsPath, recurringRunID), nil, &recurringRun); err != nil {
		return nil, fmt.Errorf("failed to get recurring run %s: %w", recurringRunID, err)
	}
	return &recurringRun, nil
}

func (c *Client) ListRecurringRuns(ctx context.Context, opts ListOptions) (*models.ListRecurringRunsResponse, error) {
	var resp models.ListRecurringRunsResponse
	if err := c.get(ctx, recurringRunsPath, c.listQuery(opts), &resp); err != nil {
		return nil, fmt.Errorf("failed to list recurring runs: %w", err)
	}
	return &resp, nil
}

func (c *Client) ListAllRecurringRuns(ctx context.Context, opts ListOptions) ([]*models.RecurringRun, error) {
	return listAll(ctx, opts, func(ctx context.Context, opts ListOptions) ([]*models.RecurringRun, string, error) {
		resp, err := c.ListRecurringRuns(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		return resp.RecurringRuns, resp.NextPageToken, nil
	})
}

func (c *Client) DeleteRecurringRun(ctx context.Context, recurringRunID string) error {
	if recurringRunID == "" {
		return models.MissingArgument("recurring_run_id")
	}
	if err := c.delete(ctx, resourcePath(recurringRunsPath, recurringRunID)); err != nil {
		return fmt.Errorf("failed to delete recurring run %s: %w", recurringRunID, err)
	}
	return nil
}

func (c *Client) EnableRecurringRun(ctx context.Context, recurringRunID string) error {
	return c.recurringRunAction(ctx, recurringRunID, "enable")
}

func (c *Client) DisableRecurringRun(ctx context.Context, recurringRunID string) error {
	return c.recurringRunAction(ctx, recurringRunID, "disable")
}

func (c *Client) recurringRunAction(ctx context.Context, recurringRunID, action string) error {
	if recurringRunID == "" {
		return models.MissingArgument("recurring_run_id")
	}
	path := resourcePath(recurringRunsPath, recurringRunID) + ":" + action
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("failed to %s recurring run %s: %w", action, recurringRunID, err)
	}
	return nil
}
