package kfp

import (
	"context"
	"fmt"

	"github.com/gkcalat/pipelines/internal/models"
)

const experimentsPath = "/experiments"

func (c *Client) CreateExperiment(ctx context.Context, experiment *models.Experiment) (*models.Experiment, error) {
	if experiment == nil {
		return nil, models.MissingArgument("experiment")
	}
	if err := experiment.Validate(); err != nil {
		return nil, err
	}

	body := *experiment
	if body.Namespace == "" {
		body.Namespace = c.config.Namespace
	}

	var created models.Experiment
	if err := c.post(ctx, experimentsPath, &body, &created); err != nil {
		return nil, fmt.Errorf("failed to create experiment: %w", err)
	}
	return &created, nil
}

func (c *Client) GetExperiment(ctx context.Context, experimentID string) (*models.Experiment, error) {
	if experimentID == "" {
		return nil, models.MissingArgument("experiment_id")
	}

	var experiment models.Experiment
	if err := c.get(ctx, resourcePath(experimentsPath, experimentID), nil, &experiment); err != nil {
		return nil, fmt.Errorf("failed to get experiment %s: %w", experimentID, err)
	}
	return &experiment, nil
}

func (c *Client) ListExperiments(ctx context.Context, opts ListOptions) (*models.ListExperimentsResponse, error) {
	var resp models.ListExperimentsResponse
	if err := c.get(ctx, experimentsPath, c.listQuery(opts), &resp); err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	return &resp, nil
}

func (c *Client) ListAllExperiments(ctx context.Context, opts ListOptions) ([]*models.Experiment, error) {
	return listAll(ctx, opts, func(ctx context.Context, opts ListOptions) ([]*models.Experiment, string, error) {
		resp, err := c.ListExperiments(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		return resp.Experiments, resp.NextPageToken, nil
	})
}

func (c *Client) DeleteExperiment(ctx context.Context, experimentID string) error {
	if experimentID == "" {
		return models.MissingArgument("experiment_id")
	}
	if err := c.delete(ctx, resourcePath(experimentsPath, experimentID)); err != nil {
		return fmt.Errorf("failed to delete experiment %s: %w", experimentID, err)
	}
	return nil
}

func (c *Client) ArchiveExperiment(ctx context.Context, experimentID string) error {
	return c.experimentAction(ctx, experimentID, "archive")
}

func (c *Client) UnarchiveExperiment(ctx context.Context, experimentID string) error {
	return c.experimentAction(ctx, experimentID, "unarchive")
}

func (c *Client) experimentAction(ctx context.Context, experimentID, action string) error {
	if experimentID == "" {
		return models.MissingArgument("experiment_id")
	}
	path := resourcePath(experimentsPath, experimentID) + ":" + action
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("failed to %s experiment %s: %w", action, experimentID, err)
	}
	return nil
}
