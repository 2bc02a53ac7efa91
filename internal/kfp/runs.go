package kfp

import (
	"context"
	"fmt"

	"github.com/gkcalat/pipelines/internal/models"
)

const runsPath = "/runs"

func (c *Client) CreateRun(ctx context.Context, run *models.Run) (*models.Run, error) {
	if run == nil {
		return nil, models.MissingArgument("run")
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}

	body := *run
	if body.ExperimentID == "" {
		body.ExperimentID = c.config.ExperimentID
	}

	var created models.Run
	if err := c.post(ctx, runsPath, &body, &created); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return &created, nil
}

func (c *Client) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	if runID == "" {
		return nil, models.MissingArgument("run_id")
	}

	var run models.Run
	if err := c.get(ctx, resourcePath(runsPath, runID), nil, &run); err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return &run, nil
}

func (c *Client) ListRuns(ctx context.Context, opts ListOptions) (*models.ListRunsResponse, error) {
	var resp models.ListRunsResponse
	if err := c.get(ctx, runsPath, c.listQuery(opts), &resp); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return &resp, nil
}

func (c *Client) ListAllRuns(ctx context.Context, opts ListOptions) ([]*models.Run, error) {
	return listAll(ctx, opts, func(ctx context.Context, opts ListOptions) ([]*models.Run, string, error) {
		resp, err := c.ListRuns(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		return resp.Runs, resp.NextPageToken, nil
	})
}

func (c *Client) DeleteRun(ctx context.Context, runID string) error {
	if runID == "" {
		return models.MissingArgument("run_id")
	}
	if err := c.delete(ctx, resourcePath(runsPath, runID)); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	return nil
}

func (c *Client) ArchiveRun(ctx context.Context, runID string) error {
	return c.runAction(ctx, runID, ":archive")
}

func (c *Client) UnarchiveRun(ctx context.Context, runID string) error {
	return c.runAction(ctx, runID, ":unarchive")
}

func (c *Client) TerminateRun(ctx context.Context, runID string) error {
	return c.runAction(ctx, runID, "/terminate")
}

func (c *Client) RetryRun(ctx context.Context, runID string) error {
	return c.runAction(ctx, runID, "/retry")
}

// runAction posts to a run custom method. Archive and unarchive use ":verb", terminate and
// retry use a "/verb" sub-path.
func (c *Client) runAction(ctx context.Context, runID, suffix string) error {
	if runID == "" {
		return models.MissingArgument("run_id")
	}
	if err := c.post(ctx, resourcePath(runsPath, runID)+suffix, nil, nil); err != nil {
		return fmt.Errorf("failed to %s run %s: %w", suffix[1:], runID, err)
	}
	return nil
}

// ReadArtifact returns the content of an artifact produced by a run node, as stored by the
// server (a gzipped tarball).
func (c *Client) ReadArtifact(ctx context.Context, runID, nodeID, artifactName string) ([]byte, error) {
	switch {
	case runID == "":
		return nil, models.MissingArgument("run_id")
	case nodeID == "":
		return nil, models.MissingArgument("node_id")
	case artifactName == "":
		return nil, models.MissingArgument("artifact_name")
	}

	path := resourcePath(runsPath, runID) + resourcePath("/nodes", nodeID) +
		resourcePath("/artifacts", artifactName) + ":read"

	var resp models.ReadArtifactResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to read artifact %s of run %s: %w", artifactName, runID, err)
	}
	return resp.Data, nil
}
