package kfp

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/gkcalat/pipelines/internal/models"
)

// WaitForRun polls a run until it reaches a terminal state or ctx is done.
func (c *Client) WaitForRun(ctx context.Context, runID string, interval time.Duration) (*models.Run, error) {
	if interval <= 0 {
		interval = c.config.PollInterval
	}

	var run *models.Run
	err := wait.PollUntilContextCancel(ctx, interval, true, func(ctx context.Context) (bool, error) {
		var err error
		run, err = c.GetRun(ctx, runID)
		if err != nil {
			return false, err
		}
		c.log.WithField("run", runID).Debugf("run is %s", run.State)
		return run.State.IsTerminal(), nil
	})
	if err != nil {
		return run, fmt.Errorf("failed waiting for run %s: %w", runID, err)
	}
	return run, nil
}
