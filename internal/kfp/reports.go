package kfp

import (
	"context"
	"fmt"

	"github.com/gkcalat/pipelines/internal/models"
)

// ReportRunMetrics reports metrics of a run. Per-metric outcomes are returned in the
// response; a metric rejected by the server is not an error of the call itself.
func (c *Client) ReportRunMetrics(ctx context.Context, runID string, metrics []*models.RunMetric) (*models.ReportRunMetricsResponse, error) {
	req := &models.ReportRunMetricsRequest{RunID: runID, Metrics: metrics}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp models.ReportRunMetricsResponse
	if err := c.post(ctx, resourcePath(runsPath, runID)+":reportMetrics", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to report metrics of run %s: %w", runID, err)
	}
	return &resp, nil
}
