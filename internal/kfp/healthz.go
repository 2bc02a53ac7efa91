package kfp

import (
	"context"
	"fmt"

	"github.com/gkcalat/pipelines/internal/models"
)

func (c *Client) Healthz(ctx context.Context) (*models.Healthz, error) {
	var healthz models.Healthz
	if err := c.get(ctx, "/healthz", nil, &healthz); err != nil {
		return nil, fmt.Errorf("failed to check server health: %w", err)
	}
	return &healthz, nil
}
