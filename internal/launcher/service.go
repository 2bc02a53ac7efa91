package launcher

import (
	"context"
	"fmt"

	"google.golang.org/api/dataproc/v1"
	"google.golang.org/api/option"
)

// BatchService is the part of the Dataproc API the launcher uses.
type BatchService interface {
	Create(ctx context.Context, parent, batchID string, batch *dataproc.Batch) (*dataproc.Operation, error)
	Get(ctx context.Context, name string) (*dataproc.Batch, error)
}

type batchService struct {
	batches *dataproc.ProjectsLocationsBatchesService
}

// NewBatchService connects to Dataproc with application default credentials. A non-empty
// endpoint replaces the public one.
func NewBatchService(ctx context.Context, endpoint string) (BatchService, error) {
	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := dataproc.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataproc service: %w", err)
	}
	return &batchService{batches: svc.Projects.Locations.Batches}, nil
}

func (s *batchService) Create(ctx context.Context, parent, batchID string, batch *dataproc.Batch) (*dataproc.Operation, error) {
	return s.batches.Create(parent, batch).BatchId(batchID).Context(ctx).Do()
}

func (s *batchService) Get(ctx context.Context, name string) (*dataproc.Batch, error) {
	return s.batches.Get(name).Context(ctx).Do()
}
