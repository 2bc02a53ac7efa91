// Package launcher runs a Dataproc batch workload described by a component payload and
// waits for it to finish.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"google.golang.org/api/dataproc/v1"
	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	StateSucceeded = "SUCCEEDED"
	StateFailed    = "FAILED"
	StateCancelled = "CANCELLED"
)

const DefaultPollInterval = 20 * time.Second

// ErrBatchFailed is returned when the batch ends in FAILED or CANCELLED.
var ErrBatchFailed = errors.New("batch did not succeed")

type Launcher struct {
	svc      BatchService
	fs       afero.Fs
	interval time.Duration
	log      *logrus.Entry
}

type Option func(*Launcher)

func WithFs(fs afero.Fs) Option {
	return func(l *Launcher) { l.fs = fs }
}

func WithPollInterval(d time.Duration) Option {
	return func(l *Launcher) {
		if d > 0 {
			l.interval = d
		}
	}
}

func New(svc BatchService, opts ...Option) *Launcher {
	l := &Launcher{
		svc:      svc,
		fs:       afero.NewOsFs(),
		interval: DefaultPollInterval,
		log:      logrus.WithField("component", "launcher"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run creates the batch, or resumes the one named in gcp_resources, and blocks until it
// reaches a final state.
func (l *Launcher) Run(ctx context.Context, args *Args) (*dataproc.Batch, error) {
	name, err := readBatchName(l.fs, args.GCPResources)
	if err != nil {
		return nil, err
	}

	if name != "" {
		l.log.WithField("batch", name).Info("resuming existing batch")
	} else {
		name, err = l.create(ctx, args)
		if err != nil {
			return nil, err
		}
	}

	return l.wait(ctx, name)
}

func (l *Launcher) create(ctx context.Context, args *Args) (string, error) {
	batch, err := DecodePayload(args.Type, args.Payload)
	if err != nil {
		return "", err
	}

	batchID := args.BatchID
	if batchID == "" {
		batchID = "kfp-" + uuid.NewString()
	}
	parent := args.Parent()
	name := parent + "/batches/" + batchID

	l.log.WithFields(logrus.Fields{
		"type":  args.Type,
		"batch": name,
	}).Info("creating batch")

	op, err := l.svc.Create(ctx, parent, batchID, batch)
	if err != nil {
		return "", fmt.Errorf("failed to create batch %s: %w", name, err)
	}
	if op != nil && op.Error != nil {
		return "", fmt.Errorf("failed to create batch %s: %s", name, op.Error.Message)
	}

	if err := writeBatchName(l.fs, args.GCPResources, name); err != nil {
		return "", err
	}
	return name, nil
}

func (l *Launcher) wait(ctx context.Context, name string) (*dataproc.Batch, error) {
	var batch *dataproc.Batch
	err := wait.PollUntilContextCancel(ctx, l.interval, true, func(ctx context.Context) (bool, error) {
		var err error
		batch, err = l.svc.Get(ctx, name)
		if err != nil {
			return false, fmt.Errorf("failed to get batch %s: %w", name, err)
		}

		l.log.WithFields(logrus.Fields{
			"batch": name,
			"state": batch.State,
		}).Debug("polled batch")

		switch batch.State {
		case StateSucceeded:
			return true, nil
		case StateFailed, StateCancelled:
			return false, fmt.Errorf("%w: %s is %s: %s", ErrBatchFailed, name, batch.State, batch.StateMessage)
		}
		return false, nil
	})
	if err != nil {
		return batch, err
	}

	l.log.WithField("batch", name).Info("batch succeeded")
	return batch, nil
}
