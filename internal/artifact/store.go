// Package artifact moves pipeline artifacts between local files and object storage.
package artifact

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/gkcalat/pipelines/internal/config"
)

// Backend reads and writes objects of one storage scheme.
type Backend interface {
	Get(ctx context.Context, bucket, key string, w io.Writer) error
	Put(ctx context.Context, bucket, key string, r io.Reader) error
}

type Store struct {
	cfg *config.Config
	fs  afero.Fs

	mu       sync.Mutex
	backends map[string]Backend
}

type Option func(*Store)

// WithFs sets the filesystem used for file:// locations.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) { s.fs = fs }
}

// WithBackend overrides the backend of a scheme.
func WithBackend(scheme string, b Backend) Option {
	return func(s *Store) { s.backends[scheme] = b }
}

func NewStore(cfg *config.Config, opts ...Option) *Store {
	s := &Store{
		cfg:      cfg,
		fs:       afero.NewOsFs(),
		backends: make(map[string]Backend),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Download(ctx context.Context, uri string, w io.Writer) error {
	loc, err := ParseURI(uri)
	if err != nil {
		return err
	}
	backend, err := s.backend(ctx, loc.Scheme)
	if err != nil {
		return err
	}

	logrus.WithField("uri", loc.String()).Debug("downloading artifact")
	if err := backend.Get(ctx, loc.Bucket, loc.Key, w); err != nil {
		return fmt.Errorf("failed to download %s: %w", loc, err)
	}
	return nil
}

func (s *Store) Upload(ctx context.Context, r io.Reader, uri string) error {
	loc, err := ParseURI(uri)
	if err != nil {
		return err
	}
	backend, err := s.backend(ctx, loc.Scheme)
	if err != nil {
		return err
	}

	logrus.WithField("uri", loc.String()).Debug("uploading artifact")
	if err := backend.Put(ctx, loc.Bucket, loc.Key, r); err != nil {
		return fmt.Errorf("failed to upload %s: %w", loc, err)
	}
	return nil
}

// backend creates the backend of a scheme on first use, so credentials for one store are
// never required to reach another.
func (s *Store) backend(ctx context.Context, scheme string) (Backend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.backends[scheme]; ok {
		return b, nil
	}

	var (
		b   Backend
		err error
	)
	switch scheme {
	case SchemeFile:
		b = &fsBackend{fs: s.fs}
	case SchemeMinio:
		b, err = newMinioBackend(s.cfg)
	case SchemeGCS:
		b, err = newGCSBackend(ctx)
	default:
		err = fmt.Errorf("unsupported artifact uri scheme: %s", scheme)
	}
	if err != nil {
		return nil, err
	}

	s.backends[scheme] = b
	return b, nil
}
