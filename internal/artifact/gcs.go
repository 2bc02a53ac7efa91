package artifact

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

type gcsBackend struct {
	client *storage.Client
}

func newGCSBackend(ctx context.Context) (*gcsBackend, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &gcsBackend{client: client}, nil
}

func (b *gcsBackend) Get(ctx context.Context, bucket, key string, w io.Writer) error {
	reader, err := b.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return err
	}
	defer reader.Close()

	_, err = io.Copy(w, reader)
	return err
}

func (b *gcsBackend) Put(ctx context.Context, bucket, key string, r io.Reader) error {
	writer := b.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
