package artifact

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v6"

	"github.com/gkcalat/pipelines/internal/config"
)

type minioBackend struct {
	client *minio.Client
}

func newMinioBackend(cfg *config.Config) (*minioBackend, error) {
	client, err := minio.New(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioSecure)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &minioBackend{client: client}, nil
}

func (b *minioBackend) Get(ctx context.Context, bucket, key string, w io.Writer) error {
	object, err := b.client.GetObjectWithContext(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer object.Close()

	_, err = io.Copy(w, object)
	return err
}

func (b *minioBackend) Put(ctx context.Context, bucket, key string, r io.Reader) error {
	_, err := b.client.PutObjectWithContext(ctx, bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	return err
}
