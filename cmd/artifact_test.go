package cmd

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"

	"github.com/gkcalat/pipelines/internal/artifact"
	"github.com/gkcalat/pipelines/internal/config"
)

// partialBackend writes data and then fails with err.
type partialBackend struct {
	data string
	err  error
}

func (b *partialBackend) Get(_ context.Context, _, _ string, w io.Writer) error {
	if _, err := io.WriteString(w, b.data); err != nil {
		return err
	}
	return b.err
}

func (b *partialBackend) Put(context.Context, string, string, io.Reader) error {
	return errors.New("not supported")
}

func TestDownloadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := artifact.NewStore(&config.Config{},
		artifact.WithBackend(artifact.SchemeMinio, &partialBackend{data: "model"}))

	if err := downloadFile(context.Background(), store, fs, "minio://mlpipeline/model.tgz", "/out/model.tgz"); err != nil {
		t.Fatalf("downloadFile: %v", err)
	}
	data, err := afero.ReadFile(fs, "/out/model.tgz")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "model" {
		t.Errorf("content = %q, want %q", data, "model")
	}
}

func TestDownloadFileRemovesPartialOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	connReset := errors.New("connection reset")
	store := artifact.NewStore(&config.Config{},
		artifact.WithBackend(artifact.SchemeMinio, &partialBackend{data: "trunc", err: connReset}))

	err := downloadFile(context.Background(), store, fs, "minio://mlpipeline/model.tgz", "/out/model.tgz")
	if !errors.Is(err, connReset) {
		t.Fatalf("expected %v, got %v", connReset, err)
	}
	if exists, _ := afero.Exists(fs, "/out/model.tgz"); exists {
		t.Error("partial download should be removed")
	}
}
