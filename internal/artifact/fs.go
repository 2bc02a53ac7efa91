package artifact

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

type fsBackend struct {
	fs afero.Fs
}

func (b *fsBackend) Get(_ context.Context, _, key string, w io.Writer) error {
	file, err := b.fs.Open(key)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}
	return nil
}

func (b *fsBackend) Put(_ context.Context, _, key string, r io.Reader) error {
	dir := filepath.Dir(key)
	if err := b.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := b.fs.Create(key)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	return file.Close()
}
