package artifact

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// Unpack extracts a gzipped tarball, as returned when reading a run artifact, into dir. It
// returns the paths of the regular files written.
func Unpack(data []byte, fs afero.Fs, dir string) ([]string, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gzipReader.Close()

	var written []string
	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, fmt.Errorf("failed to read tar entry: %w", err)
		}

		// Rooting the name before joining keeps entries inside dir.
		target := filepath.Join(dir, filepath.Clean("/"+header.Name))

		switch header.Typeflag {
		case tar.TypeDir:
			if err := fs.MkdirAll(target, 0755); err != nil {
				return written, fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(fs, target, tarReader); err != nil {
				return written, err
			}
			written = append(written, target)
		}
	}
}

func writeFile(fs afero.Fs, path string, r io.Reader) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	file, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return file.Close()
}
