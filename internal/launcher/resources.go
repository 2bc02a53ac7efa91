package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	resourceTypeBatch = "DataprocBatch"
	dataprocURIPrefix = "https://dataproc.googleapis.com/v1/"
)

type gcpResource struct {
	ResourceType string `json:"resourceType"`
	ResourceURI  string `json:"resourceUri"`
}

type gcpResources struct {
	Resources []gcpResource `json:"resources"`
}

// readBatchName returns the batch recorded by an earlier attempt, or "" when there is none.
func readBatchName(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read gcp_resources: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", nil
	}

	var resources gcpResources
	if err := json.Unmarshal(data, &resources); err != nil {
		return "", fmt.Errorf("failed to parse gcp_resources: %w", err)
	}
	for _, r := range resources.Resources {
		if r.ResourceType == resourceTypeBatch && strings.HasPrefix(r.ResourceURI, dataprocURIPrefix) {
			return strings.TrimPrefix(r.ResourceURI, dataprocURIPrefix), nil
		}
	}
	return "", nil
}

func writeBatchName(fs afero.Fs, path, name string) error {
	data, err := json.Marshal(gcpResources{Resources: []gcpResource{{
		ResourceType: resourceTypeBatch,
		ResourceURI:  dataprocURIPrefix + name,
	}}})
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for gcp_resources: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write gcp_resources: %w", err)
	}
	return nil
}
