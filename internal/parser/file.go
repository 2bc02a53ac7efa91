package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gkcalat/pipelines/internal/models"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (supported: .json, .yaml, .yml)", ext)
	}
}

func ParseParams(reader io.Reader, format string) (map[string]interface{}, error) {
	if format == FormatJSON {
		return ParseJSONParams(reader)
	}
	return ParseYAMLParams(reader)
}

func ParseMetrics(reader io.Reader, format string) ([]*models.RunMetric, error) {
	if format == FormatJSON {
		return ParseJSONMetrics(reader)
	}
	return ParseYAMLMetrics(reader)
}

// ParseKeyValues parses key=value pairs. Values that read as a bool or a number are typed,
// everything else is kept as a string.
func ParseKeyValues(pairs []string) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid parameter format: %s (expected key=value)", pair)
		}
		result[parts[0]] = scalar(parts[1])
	}
	return result, nil
}

func scalar(raw string) interface{} {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &node); err != nil || len(node.Content) != 1 {
		return raw
	}
	value := node.Content[0]
	if value.Kind != yaml.ScalarNode || value.Style != 0 {
		return raw
	}

	switch value.ShortTag() {
	case "!!bool", "!!int", "!!float":
		var v interface{}
		if err := value.Decode(&v); err == nil {
			return v
		}
	}
	return raw
}
