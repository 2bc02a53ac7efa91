package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gkcalat/pipelines/internal/models"
)

func ParseYAMLParams(reader io.Reader) (map[string]interface{}, error) {
	var data models.ParametersFile
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML parameters: %w", err)
	}

	return data.Parameters, nil
}

func ParseYAMLMetrics(reader io.Reader) ([]*models.RunMetric, error) {
	var data models.MetricsFile
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML metrics: %w", err)
	}

	return data.Metrics, nil
}

// ParsePipelineSpec reads a compiled pipeline. JSON input is accepted as YAML; when the file
// holds several documents (pipeline spec followed by platform spec) only the first is used.
func ParsePipelineSpec(reader io.Reader) (map[string]interface{}, error) {
	var spec map[string]interface{}
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&spec); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("failed to parse pipeline spec: %w", models.MissingArgument("pipeline_spec"))
		}
		return nil, fmt.Errorf("failed to parse pipeline spec: %w", err)
	}
	if len(spec) == 0 {
		return nil, fmt.Errorf("failed to parse pipeline spec: %w", models.MissingArgument("pipeline_spec"))
	}

	return spec, nil
}
