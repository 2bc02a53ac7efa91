package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gkcalat/pipelines/internal/models"
)

func ParseJSONParams(reader io.Reader) (map[string]interface{}, error) {
	var data models.ParametersFile
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON parameters: %w", err)
	}

	return normalizeNumbers(data.Parameters), nil
}

func ParseJSONMetrics(reader io.Reader) ([]*models.RunMetric, error) {
	var data models.MetricsFile
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON metrics: %w", err)
	}

	return data.Metrics, nil
}

// normalizeNumbers keeps integers integral so they are not sent as floats.
func normalizeNumbers(params map[string]interface{}) map[string]interface{} {
	for key, value := range params {
		params[key] = normalizeValue(value)
	}
	return params
}

func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case map[string]interface{}:
		return normalizeNumbers(v)
	case []interface{}:
		for i := range v {
			v[i] = normalizeValue(v[i])
		}
		return v
	default:
		return v
	}
}
