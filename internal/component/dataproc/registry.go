package dataproc

import (
	"fmt"
	"sort"

	"github.com/gkcalat/pipelines/internal/component"
	"github.com/gkcalat/pipelines/internal/models"
)

var registry = map[string]func() *component.Spec{
	"spark-batch":   SparkBatchSpec,
	"pyspark-batch": PySparkBatchSpec,
}

// Names lists the registered component names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Lookup(name string) (*component.Spec, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown component %q (available: %v)", models.ErrMalformedValue, name, Names())
	}
	return build(), nil
}
