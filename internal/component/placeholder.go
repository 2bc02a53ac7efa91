package component

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gkcalat/pipelines/internal/models"
)

// Placeholder is one element of a container argument list. It resolves to text once the
// component's inputs and outputs are known.
type Placeholder interface {
	resolve(r *resolver, inConcat bool) (string, error)
	yamlValue() interface{}
}

// Literal is passed through unchanged.
type Literal string

// InputValue is replaced by the value of the named input.
type InputValue string

// OutputPath is replaced by the local path where the named output is written.
type OutputPath string

// Concat joins the resolution of its parts into one argument.
type Concat []Placeholder

func (l Literal) resolve(*resolver, bool) (string, error) { return string(l), nil }
func (l Literal) yamlValue() interface{}                  { return string(l) }

func (i InputValue) resolve(r *resolver, inConcat bool) (string, error) {
	return r.input(string(i), inConcat)
}

func (i InputValue) yamlValue() interface{} {
	return map[string]string{"inputValue": string(i)}
}

func (o OutputPath) resolve(r *resolver, _ bool) (string, error) {
	path, ok := r.outputs[string(o)]
	if !ok || path == "" {
		return "", models.MissingArgument("output " + string(o))
	}
	return path, nil
}

func (o OutputPath) yamlValue() interface{} {
	return map[string]string{"outputPath": string(o)}
}

func (c Concat) resolve(r *resolver, _ bool) (string, error) {
	var b strings.Builder
	for _, part := range c {
		s, err := part.resolve(r, true)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (c Concat) yamlValue() interface{} {
	parts := make([]interface{}, 0, len(c))
	for _, part := range c {
		parts = append(parts, part.yamlValue())
	}
	return map[string]interface{}{"concat": parts}
}

type resolver struct {
	spec    *Spec
	inputs  map[string]interface{}
	outputs map[string]string
}

func (r *resolver) input(name string, inConcat bool) (string, error) {
	in, ok := r.spec.input(name)
	if !ok {
		return "", fmt.Errorf("%w: unknown input %s", models.ErrMalformedArgument, name)
	}

	value, ok := r.inputs[name]
	if !ok {
		switch {
		case in.Default != nil:
			value = in.Default
		case in.Optional:
			value = nil
		default:
			return "", models.MissingArgument(name)
		}
	}
	return render(in.Type, value, inConcat)
}

// render formats a value as argument text. String inputs inside a concatenation are
// JSON-escaped without quotes, so templates that quote them produce valid JSON. JSON inputs
// given as strings are already serialized and are inserted verbatim.
func render(typ string, value interface{}, inConcat bool) (string, error) {
	if isNil(value) {
		switch typ {
		case TypeJSONObject:
			return "{}", nil
		case TypeJSONArray:
			return "[]", nil
		default:
			return "", nil
		}
	}

	switch v := value.(type) {
	case string:
		if !inConcat || typ == TypeJSONObject || typ == TypeJSONArray {
			return v, nil
		}
		quoted, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(quoted[1 : len(quoted)-1]), nil
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%w: cannot render %T as JSON: %v", models.ErrMalformedValue, value, err)
		}
		return string(data), nil
	}
}

func isNil(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case map[string]string:
		return v == nil
	case map[string]interface{}:
		return v == nil
	case []string:
		return v == nil
	case []interface{}:
		return v == nil
	}
	return false
}
