// Package component describes containerized pipeline components: their inputs and outputs,
// and how those are templated into a command line.
package component

import (
	"fmt"

	"github.com/gkcalat/pipelines/internal/models"
)

// Input types as they appear in component.yaml.
const (
	TypeString     = "String"
	TypeInteger    = "Integer"
	TypeBoolean    = "Boolean"
	TypeJSONObject = "JsonObject"
	TypeJSONArray  = "JsonArray"
)

type InputSpec struct {
	Name        string
	Type        string
	Description string
	Default     interface{}
	Optional    bool
}

type OutputSpec struct {
	Name        string
	Type        string
	Description string
}

type Implementation struct {
	Image   string
	Command []string
	Args    []Placeholder
}

type Spec struct {
	Name           string
	Description    string
	Inputs         []InputSpec
	Outputs        []OutputSpec
	Implementation Implementation
}

func (s *Spec) input(name string) (InputSpec, bool) {
	for _, in := range s.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputSpec{}, false
}

// Resolve templates the container arguments. Inputs not given fall back to their defaults;
// a required input or an output path that is missing is an error.
func (s *Spec) Resolve(inputs map[string]interface{}, outputs map[string]string) (*Invocation, error) {
	for name := range inputs {
		if _, ok := s.input(name); !ok {
			return nil, fmt.Errorf("%w: %s has no input %s", models.ErrMalformedArgument, s.Name, name)
		}
	}

	r := &resolver{spec: s, inputs: inputs, outputs: outputs}
	args := make([]string, 0, len(s.Implementation.Args))
	for _, arg := range s.Implementation.Args {
		value, err := arg.resolve(r, false)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", s.Name, err)
		}
		args = append(args, value)
	}

	return &Invocation{
		Image:   s.Implementation.Image,
		Command: append([]string(nil), s.Implementation.Command...),
		Args:    args,
	}, nil
}
