package component

import "fmt"

type yamlInput struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type,omitempty"`
	Description string `yaml:"description,omitempty"`
	Default     string `yaml:"default,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
}

type yamlOutput struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type yamlContainer struct {
	Image   string        `yaml:"image"`
	Command []string      `yaml:"command,omitempty"`
	Args    []interface{} `yaml:"args,omitempty"`
}

type yamlImplementation struct {
	Container yamlContainer `yaml:"container"`
}

type yamlSpec struct {
	Name           string             `yaml:"name"`
	Description    string             `yaml:"description,omitempty"`
	Inputs         []yamlInput        `yaml:"inputs,omitempty"`
	Outputs        []yamlOutput       `yaml:"outputs,omitempty"`
	Implementation yamlImplementation `yaml:"implementation"`
}

// MarshalYAML renders the component in component.yaml form.
func (s *Spec) MarshalYAML() (interface{}, error) {
	out := yamlSpec{
		Name:        s.Name,
		Description: s.Description,
		Implementation: yamlImplementation{Container: yamlContainer{
			Image:   s.Implementation.Image,
			Command: s.Implementation.Command,
		}},
	}

	for _, in := range s.Inputs {
		yin := yamlInput{
			Name:        in.Name,
			Type:        in.Type,
			Description: in.Description,
			Optional:    in.Optional || in.Default != nil,
		}
		if in.Default != nil {
			def, err := render(in.Type, in.Default, false)
			if err != nil {
				return nil, fmt.Errorf("failed to render default of %s: %w", in.Name, err)
			}
			yin.Default = def
		}
		out.Inputs = append(out.Inputs, yin)
	}
	for _, o := range s.Outputs {
		out.Outputs = append(out.Outputs, yamlOutput(o))
	}
	for _, arg := range s.Implementation.Args {
		out.Implementation.Container.Args = append(out.Implementation.Container.Args, arg.yamlValue())
	}

	return out, nil
}
