package component

// Invocation is a resolved container command line.
type Invocation struct {
	Image   string   `json:"image" yaml:"image"`
	Command []string `json:"command" yaml:"command"`
	Args    []string `json:"args" yaml:"args"`
}

// Argv returns the command followed by the arguments.
func (i *Invocation) Argv() []string {
	argv := make([]string, 0, len(i.Command)+len(i.Args))
	argv = append(argv, i.Command...)
	return append(argv, i.Args...)
}

// Flag returns the argument following --name.
func (i *Invocation) Flag(name string) (string, bool) {
	for j := 0; j+1 < len(i.Args); j++ {
		if i.Args[j] == "--"+name {
			return i.Args[j+1], true
		}
	}
	return "", false
}
