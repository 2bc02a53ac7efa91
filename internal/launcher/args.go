package launcher

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/gkcalat/pipelines/internal/models"
)

// Args is the command line shared by every Dataproc batch component.
type Args struct {
	Type         string
	Payload      string
	Project      string
	Location     string
	BatchID      string
	GCPResources string
}

func ParseArgs(argv []string) (*Args, error) {
	var args Args
	fs := pflag.NewFlagSet("launcher", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&args.Type, "type", "", "job type, e.g. DataprocSparkBatch")
	fs.StringVar(&args.Payload, "payload", "", "batch request as JSON")
	fs.StringVar(&args.Project, "project", "", "project to run the batch in")
	fs.StringVar(&args.Location, "location", "", "region of the batch")
	fs.StringVar(&args.BatchID, "batch_id", "", "batch id, generated when empty")
	fs.StringVar(&args.GCPResources, "gcp_resources", "", "path the gcp_resources output is written to")

	if err := fs.Parse(argv); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedArgument, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", models.ErrMalformedArgument, fs.Args())
	}

	for name, value := range map[string]string{
		"type":          args.Type,
		"payload":       args.Payload,
		"project":       args.Project,
		"location":      args.Location,
		"gcp_resources": args.GCPResources,
	} {
		if value == "" {
			return nil, models.MissingArgument(name)
		}
	}
	return &args, nil
}

// Parent returns the collection batches are created in.
func (a *Args) Parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", a.Project, a.Location)
}
