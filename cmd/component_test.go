package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/gkcalat/pipelines/internal/component/dataproc"
)

func TestShellQuote(t *testing.T) {
	tests := map[string]string{
		"":                    "''",
		"--project":           "--project",
		"gs://bucket/job.jar": "gs://bucket/job.jar",
		`{"labels": {}}`:      `'{"labels": {}}'`,
		"it's":                `'it'\''s'`,
	}
	for in, want := range tests {
		if got := shellQuote(in); got != want {
			t.Errorf("shellQuote(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBatchArgsFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "spark-batch"}
	addBatchFlags(cmd)
	err := cmd.Flags().Parse([]string{
		"--project", "p1",
		"--label", "team=ml",
		"--network-tag", "a", "--network-tag", "b",
	})
	if err != nil {
		t.Fatal(err)
	}

	got := batchArgs(cmd)
	want := dataproc.BatchArgs{
		Project:                 "p1",
		Location:                dataproc.DefaultLocation,
		Labels:                  map[string]string{"team": "ml"},
		RuntimeConfigProperties: map[string]string{},
		NetworkTags:             []string{"a", "b"},
		GCPResources:            dataproc.DefaultGCPResourcesPath,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("batchArgs mismatch (-want +got):\n%s", diff)
	}
}
