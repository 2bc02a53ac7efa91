package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gkcalat/pipelines/internal/config"
	"github.com/gkcalat/pipelines/internal/launcher"
)

var launchCmd = &cobra.Command{
	Use:   "launch --type <JobType> --payload <json> --project <p> --location <l> --batch_id <id> --gcp_resources <path>",
	Short: "Create a Dataproc batch from a component payload and wait for it",
	Long: `Create a Dataproc batch from a component payload and wait for it to finish.
It accepts the same arguments as the launcher invoked by the Dataproc batch
components. When the gcp_resources file already names a batch, that batch is
resumed instead.`,
	DisableFlagParsing: true,
	RunE:               launch,
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

func launch(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return cmd.Help()
		}
	}

	launchArgs, err := launcher.ParseArgs(args)
	if err != nil {
		return err
	}

	cfg := config.New()
	svc, err := launcher.NewBatchService(cmd.Context(), cfg.DataprocEndpoint)
	if err != nil {
		return err
	}

	l := launcher.New(svc, launcher.WithPollInterval(cfg.PollInterval))
	batch, err := l.Run(cmd.Context(), launchArgs)
	if err != nil {
		return err
	}
	newPrinter(cfg).Success("Batch %s %s", batch.Name, batch.State)
	return nil
}
