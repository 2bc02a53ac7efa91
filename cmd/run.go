package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gkcalat/pipelines/internal/kfp"
	"github.com/gkcalat/pipelines/internal/models"
	"github.com/gkcalat/pipelines/internal/output"
)

var runCmd = &cobra.Command{
	Use:     "run",
	Aliases: []string{"runs"},
	Short:   "Manage pipeline runs",
}

var runCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a pipeline run",
	Example: `  # Run the latest version of an uploaded pipeline
  kfp run create --name nightly --pipeline-id <pipeline-id> --param epochs=10

  # Run a compiled pipeline and wait for it to finish
  kfp run create --name adhoc --pipeline-file pipeline.yaml --params-file params.yaml --wait`,
	RunE: runCreate,
}

var runGetCmd = &cobra.Command{
	Use:   "get <run-id>",
	Short: "Show a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var runListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs",
	RunE:  runList,
}

var runWaitCmd = &cobra.Command{
	Use:   "wait <run-id>",
	Short: "Wait for a run to finish",
	Args:  cobra.ExactArgs(1),
	RunE:  runWait,
}

// runActions are the single-call lifecycle commands.
var runActions = []struct {
	use, short, done string
	call             func(*kfp.Client, context.Context, string) error
}{
	{"delete", "Delete a run", "deleted", (*kfp.Client).DeleteRun},
	{"archive", "Archive a run", "archived", (*kfp.Client).ArchiveRun},
	{"unarchive", "Restore an archived run", "unarchived", (*kfp.Client).UnarchiveRun},
	{"terminate", "Terminate a running run", "terminating", (*kfp.Client).TerminateRun},
	{"retry", "Retry a failed run", "retrying", (*kfp.Client).RetryRun},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.AddCommand(runCreateCmd, runGetCmd, runListCmd, runWaitCmd)

	runCreateCmd.Flags().String("name", "", "Run display name (default: timestamp-based)")
	runCreateCmd.Flags().Bool("wait", false, "Wait for the run to finish")
	runCreateCmd.Flags().Duration("poll-interval", 0, "Interval between status checks when waiting")
	addPipelineFlags(runCreateCmd)

	addListFlags(runListCmd)

	runWaitCmd.Flags().Duration("poll-interval", 0, "Interval between status checks")
	runWaitCmd.Flags().Duration("timeout", 0, "Give up after this long (0 waits forever)")

	for _, action := range runActions {
		action := action
		runCmd.AddCommand(&cobra.Command{
			Use:   action.use + " <run-id>",
			Short: action.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, cfg, err := newClient()
				if err != nil {
					return err
				}
				if err := action.call(client, cmd.Context(), args[0]); err != nil {
					return err
				}
				newPrinter(cfg).Success("Run %s %s", args[0], action.done)
				return nil
			},
		})
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = "run-" + time.Now().Format("20060102-150405")
	}
	description, _ := cmd.Flags().GetString("description")
	serviceAccount, _ := cmd.Flags().GetString("service-account")
	wait, _ := cmd.Flags().GetBool("wait")
	interval, _ := cmd.Flags().GetDuration("poll-interval")

	source, err := pipelineSource(cmd)
	if err != nil {
		return err
	}
	run, err := models.NewRun(name, source)
	if err != nil {
		return err
	}
	run.Description = description
	run.ServiceAccount = serviceAccount
	if run.RuntimeConfig, err = runtimeConfig(cmd); err != nil {
		return err
	}

	created, err := client.CreateRun(cmd.Context(), run)
	if err != nil {
		return err
	}

	p := newPrinter(cfg)
	if !wait {
		return printRuns(p, created, created)
	}

	p.Success("Run %s created, waiting for it to finish", created.RunID)
	return waitAndPrint(cmd.Context(), client, p, created.RunID, interval)
}

func runGet(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	run, err := client.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printRuns(newPrinter(cfg), run, run)
}

func runList(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	p := newPrinter(cfg)
	opts, all := listOptions(cmd)
	opts.ExperimentID = cfg.ExperimentID
	if all {
		runs, err := client.ListAllRuns(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return printRuns(p, runs, runs...)
	}

	resp, err := client.ListRuns(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if err := printRuns(p, resp, resp.Runs...); err != nil {
		return err
	}
	printNextPage(p, resp.NextPageToken)
	return nil
}

func runWait(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	interval, _ := cmd.Flags().GetDuration("poll-interval")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return waitAndPrint(ctx, client, newPrinter(cfg), args[0], interval)
}

// waitAndPrint prints the final run and fails unless it succeeded.
func waitAndPrint(ctx context.Context, client *kfp.Client, p *output.Printer, runID string, interval time.Duration) error {
	run, err := client.WaitForRun(ctx, runID, interval)
	if err != nil {
		return err
	}
	if err := printRuns(p, run, run); err != nil {
		return err
	}
	if run.State != models.RuntimeStateSucceeded {
		msg := string(run.State)
		if run.Error != nil && run.Error.Message != "" {
			msg += ": " + run.Error.Message
		}
		return fmt.Errorf("run %s finished as %s", runID, msg)
	}
	return nil
}

func printRuns(p *output.Printer, data interface{}, runs ...*models.Run) error {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.RunID,
			r.DisplayName,
			output.Or(r.ExperimentID),
			output.Time(r.CreatedAt),
			output.Time(r.FinishedAt),
			p.State(string(r.State)),
		})
	}
	if err := p.Print([]string{"ID", "NAME", "EXPERIMENT", "CREATED", "FINISHED", "STATE"}, rows, data); err != nil {
		return fmt.Errorf("failed to print runs: %w", err)
	}
	return nil
}
