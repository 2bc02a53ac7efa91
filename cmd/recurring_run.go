package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gkcalat/pipelines/internal/kfp"
	"github.com/gkcalat/pipelines/internal/models"
	"github.com/gkcalat/pipelines/internal/output"
	"github.com/gkcalat/pipelines/internal/trigger"
)

var recurringRunCmd = &cobra.Command{
	Use:     "recurring-run",
	Aliases: []string{"recurring-runs", "rr"},
	Short:   "Manage recurring runs",
}

var recurringRunCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Schedule a pipeline",
	Example: `  # Every hour, on the hour (six fields, seconds first)
  kfp recurring-run create --name hourly --pipeline-id <pipeline-id> --cron "0 0 * * * *"

  # Every 90 minutes during January
  kfp recurring-run create --name etl --pipeline-id <pipeline-id> --interval 90m \
    --start 2024-01-01T00:00:00Z --end 2024-02-01T00:00:00Z`,
	RunE: recurringRunCreate,
}

var recurringRunGetCmd = &cobra.Command{
	Use:   "get <recurring-run-id>",
	Short: "Show a recurring run",
	Args:  cobra.ExactArgs(1),
	RunE:  recurringRunGet,
}

var recurringRunListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recurring runs",
	RunE:  recurringRunList,
}

var recurringRunScheduleCmd = &cobra.Command{
	Use:   "schedule <recurring-run-id>",
	Short: "Show the next times a recurring run will fire",
	Args:  cobra.ExactArgs(1),
	RunE:  recurringRunSchedule,
}

var recurringRunActions = []struct {
	use, short, done string
	call             func(*kfp.Client, context.Context, string) error
}{
	{"delete", "Delete a recurring run", "deleted", (*kfp.Client).DeleteRecurringRun},
	{"enable", "Enable a recurring run", "enabled", (*kfp.Client).EnableRecurringRun},
	{"disable", "Disable a recurring run", "disabled", (*kfp.Client).DisableRecurringRun},
}

func init() {
	rootCmd.AddCommand(recurringRunCmd)
	recurringRunCmd.AddCommand(recurringRunCreateCmd, recurringRunGetCmd, recurringRunListCmd, recurringRunScheduleCmd)

	flags := recurringRunCreateCmd.Flags()
	flags.String("name", "", "Recurring run display name (required)")
	flags.String("cron", "", "Cron expression with seconds, e.g. \"0 0 * * * *\"")
	flags.String("interval", "", "Interval between runs, e.g. 1h30m")
	flags.String("start", "", "Start of the schedule (RFC3339)")
	flags.String("end", "", "End of the schedule (RFC3339)")
	flags.Int64("max-concurrency", 0, fmt.Sprintf("Maximum concurrent runs (%d-%d)", models.MinMaxConcurrency, models.MaxMaxConcurrency))
	flags.Bool("no-catchup", false, "Do not backfill runs missed while paused")
	flags.Bool("disabled", false, "Create the recurring run disabled")
	recurringRunCreateCmd.MarkFlagRequired("name")
	recurringRunCreateCmd.MarkFlagsMutuallyExclusive("cron", "interval")
	recurringRunCreateCmd.MarkFlagsOneRequired("cron", "interval")
	addPipelineFlags(recurringRunCreateCmd)

	addListFlags(recurringRunListCmd)

	recurringRunScheduleCmd.Flags().Int("count", 5, "Number of fire times to show")

	for _, action := range recurringRunActions {
		action := action
		recurringRunCmd.AddCommand(&cobra.Command{
			Use:   action.use + " <recurring-run-id>",
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
				newPrinter(cfg).Success("Recurring run %s %s", args[0], action.done)
				return nil
			},
		})
	}
}

func recurringRunCreate(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	serviceAccount, _ := cmd.Flags().GetString("service-account")
	maxConcurrency, _ := cmd.Flags().GetInt64("max-concurrency")
	noCatchup, _ := cmd.Flags().GetBool("no-catchup")
	disabled, _ := cmd.Flags().GetBool("disabled")

	var opts trigger.Options
	opts.Cron, _ = cmd.Flags().GetString("cron")
	opts.Interval, _ = cmd.Flags().GetString("interval")
	opts.Start, _ = cmd.Flags().GetString("start")
	opts.End, _ = cmd.Flags().GetString("end")

	t, err := opts.Build()
	if err != nil {
		return err
	}
	source, err := pipelineSource(cmd)
	if err != nil {
		return err
	}

	rr, err := models.NewRecurringRun(name, source, t)
	if err != nil {
		return err
	}
	rr.Description = description
	rr.ServiceAccount = serviceAccount
	rr.MaxConcurrency = maxConcurrency
	rr.NoCatchup = noCatchup
	rr.Mode = models.RecurringRunModeEnable
	if disabled {
		rr.Mode = models.RecurringRunModeDisable
	}
	if rr.RuntimeConfig, err = runtimeConfig(cmd); err != nil {
		return err
	}

	created, err := client.CreateRecurringRun(cmd.Context(), rr)
	if err != nil {
		return err
	}
	return printRecurringRuns(newPrinter(cfg), created, created)
}

func recurringRunGet(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	rr, err := client.GetRecurringRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printRecurringRuns(newPrinter(cfg), rr, rr)
}

func recurringRunList(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	p := newPrinter(cfg)
	opts, all := listOptions(cmd)
	opts.ExperimentID = cfg.ExperimentID
	if all {
		rrs, err := client.ListAllRecurringRuns(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return printRecurringRuns(p, rrs, rrs...)
	}

	resp, err := client.ListRecurringRuns(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if err := printRecurringRuns(p, resp, resp.RecurringRuns...); err != nil {
		return err
	}
	printNextPage(p, resp.NextPageToken)
	return nil
}

func recurringRunSchedule(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt("count")

	rr, err := client.GetRecurringRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if rr.Trigger == nil {
		return fmt.Errorf("recurring run %s has no trigger", args[0])
	}

	times, err := trigger.Next(rr.Trigger, time.Now(), count)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(times))
	for i := range times {
		rows = append(rows, []string{fmt.Sprint(i + 1), output.Time(&times[i])})
	}
	return newPrinter(cfg).Print([]string{"#", "FIRES AT"}, rows, times)
}

func describeTrigger(t *models.Trigger) string {
	switch {
	case t == nil:
		return "-"
	case t.CronSchedule != nil:
		return "cron " + t.CronSchedule.Cron
	case t.PeriodicSchedule != nil:
		seconds := t.PeriodicSchedule.IntervalSecond
		if seconds <= 0 || seconds > models.MaxIntervalSecond {
			return fmt.Sprintf("every %ds", seconds)
		}
		return "every " + (time.Duration(seconds) * time.Second).String()
	}
	return "-"
}

func printRecurringRuns(p *output.Printer, data interface{}, rrs ...*models.RecurringRun) error {
	rows := make([][]string, 0, len(rrs))
	for _, rr := range rrs {
		rows = append(rows, []string{
			rr.RecurringRunID,
			rr.DisplayName,
			describeTrigger(rr.Trigger),
			output.Time(rr.CreatedAt),
			p.State(string(rr.Status)),
		})
	}
	if err := p.Print([]string{"ID", "NAME", "TRIGGER", "CREATED", "STATUS"}, rows, data); err != nil {
		return fmt.Errorf("failed to print recurring runs: %w", err)
	}
	return nil
}
