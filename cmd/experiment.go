package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gkcalat/pipelines/internal/models"
	"github.com/gkcalat/pipelines/internal/output"
)

var experimentCmd = &cobra.Command{
	Use:     "experiment",
	Aliases: []string{"experiments", "exp"},
	Short:   "Manage experiments",
}

var experimentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an experiment",
	RunE:  experimentCreate,
}

var experimentGetCmd = &cobra.Command{
	Use:   "get <experiment-id>",
	Short: "Show an experiment",
	Args:  cobra.ExactArgs(1),
	RunE:  experimentGet,
}

var experimentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List experiments",
	RunE:  experimentList,
}

var experimentDeleteCmd = &cobra.Command{
	Use:   "delete <experiment-id>",
	Short: "Delete an experiment",
	Args:  cobra.ExactArgs(1),
	RunE:  experimentDelete,
}

var experimentArchiveCmd = &cobra.Command{
	Use:   "archive <experiment-id>",
	Short: "Archive an experiment and its runs",
	Args:  cobra.ExactArgs(1),
	RunE:  experimentArchive,
}

var experimentUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <experiment-id>",
	Short: "Restore an archived experiment",
	Args:  cobra.ExactArgs(1),
	RunE:  experimentUnarchive,
}

func init() {
	rootCmd.AddCommand(experimentCmd)
	experimentCmd.AddCommand(experimentCreateCmd, experimentGetCmd, experimentListCmd,
		experimentDeleteCmd, experimentArchiveCmd, experimentUnarchiveCmd)

	experimentCreateCmd.Flags().String("name", "", "Experiment display name (required)")
	experimentCreateCmd.Flags().String("description", "", "Experiment description")
	experimentCreateCmd.MarkFlagRequired("name")

	addListFlags(experimentListCmd)
}

func experimentCreate(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")

	experiment, err := models.NewExperiment(name)
	if err != nil {
		return err
	}
	experiment.Description = description

	created, err := client.CreateExperiment(cmd.Context(), experiment)
	if err != nil {
		return err
	}
	return printExperiments(newPrinter(cfg), created, created)
}

func experimentGet(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	experiment, err := client.GetExperiment(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printExperiments(newPrinter(cfg), experiment, experiment)
}

func experimentList(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	p := newPrinter(cfg)
	opts, all := listOptions(cmd)
	if all {
		experiments, err := client.ListAllExperiments(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return printExperiments(p, experiments, experiments...)
	}

	resp, err := client.ListExperiments(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if err := printExperiments(p, resp, resp.Experiments...); err != nil {
		return err
	}
	printNextPage(p, resp.NextPageToken)
	return nil
}

func experimentDelete(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}
	if err := client.DeleteExperiment(cmd.Context(), args[0]); err != nil {
		return err
	}
	newPrinter(cfg).Success("Experiment %s deleted", args[0])
	return nil
}

func experimentArchive(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}
	if err := client.ArchiveExperiment(cmd.Context(), args[0]); err != nil {
		return err
	}
	newPrinter(cfg).Success("Experiment %s archived", args[0])
	return nil
}

func experimentUnarchive(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}
	if err := client.UnarchiveExperiment(cmd.Context(), args[0]); err != nil {
		return err
	}
	newPrinter(cfg).Success("Experiment %s unarchived", args[0])
	return nil
}

func printExperiments(p *output.Printer, data interface{}, experiments ...*models.Experiment) error {
	rows := make([][]string, 0, len(experiments))
	for _, e := range experiments {
		rows = append(rows, []string{
			e.ExperimentID,
			e.DisplayName,
			output.Or(e.Namespace),
			output.Time(e.CreatedAt),
			p.State(string(e.StorageState)),
		})
	}

	if err := p.Print([]string{"ID", "NAME", "NAMESPACE", "CREATED", "STORAGE"}, rows, data); err != nil {
		return fmt.Errorf("failed to print experiments: %w", err)
	}
	return nil
}
