package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var healthzCmd = &cobra.Command{
	Use:   "healthz",
	Short: "Check that the pipelines API is reachable",
	RunE:  healthz,
}

func init() {
	rootCmd.AddCommand(healthzCmd)
}

func healthz(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	h, err := client.Healthz(cmd.Context())
	if err != nil {
		return err
	}

	rows := [][]string{{cfg.Host, h.TagName, h.CommitSHA, strconv.FormatBool(h.MultiUser)}}
	if err := newPrinter(cfg).Print([]string{"HOST", "VERSION", "COMMIT", "MULTI-USER"}, rows, h); err != nil {
		return fmt.Errorf("failed to print health: %w", err)
	}
	return nil
}
