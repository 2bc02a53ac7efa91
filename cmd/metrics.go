package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gkcalat/pipelines/internal/models"
	"github.com/gkcalat/pipelines/internal/parser"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Report run metrics",
}

var metricsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report metrics of a run",
	Long: `Report metrics of a run, given as flags or loaded from a file.
Metric names must be lowercase, start with a letter and may contain digits and dashes.`,
	Example: `  # Report a single metric
  kfp metrics report --run-id <run-id> --node-id train --metric accuracy=0.92

  # Report metrics from a file
  kfp metrics report --run-id <run-id> --from-file metrics.yaml`,
	RunE: metricsReport,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.AddCommand(metricsReportCmd)

	metricsReportCmd.Flags().String("run-id", "", "Run ID to report metrics for (required)")
	metricsReportCmd.Flags().String("node-id", "", "Node ID the --metric values belong to")
	metricsReportCmd.Flags().StringArray("metric", []string{}, "Metrics in name=value format")
	metricsReportCmd.Flags().String("format", "", "Format of the --metric values (RAW/PERCENTAGE)")
	metricsReportCmd.Flags().String("from-file", "", "Load metrics from file (JSON/YAML)")
	metricsReportCmd.MarkFlagRequired("run-id")
	metricsReportCmd.MarkFlagsOneRequired("metric", "from-file")
}

func metricsReport(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	runID, _ := cmd.Flags().GetString("run-id")
	fromFile, _ := cmd.Flags().GetString("from-file")

	metrics, err := metricsFromFlags(cmd)
	if err != nil {
		return err
	}
	if fromFile != "" {
		fromFileMetrics, err := metricsFromFile(fromFile)
		if err != nil {
			return err
		}
		metrics = append(metrics, fromFileMetrics...)
	}

	resp, err := client.ReportRunMetrics(cmd.Context(), runID, metrics)
	if err != nil {
		return err
	}

	p := newPrinter(cfg)
	rows := make([][]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		rows = append(rows, []string{r.MetricName, r.MetricNodeID, r.Message, p.State(string(r.Status))})
	}
	if err := p.Print([]string{"NAME", "NODE", "MESSAGE", "STATUS"}, rows, resp); err != nil {
		return fmt.Errorf("failed to print results: %w", err)
	}

	if failed := resp.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d metrics were not reported", len(failed), len(resp.Results))
	}
	return nil
}

func metricsFromFlags(cmd *cobra.Command) ([]*models.RunMetric, error) {
	pairs, _ := cmd.Flags().GetStringArray("metric")
	nodeID, _ := cmd.Flags().GetString("node-id")
	format, _ := cmd.Flags().GetString("format")

	if len(pairs) > 0 && nodeID == "" {
		return nil, fmt.Errorf("--node-id is required with --metric")
	}

	metrics := make([]*models.RunMetric, 0, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid metric format: %s (expected name=value)", pair)
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for metric %s: %s", parts[0], parts[1])
		}

		metric, err := models.NewRunMetric(parts[0], nodeID, value)
		if err != nil {
			return nil, err
		}
		if format != "" {
			if metric.Format, err = models.ParseMetricFormat(strings.ToUpper(format)); err != nil {
				return nil, err
			}
		}
		metrics = append(metrics, metric)
	}
	return metrics, nil
}

func metricsFromFile(path string) ([]*models.RunMetric, error) {
	format, err := parser.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	metrics, err := parser.ParseMetrics(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metrics file: %w", err)
	}
	return metrics, nil
}
