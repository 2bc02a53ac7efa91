package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gkcalat/pipelines/internal/kfp"
	"github.com/gkcalat/pipelines/internal/models"
	"github.com/gkcalat/pipelines/internal/output"
	"github.com/gkcalat/pipelines/internal/parser"
)

// addPipelineFlags registers the flags selecting what a run or recurring run executes.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("pipeline-id", "", "ID of an uploaded pipeline")
	cmd.Flags().String("pipeline-version-id", "", "Pipeline version ID (default: latest version)")
	cmd.Flags().String("pipeline-file", "", "Compiled pipeline spec to run inline (JSON/YAML)")
	cmd.Flags().StringArray("param", []string{}, "Pipeline parameters in key=value format")
	cmd.Flags().String("params-file", "", "Load pipeline parameters from file (JSON/YAML)")
	cmd.Flags().String("pipeline-root", "", "Root path for pipeline outputs")
	cmd.Flags().String("service-account", "", "Kubernetes service account to run as")
	cmd.Flags().String("description", "", "Description")
	cmd.MarkFlagsMutuallyExclusive("pipeline-id", "pipeline-file")
	cmd.MarkFlagsOneRequired("pipeline-id", "pipeline-file")
}

func pipelineSource(cmd *cobra.Command) (models.PipelineSource, error) {
	pipelineID, _ := cmd.Flags().GetString("pipeline-id")
	versionID, _ := cmd.Flags().GetString("pipeline-version-id")
	pipelineFile, _ := cmd.Flags().GetString("pipeline-file")

	if pipelineFile == "" {
		return models.FromPipelineVersion(pipelineID, versionID), nil
	}

	file, err := os.Open(pipelineFile)
	if err != nil {
		return models.PipelineSource{}, fmt.Errorf("failed to open file %s: %w", pipelineFile, err)
	}
	defer file.Close()

	spec, err := parser.ParsePipelineSpec(file)
	if err != nil {
		return models.PipelineSource{}, err
	}
	return models.FromPipelineSpec(spec), nil
}

// runtimeConfig merges --params-file and --param; --param wins on conflicts.
func runtimeConfig(cmd *cobra.Command) (*models.RuntimeConfig, error) {
	params, _ := cmd.Flags().GetStringArray("param")
	paramsFile, _ := cmd.Flags().GetString("params-file")
	pipelineRoot, _ := cmd.Flags().GetString("pipeline-root")

	merged := map[string]interface{}{}
	if paramsFile != "" {
		format, err := parser.FormatFromPath(paramsFile)
		if err != nil {
			return nil, err
		}
		file, err := os.Open(paramsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", paramsFile, err)
		}
		defer file.Close()

		fromFile, err := parser.ParseParams(file, format)
		if err != nil {
			return nil, fmt.Errorf("failed to parse parameters file: %w", err)
		}
		for k, v := range fromFile {
			merged[k] = v
		}
	}

	fromFlags, err := parser.ParseKeyValues(params)
	if err != nil {
		return nil, err
	}
	for k, v := range fromFlags {
		merged[k] = v
	}

	if len(merged) == 0 && pipelineRoot == "" {
		return nil, nil
	}
	rc := &models.RuntimeConfig{PipelineRoot: pipelineRoot}
	if len(merged) > 0 {
		rc.Parameters = merged
	}
	return rc, nil
}

func listOptions(cmd *cobra.Command) (kfp.ListOptions, bool) {
	pageSize, _ := cmd.Flags().GetInt("page-size")
	pageToken, _ := cmd.Flags().GetString("page-token")
	sortBy, _ := cmd.Flags().GetString("sort-by")
	filter, _ := cmd.Flags().GetString("filter")
	all, _ := cmd.Flags().GetBool("all")
	return kfp.ListOptions{PageSize: pageSize, PageToken: pageToken, SortBy: sortBy, Filter: filter}, all
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page-size", 20, "Number of results per page")
	cmd.Flags().String("page-token", "", "Token of the page to fetch")
	cmd.Flags().String("sort-by", "", `Sort order, e.g. "created_at desc"`)
	cmd.Flags().String("filter", "", "Serialized filter (JSON)")
	cmd.Flags().Bool("all", false, "Fetch every page")
}

// printNextPage tells table readers how to fetch the next page.
func printNextPage(p *output.Printer, token string) {
	if token != "" {
		p.Success("Next page token: %s", token)
	}
}
