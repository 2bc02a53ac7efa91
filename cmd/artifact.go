package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gkcalat/pipelines/internal/artifact"
	"github.com/gkcalat/pipelines/internal/config"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Read and move pipeline artifacts",
}

var artifactReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read an artifact produced by a run node",
	Long: `Read an artifact produced by a run node through the pipelines API.
The server returns a gzipped tarball; use --extract to unpack it.`,
	RunE: artifactRead,
}

var artifactDownloadCmd = &cobra.Command{
	Use:   "download <uri>",
	Short: "Download an artifact from object storage",
	Example: `  kfp artifact download minio://mlpipeline/artifacts/run-1/model.tgz --out model.tgz
  kfp artifact download gs://bucket/path/metrics.json`,
	Args: cobra.ExactArgs(1),
	RunE: artifactDownload,
}

var artifactUploadCmd = &cobra.Command{
	Use:   "upload <file> <uri>",
	Short: "Upload a file to object storage",
	Args:  cobra.ExactArgs(2),
	RunE:  artifactUpload,
}

func init() {
	rootCmd.AddCommand(artifactCmd)
	artifactCmd.AddCommand(artifactReadCmd, artifactDownloadCmd, artifactUploadCmd)

	artifactReadCmd.Flags().String("run-id", "", "Run ID (required)")
	artifactReadCmd.Flags().String("node-id", "", "Node ID (required)")
	artifactReadCmd.Flags().String("name", "", "Artifact name (required)")
	artifactReadCmd.Flags().String("out", "", "Write the tarball to this file instead of stdout")
	artifactReadCmd.Flags().String("extract", "", "Unpack the tarball into this directory")
	artifactReadCmd.MarkFlagRequired("run-id")
	artifactReadCmd.MarkFlagRequired("node-id")
	artifactReadCmd.MarkFlagRequired("name")
	artifactReadCmd.MarkFlagsMutuallyExclusive("out", "extract")

	artifactDownloadCmd.Flags().String("out", "", "Destination file (default: stdout)")

	// Object store settings
	flags := artifactCmd.PersistentFlags()
	flags.String("minio-endpoint", "", "MinIO endpoint host:port (overrides KFP_MINIO_ENDPOINT)")
	flags.Bool("minio-secure", false, "Use TLS for MinIO (overrides KFP_MINIO_SECURE)")
	viper.BindPFlag("minio_endpoint", flags.Lookup("minio-endpoint"))
	viper.BindPFlag("minio_secure", flags.Lookup("minio-secure"))
}

func artifactRead(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	runID, _ := cmd.Flags().GetString("run-id")
	nodeID, _ := cmd.Flags().GetString("node-id")
	name, _ := cmd.Flags().GetString("name")
	out, _ := cmd.Flags().GetString("out")
	extract, _ := cmd.Flags().GetString("extract")

	data, err := client.ReadArtifact(cmd.Context(), runID, nodeID, name)
	if err != nil {
		return err
	}

	p := newPrinter(cfg)
	switch {
	case extract != "":
		files, err := artifact.Unpack(data, afero.NewOsFs(), extract)
		if err != nil {
			return fmt.Errorf("failed to extract artifact: %w", err)
		}
		p.Success("Extracted %d files to %s", len(files), extract)
		for _, f := range files {
			p.Success("  %s", f)
		}
	case out != "":
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		p.Success("Wrote %d bytes to %s", len(data), out)
	default:
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func artifactDownload(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	out, _ := cmd.Flags().GetString("out")

	store := artifact.NewStore(cfg)
	if out == "" {
		return store.Download(cmd.Context(), args[0], os.Stdout)
	}
	if err := downloadFile(cmd.Context(), store, afero.NewOsFs(), args[0], out); err != nil {
		return err
	}
	newPrinter(cfg).Success("Downloaded %s to %s", args[0], out)
	return nil
}

// downloadFile writes the artifact at uri to path, removing the file if the download fails.
func downloadFile(ctx context.Context, store *artifact.Store, fs afero.Fs, uri, path string) (err error) {
	file, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
		if err != nil {
			fs.Remove(path)
		}
	}()

	return store.Download(ctx, uri, file)
}

func artifactUpload(cmd *cobra.Command, args []string) error {
	cfg := config.New()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	store := artifact.NewStore(cfg)
	if err := store.Upload(cmd.Context(), file, args[1]); err != nil {
		return err
	}
	newPrinter(cfg).Success("Uploaded %s to %s", args[0], args[1])
	return nil
}
