package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gkcalat/pipelines/internal/component"
	"github.com/gkcalat/pipelines/internal/component/dataproc"
	"github.com/gkcalat/pipelines/internal/config"
)

var componentCmd = &cobra.Command{
	Use:     "component",
	Aliases: []string{"components"},
	Short:   "Describe and render Dataproc batch components",
}

var componentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available components",
	RunE:  componentList,
}

var componentDescribeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Print a component definition as component.yaml",
	Args:  cobra.ExactArgs(1),
	RunE:  componentDescribe,
}

var componentRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the launcher command line of a component",
}

var renderSparkBatchCmd = &cobra.Command{
	Use:   "spark-batch",
	Short: "Render a Dataproc Spark batch",
	Example: `  kfp component render spark-batch --project p1 --location us-west1 \
    --main-class org.example.Main --jar-file-uri gs://bucket/job.jar`,
	RunE: renderSparkBatch,
}

var renderPySparkBatchCmd = &cobra.Command{
	Use:   "pyspark-batch",
	Short: "Render a Dataproc PySpark batch",
	RunE:  renderPySparkBatch,
}

func init() {
	rootCmd.AddCommand(componentCmd)
	componentCmd.AddCommand(componentListCmd, componentDescribeCmd, componentRenderCmd)
	componentRenderCmd.AddCommand(renderSparkBatchCmd, renderPySparkBatchCmd)

	for _, c := range []*cobra.Command{renderSparkBatchCmd, renderPySparkBatchCmd} {
		addBatchFlags(c)
	}

	renderSparkBatchCmd.Flags().String("main-jar-file-uri", "", "HCFS URI of the jar containing the main class")
	renderSparkBatchCmd.Flags().String("main-class", "", "Driver main class")

	renderPySparkBatchCmd.Flags().String("main-python-file-uri", "", "HCFS URI of the main Python file (required)")
	renderPySparkBatchCmd.Flags().StringArray("python-file-uri", []string{}, "HCFS URIs of Python files passed to PySpark")
	renderPySparkBatchCmd.MarkFlagRequired("main-python-file-uri")
}

func addBatchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("project", "", "Project to run the batch in (required)")
	flags.String("location", dataproc.DefaultLocation, "Region of the batch")
	flags.String("batch-id", "", "Batch ID (default: generated by the launcher)")
	flags.StringToString("label", map[string]string{}, "Batch labels in key=value format")
	flags.String("container-image", "", "Custom runtime container image")
	flags.String("runtime-version", "", "Batch runtime version")
	flags.StringToString("property", map[string]string{}, "Runtime properties in key=value format")
	flags.String("service-account", "", "Service account that runs the workload")
	flags.StringArray("network-tag", []string{}, "Network tags")
	flags.String("kms-key", "", "Cloud KMS key for encryption")
	flags.String("network-uri", "", "Network URI")
	flags.String("subnetwork-uri", "", "Subnetwork URI")
	flags.String("metastore-service", "", "Dataproc Metastore service")
	flags.String("spark-history-cluster", "", "Dataproc cluster hosting the Spark History Server")
	flags.StringArray("jar-file-uri", []string{}, "Jar files added to the classpath")
	flags.StringArray("file-uri", []string{}, "Files placed in the working directory of each executor")
	flags.StringArray("archive-uri", []string{}, "Archives extracted in the working directory of each executor")
	flags.StringArray("arg", []string{}, "Arguments passed to the driver")
	flags.String("gcp-resources", dataproc.DefaultGCPResourcesPath, "Output path of gcp_resources")
	cmd.MarkFlagRequired("project")
}

func batchArgs(cmd *cobra.Command) dataproc.BatchArgs {
	var a dataproc.BatchArgs
	flags := cmd.Flags()
	a.Project, _ = flags.GetString("project")
	a.Location, _ = flags.GetString("location")
	a.BatchID, _ = flags.GetString("batch-id")
	a.Labels, _ = flags.GetStringToString("label")
	a.ContainerImage, _ = flags.GetString("container-image")
	a.RuntimeConfigVersion, _ = flags.GetString("runtime-version")
	a.RuntimeConfigProperties, _ = flags.GetStringToString("property")
	a.ServiceAccount, _ = flags.GetString("service-account")
	a.NetworkTags, _ = flags.GetStringArray("network-tag")
	a.KmsKey, _ = flags.GetString("kms-key")
	a.NetworkURI, _ = flags.GetString("network-uri")
	a.SubnetworkURI, _ = flags.GetString("subnetwork-uri")
	a.MetastoreService, _ = flags.GetString("metastore-service")
	a.SparkHistoryDataprocCluster, _ = flags.GetString("spark-history-cluster")
	a.GCPResources, _ = flags.GetString("gcp-resources")
	return a
}

func componentList(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	rows := [][]string{}
	var specs []*component.Spec
	for _, name := range dataproc.Names() {
		spec, err := dataproc.Lookup(name)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
		rows = append(rows, []string{name, spec.Name, spec.Description})
	}
	return newPrinter(cfg).Print([]string{"NAME", "COMPONENT", "DESCRIPTION"}, rows, specs)
}

func componentDescribe(cmd *cobra.Command, args []string) error {
	spec, err := dataproc.Lookup(args[0])
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(spec); err != nil {
		return fmt.Errorf("failed to encode component: %w", err)
	}
	return enc.Close()
}

func renderSparkBatch(cmd *cobra.Command, args []string) error {
	a := dataproc.SparkBatchArgs{BatchArgs: batchArgs(cmd)}
	a.MainJarFileURI, _ = cmd.Flags().GetString("main-jar-file-uri")
	a.MainClass, _ = cmd.Flags().GetString("main-class")
	a.JarFileURIs, _ = cmd.Flags().GetStringArray("jar-file-uri")
	a.FileURIs, _ = cmd.Flags().GetStringArray("file-uri")
	a.ArchiveURIs, _ = cmd.Flags().GetStringArray("archive-uri")
	a.Args, _ = cmd.Flags().GetStringArray("arg")

	inv, err := dataproc.CreateSparkBatch(a)
	if err != nil {
		return err
	}
	return printInvocation(inv)
}

func renderPySparkBatch(cmd *cobra.Command, args []string) error {
	a := dataproc.PySparkBatchArgs{BatchArgs: batchArgs(cmd)}
	a.MainPythonFileURI, _ = cmd.Flags().GetString("main-python-file-uri")
	a.PythonFileURIs, _ = cmd.Flags().GetStringArray("python-file-uri")
	a.JarFileURIs, _ = cmd.Flags().GetStringArray("jar-file-uri")
	a.FileURIs, _ = cmd.Flags().GetStringArray("file-uri")
	a.ArchiveURIs, _ = cmd.Flags().GetStringArray("archive-uri")
	a.Args, _ = cmd.Flags().GetStringArray("arg")

	inv, err := dataproc.CreatePySparkBatch(a)
	if err != nil {
		return err
	}
	return printInvocation(inv)
}

// printInvocation prints a shell-quoted command line, or the invocation as JSON or YAML.
func printInvocation(inv *component.Invocation) error {
	cfg := config.New()
	p := newPrinter(cfg)
	if cfg.Output != "table" {
		return p.Print(nil, nil, inv)
	}

	argv := inv.Argv()
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = shellQuote(arg)
	}
	fmt.Println(strings.Join(quoted, " "))
	return nil
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return !(r == '-' || r == '_' || r == '.' || r == '/' || r == ':' || r == '=' || r == '@' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
