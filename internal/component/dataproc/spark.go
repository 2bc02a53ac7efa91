// Package dataproc provides the Dataproc Serverless batch components. Each component maps its
// arguments to the launcher command line; the launcher performs the API calls.
package dataproc

import (
	"github.com/gkcalat/pipelines/internal/component"
)

const (
	Image = "gcr.io/ml-pipeline/google-cloud-pipeline-components:2.0.0b1"

	JobTypeSparkBatch   = "DataprocSparkBatch"
	JobTypePySparkBatch = "DataprocPySparkBatch"

	DefaultLocation = "us-central1"

	// DefaultGCPResourcesPath is used when no output path is given.
	DefaultGCPResourcesPath = "/tmp/outputs/gcp_resources/data"
)

const launcherModule = "google_cloud_pipeline_components.container.v1.dataproc.%s.launcher"

// BatchArgs holds the inputs shared by every batch workload type.
type BatchArgs struct {
	Project                     string
	Location                    string
	BatchID                     string
	Labels                      map[string]string
	ContainerImage              string
	RuntimeConfigVersion        string
	RuntimeConfigProperties     map[string]string
	ServiceAccount              string
	NetworkTags                 []string
	KmsKey                      string
	NetworkURI                  string
	SubnetworkURI               string
	MetastoreService            string
	SparkHistoryDataprocCluster string
	// GCPResources is the output path of the serialized gcp_resources.
	GCPResources string
}

type SparkBatchArgs struct {
	BatchArgs
	MainJarFileURI string
	MainClass      string
	JarFileURIs    []string
	FileURIs       []string
	ArchiveURIs    []string
	Args           []string
}

func SparkBatchSpec() *component.Spec {
	return &component.Spec{
		Name:        "dataproc_create_spark_batch",
		Description: "Create a Dataproc Spark batch workload and wait for it to finish.",
		Inputs: append(batchInputs(),
			stringInput("main_jar_file_uri", "The HCFS URI of the jar file that contains the main class."),
			stringInput("main_class", "The name of the driver main class."),
			listInput("jar_file_uris", "HCFS URIs of jar files to add to the classpath of the Spark driver and tasks."),
			listInput("file_uris", "HCFS URIs of files to be placed in the working directory of each executor."),
			listInput("archive_uris", "HCFS URIs of archives to be extracted into the working directory of each executor."),
			listInput("args", "The arguments to pass to the driver."),
		),
		Outputs: gcpResourcesOutput(),
		Implementation: implementation("create_spark_batch", JobTypeSparkBatch, component.Concat{
			component.Literal(`, "spark_batch": {`),
			component.Literal(`"main_jar_file_uri": "`), component.InputValue("main_jar_file_uri"), component.Literal(`"`),
			component.Literal(`, "main_class": "`), component.InputValue("main_class"), component.Literal(`"`),
			component.Literal(`, "jar_file_uris": `), component.InputValue("jar_file_uris"),
			component.Literal(`, "file_uris": `), component.InputValue("file_uris"),
			component.Literal(`, "archive_uris": `), component.InputValue("archive_uris"),
			component.Literal(`, "args": `), component.InputValue("args"),
			component.Literal(`}`),
		}),
	}
}

// CreateSparkBatch resolves the Spark batch component for args.
func CreateSparkBatch(args SparkBatchArgs) (*component.Invocation, error) {
	inputs := args.BatchArgs.inputs()
	setString(inputs, "main_jar_file_uri", args.MainJarFileURI)
	setString(inputs, "main_class", args.MainClass)
	setList(inputs, "jar_file_uris", args.JarFileURIs)
	setList(inputs, "file_uris", args.FileURIs)
	setList(inputs, "archive_uris", args.ArchiveURIs)
	setList(inputs, "args", args.Args)

	return SparkBatchSpec().Resolve(inputs, args.BatchArgs.outputs())
}
