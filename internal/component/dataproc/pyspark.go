package dataproc

import "github.com/gkcalat/pipelines/internal/component"

type PySparkBatchArgs struct {
	BatchArgs
	MainPythonFileURI string
	PythonFileURIs    []string
	JarFileURIs       []string
	FileURIs          []string
	ArchiveURIs       []string
	Args              []string
}

func PySparkBatchSpec() *component.Spec {
	return &component.Spec{
		Name:        "dataproc_create_pyspark_batch",
		Description: "Create a Dataproc PySpark batch workload and wait for it to finish.",
		Inputs: append(batchInputs(),
			stringInput("main_python_file_uri", "The HCFS URI of the main Python file to use as the Spark driver."),
			listInput("python_file_uris", "HCFS file URIs of Python files to pass to the PySpark framework."),
			listInput("jar_file_uris", "HCFS URIs of jar files to add to the classpath of the Spark driver and tasks."),
			listInput("file_uris", "HCFS URIs of files to be placed in the working directory of each executor."),
			listInput("archive_uris", "HCFS URIs of archives to be extracted into the working directory of each executor."),
			listInput("args", "The arguments to pass to the driver."),
		),
		Outputs: gcpResourcesOutput(),
		Implementation: implementation("create_pyspark_batch", JobTypePySparkBatch, component.Concat{
			component.Literal(`, "pyspark_batch": {`),
			component.Literal(`"main_python_file_uri": "`), component.InputValue("main_python_file_uri"), component.Literal(`"`),
			component.Literal(`, "python_file_uris": `), component.InputValue("python_file_uris"),
			component.Literal(`, "jar_file_uris": `), component.InputValue("jar_file_uris"),
			component.Literal(`, "file_uris": `), component.InputValue("file_uris"),
			component.Literal(`, "archive_uris": `), component.InputValue("archive_uris"),
			component.Literal(`, "args": `), component.InputValue("args"),
			component.Literal(`}`),
		}),
	}
}

func CreatePySparkBatch(args PySparkBatchArgs) (*component.Invocation, error) {
	inputs := args.BatchArgs.inputs()
	setString(inputs, "main_python_file_uri", args.MainPythonFileURI)
	setList(inputs, "python_file_uris", args.PythonFileURIs)
	setList(inputs, "jar_file_uris", args.JarFileURIs)
	setList(inputs, "file_uris", args.FileURIs)
	setList(inputs, "archive_uris", args.ArchiveURIs)
	setList(inputs, "args", args.Args)

	return PySparkBatchSpec().Resolve(inputs, args.BatchArgs.outputs())
}
