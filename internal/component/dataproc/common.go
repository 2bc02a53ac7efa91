package dataproc

import (
	"fmt"

	"github.com/gkcalat/pipelines/internal/component"
)

func stringInput(name, description string) component.InputSpec {
	return component.InputSpec{Name: name, Type: component.TypeString, Description: description, Default: ""}
}

func listInput(name, description string) component.InputSpec {
	return component.InputSpec{Name: name, Type: component.TypeJSONArray, Description: description, Default: []string{}}
}

func mapInput(name, description string) component.InputSpec {
	return component.InputSpec{Name: name, Type: component.TypeJSONObject, Description: description, Default: map[string]string{}}
}

func batchInputs() []component.InputSpec {
	return []component.InputSpec{
		{Name: "project", Type: component.TypeString, Description: "Project to run the Dataproc batch workload."},
		{Name: "location", Type: component.TypeString, Description: "Location of the Dataproc batch workload.", Default: DefaultLocation},
		stringInput("batch_id", "The ID to use for the batch. Generated by the launcher when empty."),
		mapInput("labels", "The labels to associate with this batch."),
		stringInput("container_image", "Custom container image for the job runtime environment."),
		stringInput("runtime_config_version", "Version of the batch runtime."),
		mapInput("runtime_config_properties", "Runtime configuration for the workload."),
		stringInput("service_account", "Service account used to execute the workload."),
		listInput("network_tags", "Tags used for network traffic control."),
		stringInput("kms_key", "The Cloud KMS key to use for encryption."),
		stringInput("network_uri", "Network URI to connect the workload to."),
		stringInput("subnetwork_uri", "Subnetwork URI to connect the workload to."),
		stringInput("metastore_service", "Resource name of an existing Dataproc Metastore service."),
		stringInput("spark_history_dataproc_cluster", "The Spark History Server configuration for the workload."),
	}
}

func gcpResourcesOutput() []component.OutputSpec {
	return []component.OutputSpec{{
		Name:        "gcp_resources",
		Type:        component.TypeString,
		Description: "Serialized gcp_resources tracking the Dataproc batch workload.",
	}}
}

// implementation assembles the launcher command line. The payload is the shared batch
// configuration followed by the workload-specific section in workload.
func implementation(module, jobType string, workload component.Concat) component.Implementation {
	payload := component.Concat{
		component.Literal(`{`),
		component.Literal(`"labels": `), component.InputValue("labels"),
		component.Literal(`, "runtime_config": {`),
		component.Literal(`"version": "`), component.InputValue("runtime_config_version"), component.Literal(`"`),
		component.Literal(`, "container_image": "`), component.InputValue("container_image"), component.Literal(`"`),
		component.Literal(`, "properties": `), component.InputValue("runtime_config_properties"),
		component.Literal(`}`),
		component.Literal(`, "environment_config": {`),
		component.Literal(`"execution_config": {`),
		component.Literal(`"service_account": "`), component.InputValue("service_account"), component.Literal(`"`),
		component.Literal(`, "network_tags": `), component.InputValue("network_tags"),
		component.Literal(`, "kms_key": "`), component.InputValue("kms_key"), component.Literal(`"`),
		component.Literal(`, "network_uri": "`), component.InputValue("network_uri"), component.Literal(`"`),
		component.Literal(`, "subnetwork_uri": "`), component.InputValue("subnetwork_uri"), component.Literal(`"`),
		component.Literal(`}`),
		component.Literal(`, "peripherals_config": {`),
		component.Literal(`"metastore_service": "`), component.InputValue("metastore_service"), component.Literal(`"`),
		component.Literal(`, "spark_history_server_config": { `),
		component.Literal(`"dataproc_cluster": "`), component.InputValue("spark_history_dataproc_cluster"), component.Literal(`"`),
		component.Literal(`}`),
		component.Literal(`}`),
		component.Literal(`}`),
	}
	payload = append(payload, workload...)
	payload = append(payload, component.Literal(`}`))

	return component.Implementation{
		Image:   Image,
		Command: []string{"python3", "-u", "-m", fmt.Sprintf(launcherModule, module)},
		Args: []component.Placeholder{
			component.Literal("--type"), component.Literal(jobType),
			component.Literal("--payload"), payload,
			component.Literal("--project"), component.InputValue("project"),
			component.Literal("--location"), component.InputValue("location"),
			component.Literal("--batch_id"), component.InputValue("batch_id"),
			component.Literal("--gcp_resources"), component.OutputPath("gcp_resources"),
		},
	}
}

func (a BatchArgs) inputs() map[string]interface{} {
	inputs := map[string]interface{}{}
	if a.Project != "" {
		inputs["project"] = a.Project
	}
	setString(inputs, "location", a.Location)
	setString(inputs, "batch_id", a.BatchID)
	setMap(inputs, "labels", a.Labels)
	setString(inputs, "container_image", a.ContainerImage)
	setString(inputs, "runtime_config_version", a.RuntimeConfigVersion)
	setMap(inputs, "runtime_config_properties", a.RuntimeConfigProperties)
	setString(inputs, "service_account", a.ServiceAccount)
	setList(inputs, "network_tags", a.NetworkTags)
	setString(inputs, "kms_key", a.KmsKey)
	setString(inputs, "network_uri", a.NetworkURI)
	setString(inputs, "subnetwork_uri", a.SubnetworkURI)
	setString(inputs, "metastore_service", a.MetastoreService)
	setString(inputs, "spark_history_dataproc_cluster", a.SparkHistoryDataprocCluster)
	return inputs
}

func (a BatchArgs) outputs() map[string]string {
	path := a.GCPResources
	if path == "" {
		path = DefaultGCPResourcesPath
	}
	return map[string]string{"gcp_resources": path}
}

// Unset arguments are left out so the component defaults apply.

func setString(inputs map[string]interface{}, name, value string) {
	if value != "" {
		inputs[name] = value
	}
}

func setList(inputs map[string]interface{}, name string, value []string) {
	if value != nil {
		inputs[name] = value
	}
}

func setMap(inputs map[string]interface{}, name string, value map[string]string) {
	if value != nil {
		inputs[name] = value
	}
}
