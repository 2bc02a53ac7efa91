package launcher

import (
	"encoding/json"
	"fmt"

	"google.golang.org/api/dataproc/v1"

	dataproccomponent "github.com/gkcalat/pipelines/internal/component/dataproc"
	"github.com/gkcalat/pipelines/internal/models"
)

type payload struct {
	Labels        map[string]string `json:"labels"`
	RuntimeConfig struct {
		Version        string            `json:"version"`
		ContainerImage string            `json:"container_image"`
		Properties     map[string]string `json:"properties"`
	} `json:"runtime_config"`
	EnvironmentConfig struct {
		ExecutionConfig struct {
			ServiceAccount string   `json:"service_account"`
			NetworkTags    []string `json:"network_tags"`
			KmsKey         string   `json:"kms_key"`
			NetworkURI     string   `json:"network_uri"`
			SubnetworkURI  string   `json:"subnetwork_uri"`
		} `json:"execution_config"`
		PeripheralsConfig struct {
			MetastoreService         string `json:"metastore_service"`
			SparkHistoryServerConfig struct {
				DataprocCluster string `json:"dataproc_cluster"`
			} `json:"spark_history_server_config"`
		} `json:"peripherals_config"`
	} `json:"environment_config"`
	SparkBatch   *sparkBatch   `json:"spark_batch"`
	PysparkBatch *pysparkBatch `json:"pyspark_batch"`
}

type sparkBatch struct {
	MainJarFileURI string   `json:"main_jar_file_uri"`
	MainClass      string   `json:"main_class"`
	JarFileURIs    []string `json:"jar_file_uris"`
	FileURIs       []string `json:"file_uris"`
	ArchiveURIs    []string `json:"archive_uris"`
	Args           []string `json:"args"`
}

type pysparkBatch struct {
	MainPythonFileURI string   `json:"main_python_file_uri"`
	PythonFileURIs    []string `json:"python_file_uris"`
	JarFileURIs       []string `json:"jar_file_uris"`
	FileURIs          []string `json:"file_uris"`
	ArchiveURIs       []string `json:"archive_uris"`
	Args              []string `json:"args"`
}

// DecodePayload converts a component payload into a Dataproc batch request.
func DecodePayload(jobType, data string) (*dataproc.Batch, error) {
	var p payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("%w: payload is not valid JSON: %v", models.ErrMalformedValue, err)
	}

	ec := p.EnvironmentConfig.ExecutionConfig
	pc := p.EnvironmentConfig.PeripheralsConfig
	batch := &dataproc.Batch{
		Labels: p.Labels,
		RuntimeConfig: &dataproc.RuntimeConfig{
			Version:        p.RuntimeConfig.Version,
			ContainerImage: p.RuntimeConfig.ContainerImage,
			Properties:     p.RuntimeConfig.Properties,
		},
		EnvironmentConfig: &dataproc.EnvironmentConfig{
			ExecutionConfig: &dataproc.ExecutionConfig{
				ServiceAccount: ec.ServiceAccount,
				NetworkTags:    ec.NetworkTags,
				KmsKey:         ec.KmsKey,
				NetworkUri:     ec.NetworkURI,
				SubnetworkUri:  ec.SubnetworkURI,
			},
			PeripheralsConfig: &dataproc.PeripheralsConfig{
				MetastoreService: pc.MetastoreService,
			},
		},
	}
	if cluster := pc.SparkHistoryServerConfig.DataprocCluster; cluster != "" {
		batch.EnvironmentConfig.PeripheralsConfig.SparkHistoryServerConfig = &dataproc.SparkHistoryServerConfig{
			DataprocCluster: cluster,
		}
	}

	switch jobType {
	case dataproccomponent.JobTypeSparkBatch:
		if p.SparkBatch == nil {
			return nil, models.MissingArgument("spark_batch")
		}
		s := p.SparkBatch
		batch.SparkBatch = &dataproc.SparkBatch{
			MainJarFileUri: s.MainJarFileURI,
			MainClass:      s.MainClass,
			JarFileUris:    s.JarFileURIs,
			FileUris:       s.FileURIs,
			ArchiveUris:    s.ArchiveURIs,
			Args:           s.Args,
		}
	case dataproccomponent.JobTypePySparkBatch:
		if p.PysparkBatch == nil {
			return nil, models.MissingArgument("pyspark_batch")
		}
		s := p.PysparkBatch
		batch.PysparkBatch = &dataproc.PySparkBatch{
			MainPythonFileUri: s.MainPythonFileURI,
			PythonFileUris:    s.PythonFileURIs,
			JarFileUris:       s.JarFileURIs,
			FileUris:          s.FileURIs,
			ArchiveUris:       s.ArchiveURIs,
			Args:              s.Args,
		}
	default:
		return nil, models.InvalidValue("job type", jobType)
	}

	return batch, nil
}
