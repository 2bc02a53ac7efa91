package models

type ParametersFile struct {
	Parameters map[string]interface{} `json:"parameters" yaml:"parameters"`
}
