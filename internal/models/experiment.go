package models

import "time"

type Experiment struct {
	ExperimentID     string       `json:"experiment_id,omitempty"`
	DisplayName      string       `json:"display_name,omitempty"`
	Description      string       `json:"description,omitempty"`
	CreatedAt        *time.Time   `json:"created_at,omitempty"`
	LastRunCreatedAt *time.Time   `json:"last_run_created_at,omitempty"`
	Namespace        string       `json:"namespace,omitempty"`
	StorageState     StorageState `json:"storage_state,omitempty"`
}

func NewExperiment(displayName string) (*Experiment, error) {
	if displayName == "" {
		return nil, MissingArgument("display_name")
	}
	return &Experiment{DisplayName: displayName}, nil
}

func (e *Experiment) Validate() error {
	if e.DisplayName == "" {
		return MissingArgument("display_name")
	}
	if e.StorageState != "" {
		if _, err := ParseStorageState(string(e.StorageState)); err != nil {
			return err
		}
	}
	return nil
}

type ListExperimentsResponse struct {
	Experiments   []*Experiment `json:"experiments"`
	TotalSize     int           `json:"total_size,omitempty"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}
