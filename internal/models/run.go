package models

import "time"

type PipelineVersionReference struct {
	PipelineID        string `json:"pipeline_id,omitempty"`
	PipelineVersionID string `json:"pipeline_version_id,omitempty"`
}

type RuntimeConfig struct {
	Parameters   map[string]interface{} `json:"parameters,omitempty"`
	PipelineRoot string                 `json:"pipeline_root,omitempty"`
}

// PipelineSource selects what a run or recurring run executes: an uploaded pipeline version
// or an inline compiled pipeline spec.
type PipelineSource struct {
	Reference *PipelineVersionReference
	Spec      map[string]interface{}
}

func FromPipelineVersion(pipelineID, pipelineVersionID string) PipelineSource {
	return PipelineSource{Reference: &PipelineVersionReference{
		PipelineID:        pipelineID,
		PipelineVersionID: pipelineVersionID,
	}}
}

func FromPipelineSpec(spec map[string]interface{}) PipelineSource {
	return PipelineSource{Spec: spec}
}

func (s PipelineSource) Validate() error {
	switch {
	case s.Reference != nil && s.Spec != nil:
		return malformedArgument("pipeline_version_reference and pipeline_spec are mutually exclusive")
	case s.Reference != nil:
		if s.Reference.PipelineID == "" {
			return MissingArgument("pipeline_version_reference.pipeline_id")
		}
	case s.Spec != nil:
		if len(s.Spec) == 0 {
			return MissingArgument("pipeline_spec")
		}
	default:
		return MissingArgument("pipeline_version_reference or pipeline_spec")
	}
	return nil
}

type PipelineTaskDetail struct {
	RunID        string           `json:"run_id,omitempty"`
	TaskID       string           `json:"task_id,omitempty"`
	DisplayName  string           `json:"display_name,omitempty"`
	CreateTime   *time.Time       `json:"create_time,omitempty"`
	StartTime    *time.Time       `json:"start_time,omitempty"`
	EndTime      *time.Time       `json:"end_time,omitempty"`
	State        RuntimeState     `json:"state,omitempty"`
	ExecutionID  string           `json:"execution_id,omitempty"`
	Error        *Status          `json:"error,omitempty"`
	ParentTaskID string           `json:"parent_task_id,omitempty"`
	StateHistory []*RuntimeStatus `json:"state_history,omitempty"`
}

type RunDetails struct {
	PipelineContextID    string                `json:"pipeline_context_id,omitempty"`
	PipelineRunContextID string                `json:"pipeline_run_context_id,omitempty"`
	TaskDetails          []*PipelineTaskDetail `json:"task_details,omitempty"`
}

type Run struct {
	ExperimentID             string                    `json:"experiment_id,omitempty"`
	RunID                    string                    `json:"run_id,omitempty"`
	DisplayName              string                    `json:"display_name,omitempty"`
	StorageState             StorageState              `json:"storage_state,omitempty"`
	Description              string                    `json:"description,omitempty"`
	PipelineVersionReference *PipelineVersionReference `json:"pipeline_version_reference,omitempty"`
	PipelineSpec             map[string]interface{}    `json:"pipeline_spec,omitempty"`
	RuntimeConfig            *RuntimeConfig            `json:"runtime_config,omitempty"`
	ServiceAccount           string                    `json:"service_account,omitempty"`
	CreatedAt                *time.Time                `json:"created_at,omitempty"`
	ScheduledAt              *time.Time                `json:"scheduled_at,omitempty"`
	FinishedAt               *time.Time                `json:"finished_at,omitempty"`
	State                    RuntimeState              `json:"state,omitempty"`
	Error                    *Status                   `json:"error,omitempty"`
	RunDetails               *RunDetails               `json:"run_details,omitempty"`
	RecurringRunID           string                    `json:"recurring_run_id,omitempty"`
	StateHistory             []*RuntimeStatus          `json:"state_history,omitempty"`
}

func NewRun(displayName string, source PipelineSource) (*Run, error) {
	if displayName == "" {
		return nil, MissingArgument("display_name")
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	return &Run{
		DisplayName:              displayName,
		PipelineVersionReference: source.Reference,
		PipelineSpec:             source.Spec,
	}, nil
}

// Source returns the pipeline the run executes.
func (r *Run) Source() PipelineSource {
	return PipelineSource{Reference: r.PipelineVersionReference, Spec: r.PipelineSpec}
}

func (r *Run) Validate() error {
	if r.DisplayName == "" {
		return MissingArgument("display_name")
	}
	if err := r.Source().Validate(); err != nil {
		return err
	}
	if r.StorageState != "" {
		if _, err := ParseStorageState(string(r.StorageState)); err != nil {
			return err
		}
	}
	if r.State != "" {
		if _, err := ParseRuntimeState(string(r.State)); err != nil {
			return err
		}
	}
	for _, status := range r.StateHistory {
		if err := status.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type ListRunsResponse struct {
	Runs          []*Run `json:"runs"`
	TotalSize     int    `json:"total_size,omitempty"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

type ReadArtifactResponse struct {
	Data []byte `json:"data,omitempty"`
}
