package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewRuntimeStatus(t *testing.T) {
	status, err := NewRuntimeStatus(RuntimeStatePending)
	if err != nil {
		t.Fatalf("NewRuntimeStatus: %v", err)
	}
	if status.UpdateTime != nil || status.Error != nil {
		t.Errorf("optional fields should stay unset, got %+v", status)
	}

	if _, err := NewRuntimeStatus(""); !errors.Is(err, ErrMalformedArgument) {
		t.Errorf("expected ErrMalformedArgument, got %v", err)
	}
	if _, err := NewRuntimeStatus("DONE"); !errors.Is(err, ErrMalformedValue) {
		t.Errorf("expected ErrMalformedValue, got %v", err)
	}
}

func TestRuntimeStatusAllFields(t *testing.T) {
	updated := time.Date(2013, 10, 20, 19, 20, 30, 0, time.UTC)
	want := RuntimeStatus{
		UpdateTime: &updated,
		State:      RuntimeStateUnspecified,
		Error:      &Status{Code: 3, Message: "0"},
	}

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got RuntimeStatus
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RuntimeStatus mismatch (-want +got):\n%s", diff)
	}
}

func TestNewExperiment(t *testing.T) {
	exp, err := NewExperiment("training")
	if err != nil {
		t.Fatalf("NewExperiment: %v", err)
	}
	if diff := cmp.Diff(&Experiment{DisplayName: "training"}, exp); diff != "" {
		t.Errorf("unexpected experiment (-want +got):\n%s", diff)
	}

	data, _ := json.Marshal(exp)
	if string(data) != `{"display_name":"training"}` {
		t.Errorf("unset fields leaked into JSON: %s", data)
	}

	if _, err := NewExperiment(""); !errors.Is(err, ErrMalformedArgument) {
		t.Errorf("expected ErrMalformedArgument, got %v", err)
	}
}

func TestNewRun(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		source      PipelineSource
		wantErr     error
	}{
		{
			name:        "pipeline version",
			displayName: "nightly",
			source:      FromPipelineVersion("p-1", "v-1"),
		},
		{
			name:        "inline spec",
			displayName: "nightly",
			source:      FromPipelineSpec(map[string]interface{}{"pipelineInfo": map[string]interface{}{"name": "x"}}),
		},
		{
			name:    "missing display name",
			source:  FromPipelineVersion("p-1", ""),
			wantErr: ErrMalformedArgument,
		},
		{
			name:        "missing source",
			displayName: "nightly",
			wantErr:     ErrMalformedArgument,
		},
		{
			name:        "both sources",
			displayName: "nightly",
			source: PipelineSource{
				Reference: &PipelineVersionReference{PipelineID: "p-1"},
				Spec:      map[string]interface{}{"a": 1},
			},
			wantErr: ErrMalformedArgument,
		},
		{
			name:        "reference without pipeline id",
			displayName: "nightly",
			source:      FromPipelineVersion("", "v-1"),
			wantErr:     ErrMalformedArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := NewRun(tt.displayName, tt.source)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRun: %v", err)
			}
			if run.RunID != "" || run.State != "" || run.RuntimeConfig != nil || run.CreatedAt != nil {
				t.Errorf("optional fields should stay unset, got %+v", run)
			}
			if err := run.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestRunAllFieldsRoundTrip(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	finished := created.Add(time.Hour)
	want := Run{
		ExperimentID:             "e-1",
		RunID:                    "r-1",
		DisplayName:              "nightly",
		StorageState:             StorageStateAvailable,
		Description:              "desc",
		PipelineVersionReference: &PipelineVersionReference{PipelineID: "p-1", PipelineVersionID: "v-1"},
		RuntimeConfig: &RuntimeConfig{
			Parameters:   map[string]interface{}{"lr": 0.1, "epochs": float64(3)},
			PipelineRoot: "minio://mlpipeline/v2/artifacts",
		},
		ServiceAccount: "pipeline-runner",
		CreatedAt:      &created,
		ScheduledAt:    &created,
		FinishedAt:     &finished,
		State:          RuntimeStateSucceeded,
		Error:          &Status{Code: 0},
		RunDetails: &RunDetails{
			PipelineContextID: "1",
			TaskDetails:       []*PipelineTaskDetail{{TaskID: "t-1", State: RuntimeStateSucceeded}},
		},
		RecurringRunID: "rr-1",
		StateHistory: []*RuntimeStatus{
			{UpdateTime: &created, State: RuntimeStateRunning},
			{UpdateTime: &finished, State: RuntimeStateSucceeded},
		},
	}

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Run
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Run mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumDecoding(t *testing.T) {
	var run Run
	err := json.Unmarshal([]byte(`{"display_name":"x","state":"EXPLODED"}`), &run)
	if !errors.Is(err, ErrMalformedValue) {
		t.Errorf("expected ErrMalformedValue for unknown state, got %v", err)
	}

	err = json.Unmarshal([]byte(`{"display_name":"x","state":"CANCELING","storage_state":"ARCHIVED"}`), &run)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if run.State != RuntimeStateCanceling || run.StorageState != StorageStateArchived {
		t.Errorf("unexpected enums: %q %q", run.State, run.StorageState)
	}
}

func TestRuntimeStateIsTerminal(t *testing.T) {
	terminal := map[RuntimeState]bool{
		RuntimeStateSucceeded: true,
		RuntimeStateSkipped:   true,
		RuntimeStateFailed:    true,
		RuntimeStateCanceled:  true,
	}
	for _, state := range runtimeStates {
		if got := state.IsTerminal(); got != terminal[state] {
			t.Errorf("%s.IsTerminal() = %v, want %v", state, got, terminal[state])
		}
	}
}

func TestTriggerValidate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	tests := []struct {
		name    string
		trigger Trigger
		wantErr error
	}{
		{name: "cron", trigger: Trigger{CronSchedule: &CronSchedule{Cron: "0 0 * * * *"}}},
		{name: "descriptor", trigger: Trigger{CronSchedule: &CronSchedule{Cron: "@hourly"}}},
		{name: "periodic", trigger: Trigger{PeriodicSchedule: &PeriodicSchedule{IntervalSecond: 3600}}},
		{name: "empty", wantErr: ErrMalformedArgument},
		{
			name: "both",
			trigger: Trigger{
				CronSchedule:     &CronSchedule{Cron: "0 0 * * * *"},
				PeriodicSchedule: &PeriodicSchedule{IntervalSecond: 1},
			},
			wantErr: ErrMalformedArgument,
		},
		{name: "bad cron", trigger: Trigger{CronSchedule: &CronSchedule{Cron: "every day"}}, wantErr: ErrMalformedValue},
		{name: "zero interval", trigger: Trigger{PeriodicSchedule: &PeriodicSchedule{}}, wantErr: ErrMalformedValue},
		{name: "longest interval", trigger: Trigger{PeriodicSchedule: &PeriodicSchedule{IntervalSecond: MaxIntervalSecond}}},
		{
			name:    "interval overflows duration",
			trigger: Trigger{PeriodicSchedule: &PeriodicSchedule{IntervalSecond: MaxIntervalSecond + 1}},
			wantErr: ErrMalformedValue,
		},
		{
			name:    "end before start",
			trigger: Trigger{PeriodicSchedule: &PeriodicSchedule{IntervalSecond: 60, StartTime: &start, EndTime: &before}},
			wantErr: ErrMalformedValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trigger.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRecurringRun(t *testing.T) {
	trigger := &Trigger{PeriodicSchedule: &PeriodicSchedule{IntervalSecond: 600}}
	rr, err := NewRecurringRun("hourly", FromPipelineVersion("p-1", ""), trigger)
	if err != nil {
		t.Fatalf("NewRecurringRun: %v", err)
	}
	if rr.MaxConcurrency != 0 || rr.Mode != "" || rr.NoCatchup {
		t.Errorf("optional fields should stay unset, got %+v", rr)
	}

	data, err := json.Marshal(rr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"display_name":"hourly","pipeline_version_reference":{"pipeline_id":"p-1"},"trigger":{"periodic_schedule":{"interval_second":"600"}}}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\n got %s\nwant %s", data, want)
	}

	rr.MaxConcurrency = 11
	if err := rr.Validate(); !errors.Is(err, ErrMalformedValue) {
		t.Errorf("expected ErrMalformedValue for max_concurrency, got %v", err)
	}

	if _, err := NewRecurringRun("hourly", FromPipelineVersion("p-1", ""), nil); !errors.Is(err, ErrMalformedArgument) {
		t.Errorf("expected ErrMalformedArgument for missing trigger, got %v", err)
	}
}

func TestRunMetricValidate(t *testing.T) {
	tests := []struct {
		name    string
		metric  RunMetric
		wantErr error
	}{
		{name: "valid", metric: RunMetric{Name: "accuracy", NodeID: "node-1", NumberValue: 0.9}},
		{name: "valid with format", metric: RunMetric{Name: "auc-roc", NodeID: "n", Format: MetricFormatPercentage}},
		{name: "missing name", metric: RunMetric{NodeID: "n"}, wantErr: ErrMalformedArgument},
		{name: "missing node", metric: RunMetric{Name: "accuracy"}, wantErr: ErrMalformedArgument},
		{name: "uppercase name", metric: RunMetric{Name: "Accuracy", NodeID: "n"}, wantErr: ErrMalformedValue},
		{name: "trailing dash", metric: RunMetric{Name: "acc-", NodeID: "n"}, wantErr: ErrMalformedValue},
		{name: "bad format", metric: RunMetric{Name: "acc", NodeID: "n", Format: "RATIO"}, wantErr: ErrMalformedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metric.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReportRunMetricsResponseFailed(t *testing.T) {
	resp := ReportRunMetricsResponse{Results: []*ReportRunMetricsResult{
		{MetricName: "a", Status: MetricReportStatusOK},
		{MetricName: "b", Status: MetricReportStatusDuplicateReporting},
	}}
	failed := resp.Failed()
	if len(failed) != 1 || failed[0].MetricName != "b" {
		t.Errorf("unexpected failed results: %+v", failed)
	}
}
