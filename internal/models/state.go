package models

import (
	"encoding/json"
	"time"
)

type RuntimeState string

const (
	RuntimeStateUnspecified RuntimeState = "RUNTIME_STATE_UNSPECIFIED"
	RuntimeStatePending     RuntimeState = "PENDING"
	RuntimeStateRunning     RuntimeState = "RUNNING"
	RuntimeStateSucceeded   RuntimeState = "SUCCEEDED"
	RuntimeStateSkipped     RuntimeState = "SKIPPED"
	RuntimeStateFailed      RuntimeState = "FAILED"
	RuntimeStateCanceling   RuntimeState = "CANCELING"
	RuntimeStateCanceled    RuntimeState = "CANCELED"
	RuntimeStatePaused      RuntimeState = "PAUSED"
)

var runtimeStates = []RuntimeState{
	RuntimeStateUnspecified,
	RuntimeStatePending,
	RuntimeStateRunning,
	RuntimeStateSucceeded,
	RuntimeStateSkipped,
	RuntimeStateFailed,
	RuntimeStateCanceling,
	RuntimeStateCanceled,
	RuntimeStatePaused,
}

func ParseRuntimeState(s string) (RuntimeState, error) {
	return parseEnum("runtime state", s, runtimeStates)
}

// IsTerminal reports whether a run in this state will not change state again.
func (s RuntimeState) IsTerminal() bool {
	switch s {
	case RuntimeStateSucceeded, RuntimeStateSkipped, RuntimeStateFailed, RuntimeStateCanceled:
		return true
	}
	return false
}

func (s *RuntimeState) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseRuntimeState)
}

type StorageState string

const (
	StorageStateUnspecified StorageState = "STORAGE_STATE_UNSPECIFIED"
	StorageStateAvailable   StorageState = "AVAILABLE"
	StorageStateArchived    StorageState = "ARCHIVED"
)

var storageStates = []StorageState{StorageStateUnspecified, StorageStateAvailable, StorageStateArchived}

func ParseStorageState(s string) (StorageState, error) {
	return parseEnum("storage state", s, storageStates)
}

func (s *StorageState) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseStorageState)
}

// Status mirrors google.rpc.Status, used both for error bodies and for the error field of
// runs and tasks.
type Status struct {
	Code    int               `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Details []json.RawMessage `json:"details,omitempty"`
}

type RuntimeStatus struct {
	UpdateTime *time.Time   `json:"update_time,omitempty"`
	State      RuntimeState `json:"state,omitempty"`
	Error      *Status      `json:"error,omitempty"`
}

func NewRuntimeStatus(state RuntimeState) (*RuntimeStatus, error) {
	if state == "" {
		return nil, MissingArgument("state")
	}
	status := &RuntimeStatus{State: state}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *RuntimeStatus) Validate() error {
	if s.State == "" {
		return nil
	}
	if _, err := ParseRuntimeState(string(s.State)); err != nil {
		return err
	}
	return nil
}

func parseEnum[T ~string](kind, s string, valid []T) (T, error) {
	for _, v := range valid {
		if string(v) == s {
			return v, nil
		}
	}
	return "", InvalidValue(kind, s)
}

func unmarshalEnum[T ~string](b []byte, dst *T, parse func(string) (T, error)) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return malformedValue("enum must be a string: %s", string(b))
	}
	if s == "" {
		*dst = ""
		return nil
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
