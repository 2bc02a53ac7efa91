package models

import (
	"math"
	"regexp"
)

// metricNamePattern is the name format accepted by the metrics reporting endpoint.
var metricNamePattern = regexp.MustCompile(`^[a-z]([-a-z0-9]{0,62}[a-z0-9])?$`)

type MetricFormat string

const (
	MetricFormatUnspecified MetricFormat = "UNSPECIFIED"
	MetricFormatRaw         MetricFormat = "RAW"
	MetricFormatPercentage  MetricFormat = "PERCENTAGE"
)

var metricFormats = []MetricFormat{MetricFormatUnspecified, MetricFormatRaw, MetricFormatPercentage}

func ParseMetricFormat(s string) (MetricFormat, error) {
	return parseEnum("metric format", s, metricFormats)
}

func (f *MetricFormat) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, f, ParseMetricFormat)
}

// UnmarshalYAML applies the same enum check to metrics files.
func (f *MetricFormat) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		*f = ""
		return nil
	}
	v, err := ParseMetricFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

type MetricReportStatus string

const (
	MetricReportStatusUnspecified        MetricReportStatus = "UNSPECIFIED"
	MetricReportStatusOK                 MetricReportStatus = "OK"
	MetricReportStatusInvalidArgument    MetricReportStatus = "INVALID_ARGUMENT"
	MetricReportStatusDuplicateReporting MetricReportStatus = "DUPLICATE_REPORTING"
	MetricReportStatusInternalError      MetricReportStatus = "INTERNAL_ERROR"
)

var metricReportStatuses = []MetricReportStatus{
	MetricReportStatusUnspecified,
	MetricReportStatusOK,
	MetricReportStatusInvalidArgument,
	MetricReportStatusDuplicateReporting,
	MetricReportStatusInternalError,
}

func ParseMetricReportStatus(s string) (MetricReportStatus, error) {
	return parseEnum("metric report status", s, metricReportStatuses)
}

func (s *MetricReportStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseMetricReportStatus)
}

type RunMetric struct {
	Name        string       `json:"name" yaml:"name"`
	NodeID      string       `json:"node_id" yaml:"node_id"`
	NumberValue float64      `json:"number_value" yaml:"number_value"`
	Format      MetricFormat `json:"format,omitempty" yaml:"format,omitempty"`
}

func NewRunMetric(name, nodeID string, value float64) (*RunMetric, error) {
	metric := &RunMetric{Name: name, NodeID: nodeID, NumberValue: value}
	if err := metric.Validate(); err != nil {
		return nil, err
	}
	return metric, nil
}

func (m *RunMetric) Validate() error {
	if m.Name == "" {
		return MissingArgument("name")
	}
	if m.NodeID == "" {
		return MissingArgument("node_id")
	}
	if !metricNamePattern.MatchString(m.Name) {
		return InvalidValue("metric name", m.Name)
	}
	if math.IsNaN(m.NumberValue) || math.IsInf(m.NumberValue, 0) {
		return InvalidValue("number_value", m.NumberValue)
	}
	if m.Format != "" {
		if _, err := ParseMetricFormat(string(m.Format)); err != nil {
			return err
		}
	}
	return nil
}

type ReportRunMetricsRequest struct {
	RunID   string       `json:"run_id"`
	Metrics []*RunMetric `json:"metrics"`
}

func (r *ReportRunMetricsRequest) Validate() error {
	if r.RunID == "" {
		return MissingArgument("run_id")
	}
	if len(r.Metrics) == 0 {
		return MissingArgument("metrics")
	}
	for _, m := range r.Metrics {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type ReportRunMetricsResult struct {
	MetricName   string             `json:"metric_name,omitempty"`
	MetricNodeID string             `json:"metric_node_id,omitempty"`
	Status       MetricReportStatus `json:"status,omitempty"`
	Message      string             `json:"message,omitempty"`
}

type ReportRunMetricsResponse struct {
	Results []*ReportRunMetricsResult `json:"results"`
}

// Failed returns the results whose status is not OK.
func (r *ReportRunMetricsResponse) Failed() []*ReportRunMetricsResult {
	var failed []*ReportRunMetricsResult
	for _, result := range r.Results {
		if result.Status != MetricReportStatusOK {
			failed = append(failed, result)
		}
	}
	return failed
}

type MetricsFile struct {
	Metrics []*RunMetric `json:"metrics" yaml:"metrics"`
}
