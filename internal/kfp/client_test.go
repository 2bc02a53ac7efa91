package kfp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gkcalat/pipelines/internal/config"
	"github.com/gkcalat/pipelines/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Auth   string
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request), mutate ...func(*config.Config)) (*Client, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
			Auth:   r.Header.Get("Authorization"),
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Host:         srv.URL,
		Auth:         config.AuthNone,
		Output:       "table",
		LogLevel:     "info",
		Timeout:      5 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}
	for _, m := range mutate {
		m(cfg)
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, &requests
}

func respond(body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

func TestCreateExperiment(t *testing.T) {
	client, requests := newTestClient(t,
		respond(`{"experiment_id":"e-1","display_name":"training","namespace":"team-a","storage_state":"AVAILABLE"}`),
		func(c *config.Config) { c.Namespace = "team-a" })

	exp, _ := models.NewExperiment("training")
	got, err := client.CreateExperiment(context.Background(), exp)
	if err != nil {
		t.Fatalf("CreateExperiment: %v", err)
	}

	want := &models.Experiment{
		ExperimentID: "e-1",
		DisplayName:  "training",
		Namespace:    "team-a",
		StorageState: models.StorageStateAvailable,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("experiment mismatch (-want +got):\n%s", diff)
	}

	req := (*requests)[0]
	if req.Method != http.MethodPost || req.Path != "/apis/v2beta1/experiments" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	if req.Body != `{"display_name":"training","namespace":"team-a"}` {
		t.Errorf("unexpected body %s", req.Body)
	}
}

func TestCreateExperimentRejectsEmptyName(t *testing.T) {
	client, requests := newTestClient(t, respond(`{}`))

	_, err := client.CreateExperiment(context.Background(), &models.Experiment{})
	if !errors.Is(err, models.ErrMalformedArgument) {
		t.Fatalf("expected ErrMalformedArgument, got %v", err)
	}
	if len(*requests) != 0 {
		t.Errorf("no request should be sent, got %d", len(*requests))
	}
}

func TestMissingIDs(t *testing.T) {
	client, requests := newTestClient(t, respond(`{}`))
	ctx := context.Background()

	calls := map[string]func() error{
		"GetExperiment":       func() error { _, err := client.GetExperiment(ctx, ""); return err },
		"DeleteExperiment":    func() error { return client.DeleteExperiment(ctx, "") },
		"ArchiveExperiment":   func() error { return client.ArchiveExperiment(ctx, "") },
		"GetRun":              func() error { _, err := client.GetRun(ctx, ""); return err },
		"TerminateRun":        func() error { return client.TerminateRun(ctx, "") },
		"RetryRun":            func() error { return client.RetryRun(ctx, "") },
		"ReadArtifact":        func() error { _, err := client.ReadArtifact(ctx, "r", "", "a"); return err },
		"GetRecurringRun":     func() error { _, err := client.GetRecurringRun(ctx, ""); return err },
		"EnableRecurringRun":  func() error { return client.EnableRecurringRun(ctx, "") },
		"DisableRecurringRun": func() error { return client.DisableRecurringRun(ctx, "") },
		"ReportRunMetrics":    func() error { _, err := client.ReportRunMetrics(ctx, "", nil); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, models.ErrMalformedArgument) {
				t.Errorf("expected ErrMalformedArgument, got %v", err)
			}
		})
	}
	if len(*requests) != 0 {
		t.Errorf("no request should be sent, got %d", len(*requests))
	}
}

func TestCreateRunUsesDefaultExperiment(t *testing.T) {
	client, requests := newTestClient(t,
		respond(`{"run_id":"r-1","display_name":"nightly","state":"PENDING"}`),
		func(c *config.Config) { c.ExperimentID = "e-default" })

	run, err := models.NewRun("nightly", models.FromPipelineVersion("p-1", "v-1"))
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	run.RuntimeConfig = &models.RuntimeConfig{Parameters: map[string]interface{}{"lr": 0.1}}

	got, err := client.CreateRun(context.Background(), run)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if got.RunID != "r-1" || got.State != models.RuntimeStatePending {
		t.Errorf("unexpected run %+v", got)
	}

	var sent map[string]interface{}
	if err := json.Unmarshal([]byte((*requests)[0].Body), &sent); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	want := map[string]interface{}{
		"experiment_id": "e-default",
		"display_name":  "nightly",
		"pipeline_version_reference": map[string]interface{}{
			"pipeline_id":         "p-1",
			"pipeline_version_id": "v-1",
		},
		"runtime_config": map[string]interface{}{
			"parameters": map[string]interface{}{"lr": 0.1},
		},
	}
	if diff := cmp.Diff(want, sent); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
	if run.ExperimentID != "" {
		t.Errorf("caller's run should not be modified")
	}
}

func TestRunActions(t *testing.T) {
	client, requests := newTestClient(t, respond(`{}`))
	ctx := context.Background()

	for _, call := range []func(context.Context, string) error{
		client.ArchiveRun, client.UnarchiveRun, client.TerminateRun, client.RetryRun, client.DeleteRun,
	} {
		if err := call(ctx, "r/1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var got []string
	for _, req := range *requests {
		got = append(got, req.Method+" "+req.Path)
	}
	want := []string{
		"POST /apis/v2beta1/runs/r/1:archive",
		"POST /apis/v2beta1/runs/r/1:unarchive",
		"POST /apis/v2beta1/runs/r/1/terminate",
		"POST /apis/v2beta1/runs/r/1/retry",
		"DELETE /apis/v2beta1/runs/r/1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestListAllRunsFollowsPageToken(t *testing.T) {
	var calls int32
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			io.WriteString(w, `{"runs":[{"run_id":"r-1"},{"run_id":"r-2"}],"total_size":3,"next_page_token":"next"}`)
		default:
			io.WriteString(w, `{"runs":[{"run_id":"r-3"}],"total_size":3}`)
		}
	}, func(c *config.Config) { c.Namespace = "team-a" })

	runs, err := client.ListAllRuns(context.Background(), ListOptions{PageSize: 2, ExperimentID: "e-1"})
	if err != nil {
		t.Fatalf("ListAllRuns: %v", err)
	}

	var ids []string
	for _, run := range runs {
		ids = append(ids, run.RunID)
	}
	if diff := cmp.Diff([]string{"r-1", "r-2", "r-3"}, ids); diff != "" {
		t.Errorf("run ids mismatch (-want +got):\n%s", diff)
	}

	if got := (*requests)[0].Query; got != "experiment_id=e-1&namespace=team-a&page_size=2" {
		t.Errorf("first query = %s", got)
	}
	if got := (*requests)[1].Query; got != "experiment_id=e-1&namespace=team-a&page_size=2&page_token=next" {
		t.Errorf("second query = %s", got)
	}
}

func TestRecurringRunLifecycle(t *testing.T) {
	client, requests := newTestClient(t, respond(`{"recurring_run_id":"rr-1","status":"ENABLED","max_concurrency":"2"}`))
	ctx := context.Background()

	trigger := &models.Trigger{PeriodicSchedule: &models.PeriodicSchedule{IntervalSecond: 3600}}
	rr, err := models.NewRecurringRun("hourly", models.FromPipelineVersion("p-1", ""), trigger)
	if err != nil {
		t.Fatalf("NewRecurringRun: %v", err)
	}

	created, err := client.CreateRecurringRun(ctx, rr)
	if err != nil {
		t.Fatalf("CreateRecurringRun: %v", err)
	}
	if created.RecurringRunID != "rr-1" || created.Status != models.RecurringRunStatusEnabled || created.MaxConcurrency != 2 {
		t.Errorf("unexpected recurring run %+v", created)
	}
	if err := client.DisableRecurringRun(ctx, "rr-1"); err != nil {
		t.Fatal(err)
	}
	if err := client.EnableRecurringRun(ctx, "rr-1"); err != nil {
		t.Fatal(err)
	}

	if got := (*requests)[1].Path; got != "/apis/v2beta1/recurringruns/rr-1:disable" {
		t.Errorf("disable path = %s", got)
	}
	if got := (*requests)[2].Path; got != "/apis/v2beta1/recurringruns/rr-1:enable" {
		t.Errorf("enable path = %s", got)
	}
}

func TestReportRunMetrics(t *testing.T) {
	client, requests := newTestClient(t, respond(`{"results":[
		{"metric_name":"accuracy","metric_node_id":"n1","status":"OK"},
		{"metric_name":"loss","metric_node_id":"n1","status":"DUPLICATE_REPORTING","message":"already reported"}]}`))

	metrics := []*models.RunMetric{
		{Name: "accuracy", NodeID: "n1", NumberValue: 0.9, Format: models.MetricFormatPercentage},
		{Name: "loss", NodeID: "n1", NumberValue: 0.25},
	}
	resp, err := client.ReportRunMetrics(context.Background(), "r-1", metrics)
	if err != nil {
		t.Fatalf("ReportRunMetrics: %v", err)
	}

	failed := resp.Failed()
	if len(failed) != 1 || failed[0].MetricName != "loss" {
		t.Errorf("unexpected failed results %+v", failed)
	}

	req := (*requests)[0]
	if req.Path != "/apis/v2beta1/runs/r-1:reportMetrics" {
		t.Errorf("path = %s", req.Path)
	}
	wantBody := `{"run_id":"r-1","metrics":[{"name":"accuracy","node_id":"n1","number_value":0.9,"format":"PERCENTAGE"},{"name":"loss","node_id":"n1","number_value":0.25}]}`
	if req.Body != wantBody {
		t.Errorf("body = %s", req.Body)
	}
}

func TestReportRunMetricsRejectsBadName(t *testing.T) {
	client, requests := newTestClient(t, respond(`{}`))

	_, err := client.ReportRunMetrics(context.Background(), "r-1", []*models.RunMetric{{Name: "Bad_Name", NodeID: "n1"}})
	if !errors.Is(err, models.ErrMalformedValue) {
		t.Fatalf("expected ErrMalformedValue, got %v", err)
	}
	if len(*requests) != 0 {
		t.Errorf("no request should be sent")
	}
}

func TestReadArtifact(t *testing.T) {
	client, requests := newTestClient(t, respond(`{"data":"aGVsbG8="}`))

	data, err := client.ReadArtifact(context.Background(), "r-1", "node 1", "model")
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("data = %q", data)
	}
	if got := (*requests)[0].Path; got != "/apis/v2beta1/runs/r-1/nodes/node 1/artifacts/model:read" {
		t.Errorf("path = %s", got)
	}
}

func TestAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"code":5,"message":"run r-404 not found"}`)
	})

	_, err := client.GetRun(context.Background(), "r-404")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Status.Code != 5 {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound should be true")
	}
	if got := apiErr.Error(); got != "[GET /apis/v2beta1/runs/r-404][404] run r-404 not found" {
		t.Errorf("Error() = %s", got)
	}
}

func TestAPIErrorLegacyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid filter","code":3}`)
	})

	_, err := client.ListExperiments(context.Background(), ListOptions{Filter: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status == nil || apiErr.Status.Message != "invalid filter" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestTokenAuth(t *testing.T) {
	client, requests := newTestClient(t, respond(`{"commit_sha":"abc","tag_name":"2.0.0","multi_user":true}`),
		func(c *config.Config) {
			c.Auth = config.AuthToken
			c.Token = "secret"
		})

	healthz, err := client.Healthz(context.Background())
	if err != nil {
		t.Fatalf("Healthz: %v", err)
	}
	if !healthz.MultiUser || healthz.TagName != "2.0.0" {
		t.Errorf("unexpected healthz %+v", healthz)
	}
	if got := (*requests)[0].Auth; got != "Bearer secret" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestClientMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	cfg := &config.Config{
		Host: srv.URL, Auth: config.AuthNone, Output: "json", LogLevel: "info", PollInterval: time.Second,
	}
	reg := prometheus.NewRegistry()
	client, err := NewClient(cfg, WithRegisterer(reg))
	if err != nil {
		t.Fatal(err)
	}
	// A second client on the same registry reuses the collectors.
	if _, err := NewClient(cfg, WithRegisterer(reg)); err != nil {
		t.Fatalf("second client: %v", err)
	}

	if _, err := client.Healthz(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n, err := testutil.GatherAndCount(reg, "kfp_client_requests_total"); err != nil || n != 1 {
		t.Errorf("kfp_client_requests_total series = %d, err = %v", n, err)
	}
}

func TestWaitForRun(t *testing.T) {
	states := []string{"PENDING", "RUNNING", "SUCCEEDED"}
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		i := int(atomic.AddInt32(&calls, 1)) - 1
		if i >= len(states) {
			i = len(states) - 1
		}
		io.WriteString(w, `{"run_id":"r-1","state":"`+states[i]+`"}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	run, err := client.WaitForRun(ctx, "r-1", 0)
	if err != nil {
		t.Fatalf("WaitForRun: %v", err)
	}
	if run.State != models.RuntimeStateSucceeded {
		t.Errorf("state = %s", run.State)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("polled %d times, want 3", got)
	}
}

func TestWaitForRunStopsOnError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.WaitForRun(context.Background(), "r-1", time.Millisecond)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected APIError 500, got %v", err)
	}
}

func TestEqualsFilter(t *testing.T) {
	got := EqualsFilter("name", "nightly")
	want := `{"predicates":[{"key":"name","operation":"EQUALS","string_value":"nightly"}]}`
	if got != want {
		t.Errorf("EqualsFilter() = %s", got)
	}
}
