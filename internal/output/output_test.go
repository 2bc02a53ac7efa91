package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type record struct {
	RunID string  `json:"run_id"`
	State string  `json:"state,omitempty"`
	Score float64 `json:"score"`
	Count int64   `json:"count"`
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	p := New(FormatTable, &buf)

	err := p.Print([]string{"ID", "STATE"}, [][]string{{"r-1", "RUNNING"}, {"run-22", "SUCCEEDED"}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := "ID      STATE\n" +
		"--      -----\n" +
		"r-1     RUNNING\n" +
		"run-22  SUCCEEDED\n"
	if buf.String() != want {
		t.Errorf("table =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(FormatJSON, &buf).Print(nil, nil, record{RunID: "r-1", Score: 0.5}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"run_id\": \"r-1\",\n  \"score\": 0.5,\n  \"count\": 0\n}\n"
	if buf.String() != want {
		t.Errorf("json =\n%s", buf.String())
	}
}

func TestYAMLUsesJSONNames(t *testing.T) {
	var buf bytes.Buffer
	err := New(FormatYAML, &buf).Print(nil, nil, []record{{RunID: "r-1", State: "FAILED", Score: 0.25, Count: 1000000}})
	if err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	for _, want := range []string{"run_id: r-1", "state: FAILED", "score: 0.25", "count: 1000000"} {
		if !strings.Contains(got, want) {
			t.Errorf("yaml missing %q:\n%s", want, got)
		}
	}
}

func TestStateWithoutTerminal(t *testing.T) {
	p := New(FormatTable, &bytes.Buffer{})
	if got := p.State("FAILED"); got != "FAILED" {
		t.Errorf("State() = %q, want plain text", got)
	}
}

func TestStateColored(t *testing.T) {
	p := &Printer{format: FormatTable, color: true}
	if got := p.State("SUCCEEDED"); got != "\x1b[32mSUCCEEDED\x1b[0m" {
		t.Errorf("State() = %q", got)
	}
	if got := p.State("PAUSED"); got != "PAUSED" {
		t.Errorf("State() = %q", got)
	}
}

func TestTime(t *testing.T) {
	if Time(nil) != "-" {
		t.Error("nil time should render as -")
	}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	if got := Time(&ts); got != "2024-05-01 12:00:00" {
		t.Errorf("Time() = %s", got)
	}
}
