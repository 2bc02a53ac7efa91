// Package output prints command results as a table, JSON or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type Printer struct {
	format string
	w      io.Writer
	errW   io.Writer
	color  bool
}

// New returns a printer writing data to w and messages to stderr. States are colored only
// when w is a terminal.
func New(format string, w io.Writer) *Printer {
	return &Printer{
		format: format,
		w:      w,
		errW:   os.Stderr,
		color:  isTerminal(w) && !color.NoColor,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Print renders rows as a table, or data as JSON or YAML.
func (p *Printer) Print(headers []string, rows [][]string, data interface{}) error {
	switch p.format {
	case FormatJSON:
		return p.JSON(data)
	case FormatYAML:
		return p.YAML(data)
	default:
		p.Table(headers, rows)
		return nil
	}
}

func (p *Printer) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func (p *Printer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// YAML goes through JSON first so field names match the API.
func (p *Printer) YAML(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// Success writes a message to stderr so data on stdout stays parseable.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintf(p.errW, format+"\n", args...)
}

// State colors a run, recurring run or batch state. Keep it in the last table column, since
// escape codes widen the cell.
func (p *Printer) State(state string) string {
	if !p.color || state == "" {
		return state
	}

	var attr color.Attribute
	switch state {
	case "SUCCEEDED", "ENABLED", "AVAILABLE", "OK":
		attr = color.FgGreen
	case "FAILED", "CANCELED", "CANCELLED", "DISABLED":
		attr = color.FgRed
	case "RUNNING", "PENDING", "CANCELING", "CANCELLING":
		attr = color.FgYellow
	default:
		return state
	}

	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(state)
}

// Time formats an optional timestamp for tables.
func Time(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// Or returns s, or "-" when s is empty.
func Or(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
