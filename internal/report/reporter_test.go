package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/johnchase/qiime2/internal/validate"
)

func TestReporter_Report(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	result := NewResult("run-1", "max")
	result.Record("squid.txt", squid, validate.NewValidationError("tentacle count 9 is odd"))
	result.Record("octopus.txt", squid, &validate.ImplementationError{
		Validator: "validator_sort_last", Plugin: "builtin", Type: squid, Cause: errExample,
	})
	result.Record("ok.txt", squid, nil)

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatText)
		if err := reporter.Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "1 invalid, 1 fault(s) of 3 artifact(s)") {
			t.Errorf("output missing summary:\n%s", output)
		}
		if !strings.Contains(output, "squid.txt [Squid]: tentacle count 9 is odd") {
			t.Errorf("output missing issue details:\n%s", output)
		}
		if !strings.Contains(output, "(kind=implementation, plugin=builtin, validator=validator_sort_last)") {
			t.Errorf("output missing context:\n%s", output)
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatJSON)
		if err := reporter.Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		var decoded Result
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode JSON output: %v", err)
		}

		if len(decoded.Issues) != 2 {
			t.Errorf("decoded issues count = %d, want 2", len(decoded.Issues))
		}
		if decoded.Issues[1].Severity != SeverityCritical {
			t.Errorf("second issue severity = %v, want critical", decoded.Issues[1].Severity)
		}
		if decoded.RunID != "run-1" || decoded.Checked != 3 {
			t.Errorf("unexpected header %+v", decoded)
		}
		if !strings.Contains(buf.String(), `"severity": "error"`) {
			t.Error("severity not rendered by name")
		}
	})

	t.Run("unreadable artifact text", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatText)
		r := NewResult("", "max")
		r.Record("gone.txt", squid, errExample)
		if err := reporter.Report(r); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "1 unreadable of 1 artifact(s)") {
			t.Errorf("output missing summary:\n%s", output)
		}
		if !strings.Contains(output, "Unreadable:") || strings.Contains(output, "Faults:") {
			t.Errorf("read failure reported in wrong section:\n%s", output)
		}
	})

	t.Run("empty result text", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatText)
		r := NewResult("", "min")
		r.Record("a", squid, nil)
		if err := reporter.Report(r); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		if !strings.Contains(buf.String(), "1 artifact(s) valid") {
			t.Error("output missing success message")
		}
	})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "JSON": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}
