package output

import (
	"fmt"
	"io"
	"time"

	"github.com/reglet-dev/classlist/internal/domain/checking"
)

// RunSummary is one line of check history.
type RunSummary struct {
	StartTime   time.Time              `json:"start_time" yaml:"start_time"`
	RunID       string                 `json:"run_id" yaml:"run_id"`
	ToolVersion string                 `json:"classlist_version,omitempty" yaml:"classlist_version,omitempty"`
	Summary     checking.ResultSummary `json:"summary" yaml:"summary"`
	Duration    time.Duration          `json:"duration_ms" yaml:"duration_ms"`
	Failed      bool                   `json:"failed" yaml:"failed"`
}

// HistoryFormats lists the formats FormatHistory accepts.
func HistoryFormats() []string {
	return []string{"table", "json", "yaml"}
}

// FormatHistory writes a list of past check runs, in the given order.
func FormatHistory(w io.Writer, format string, classListPath string, runs []*checking.CheckResult) error {
	summaries := make([]RunSummary, len(runs))
	for i, r := range runs {
		summaries[i] = RunSummary{
			StartTime:   r.StartTime,
			RunID:       r.RunID.String(),
			ToolVersion: r.ToolVersion,
			Summary:     r.Summary,
			Duration:    r.Duration,
			Failed:      r.HasFailures(),
		}
	}

	switch format {
	case "table":
		return formatHistoryTable(w, classListPath, summaries)
	case "json":
		return writeJSON(w, summaries, true)
	case "yaml":
		return writeYAML(w, summaries)
	default:
		return fmt.Errorf("unknown format: %s (supported: %v)", format, HistoryFormats())
	}
}

//nolint:errcheck // Best-effort terminal output
func formatHistoryTable(w io.Writer, classListPath string, runs []RunSummary) error {
	fmt.Fprintf(w, "History: %s\n", classListPath)
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %6s  %6s  %6s  %7s  %s\n",
		"RUN ID", "STARTED", "PASSED", "FAILED", "ERRORS", "SKIPPED", "RESULT")
	for _, r := range runs {
		outcome := "ok"
		if r.Failed {
			outcome = "failed"
		}
		fmt.Fprintf(w, "%-36s  %-20s  %6d  %6d  %6d  %7d  %s\n",
			r.RunID,
			r.StartTime.Local().Format("2006-01-02 15:04:05"),
			r.Summary.PassedEntries,
			r.Summary.FailedEntries,
			r.Summary.ErrorEntries,
			r.Summary.SkippedEntries,
			outcome)
	}
	return nil
}
