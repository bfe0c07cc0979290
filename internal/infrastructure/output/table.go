package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// TableFormatter formats check results as a human-readable table.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
	// Verbose also lists entries that passed.
	Verbose bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

func (f *TableFormatter) rule() string {
	return f.colorize(strings.Repeat("─", 80), colorGray)
}

// Format writes the check result as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(result *checking.CheckResult) error {
	// Print header
	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintf(f.writer, "Class list: %s\n", f.colorize(result.ClassListPath, colorBold))
	fmt.Fprintf(f.writer, "Checked: %s\n", result.StartTime.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Duration: %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintln(f.writer)

	// Class list level problems stop the check before any entry
	for _, d := range result.Diagnostics {
		f.formatDiagnostic(d, "")
	}
	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(f.writer)
	}

	if len(result.Entries) == 0 {
		fmt.Fprintln(f.writer, "No entries checked.")
		fmt.Fprintln(f.writer)
		f.formatSummary(result.Summary)
		return nil
	}

	fmt.Fprintln(f.writer, f.colorize("Entries:", colorBold))
	fmt.Fprintln(f.writer, f.rule())

	for _, entry := range result.Entries {
		f.formatEntry(entry)
	}

	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintln(f.writer)

	f.formatSummary(result.Summary)

	return nil
}

// formatEntry formats a single entry. Passing entries without diagnostics
// are listed only in verbose mode.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatEntry(entry checking.EntryResult) {
	if entry.Status == values.StatusPass && len(entry.Diagnostics) == 0 && !f.Verbose {
		return
	}

	symbol, color := f.getStatusInfo(entry.Status)
	line := 0
	if entry.Entry != nil {
		line = entry.Entry.Line
	}
	fmt.Fprintf(f.writer, "%s %s %s\n",
		f.colorize(symbol, color),
		f.colorize(fmt.Sprintf("%4d", line), colorGray),
		f.colorize(entry.Name(), color))

	if entry.Resolved != nil && f.Verbose {
		fmt.Fprintf(f.writer, "       Location: %s\n", f.colorize(entry.Resolved.Location, colorCyan))
	}
	if entry.SkipReason != "" {
		fmt.Fprintf(f.writer, "       Skip Reason: %s\n", entry.SkipReason)
	}
	for _, d := range entry.Diagnostics {
		f.formatDiagnostic(d, "       ")
	}
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatDiagnostic(d checking.Diagnostic, indent string) {
	label, color := "Error", colorRed
	if !d.IsError() {
		label, color = "Warning", colorYellow
	}

	pos := ""
	if d.Line > 0 {
		pos = fmt.Sprintf(" %d:%d", d.Line, d.Column)
	}
	fmt.Fprintf(f.writer, "%s%s%s: %s\n", indent, f.colorize(label, color), pos, d.Message)
}

// formatSummary formats the summary statistics.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatSummary(summary checking.ResultSummary) {
	fmt.Fprintln(f.writer, f.colorize("Summary:", colorBold))
	fmt.Fprintln(f.writer, f.rule())

	fmt.Fprintf(f.writer, "Entries:      %d total\n", summary.TotalEntries)
	fmt.Fprintf(f.writer, "  %s Passed:   %d\n", f.colorize("✓", colorGreen), summary.PassedEntries)
	fmt.Fprintf(f.writer, "  %s Failed:   %d\n", f.colorize("✗", colorRed), summary.FailedEntries)
	fmt.Fprintf(f.writer, "  %s Errors:   %d\n", f.colorize("⚠", colorYellow), summary.ErrorEntries)
	fmt.Fprintf(f.writer, "  %s Skipped:  %d\n", f.colorize("⊘", colorGray), summary.SkippedEntries)
	fmt.Fprintln(f.writer)

	fmt.Fprintf(f.writer, "Diagnostics:  %d errors, %d warnings\n", summary.Errors, summary.Warnings)

	fmt.Fprintln(f.writer, f.rule())
}

// getStatusInfo returns a symbol and color for the given status.
func (f *TableFormatter) getStatusInfo(status values.Status) (string, string) {
	switch status {
	case values.StatusPass:
		return "✓", colorGreen
	case values.StatusFail:
		return "✗", colorRed
	case values.StatusError:
		return "⚠", colorYellow
	case values.StatusSkipped:
		return "⊘", colorGray
	default:
		return "?", colorReset
	}
}
