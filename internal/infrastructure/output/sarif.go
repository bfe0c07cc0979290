// Package output provides formatters for class list check results.
package output

import (
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/reglet-dev/classlist/internal/domain/checking"
)

// SARIFFormatter formats check results as SARIF 2.1.0 JSON.
// Every error kind becomes a rule; every diagnostic becomes a result
// located at its line and column in the class list.
//
// Usage:
//
//	formatter := output.NewSARIFFormatter(os.Stdout, "classes.txt")
//	if err := formatter.Format(result); err != nil {
//	    log.Fatal(err)
//	}
type SARIFFormatter struct {
	writer        io.Writer
	classListPath string
}

// NewSARIFFormatter creates a new SARIF formatter.
// classListPath is used when the result does not name its class list.
func NewSARIFFormatter(writer io.Writer, classListPath string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:        writer,
		classListPath: classListPath,
	}
}

// Format writes the check result as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(result *checking.CheckResult) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("classlist", "https://github.com/reglet-dev/classlist")
	if result.ToolVersion != "" {
		run.Tool.Driver.Version = &result.ToolVersion
		if v, err := semver.NewVersion(result.ToolVersion); err == nil {
			semantic := v.String()
			run.Tool.Driver.SemanticVersion = &semantic
		}
	}

	path := result.ClassListPath
	if path == "" {
		path = f.classListPath
	}
	mapper := newSARIFMapper(result, path)
	mapper.mapToRun(run)

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}
