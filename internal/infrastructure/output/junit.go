package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

// JUnitFormatter formats check results as JUnit XML, one test case per
// class list entry.
type JUnitFormatter struct {
	writer io.Writer
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{
		writer: w,
	}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// Format writes the check result as JUnit XML.
func (f *JUnitFormatter) Format(result *checking.CheckResult) error {
	suite := JUnitTestSuite{
		Name:     result.ClassListPath,
		Tests:    result.Summary.TotalEntries,
		Failures: result.Summary.FailedEntries,
		Errors:   result.Summary.ErrorEntries,
		Skipped:  result.Summary.SkippedEntries,
		Time:     result.Duration.Seconds(),
	}

	// A rejected class list has no entries; report the format error itself.
	for _, d := range result.Diagnostics {
		if !d.IsError() {
			continue
		}
		suite.Tests++
		suite.Errors++
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      "class list format",
			ClassName: result.ClassListPath,
			Error:     &JUnitError{Message: d.Message, Content: formatDiagnostics([]checking.Diagnostic{d})},
		})
	}

	for _, entry := range result.Entries {
		c := JUnitTestCase{
			Name:      entry.Name(),
			ClassName: result.ClassListPath,
			Time:      entry.Duration.Seconds(),
		}

		switch entry.Status {
		case values.StatusFail:
			c.Failure = &JUnitFailure{
				Message: entry.Message(),
				Content: formatDiagnostics(entry.Diagnostics),
			}
		case values.StatusError:
			c.Error = &JUnitError{
				Message: entry.Message(),
				Content: formatDiagnostics(entry.Diagnostics),
			}
		case values.StatusSkipped:
			c.Skipped = &JUnitSkipped{
				Message: entry.SkipReason,
			}
		}
		if entry.Status != values.StatusFail && entry.Status != values.StatusError {
			c.SystemOut = formatDiagnostics(entry.Diagnostics)
		}

		suite.TestCases = append(suite.TestCases, c)
	}

	suites := JUnitTestSuites{
		Name:       "classlist check",
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		Time:       result.Duration.Seconds(),
		TestSuites: []JUnitTestSuite{suite},
	}

	_, err := f.writer.Write([]byte(xml.Header))
	if err != nil {
		return err
	}

	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}

	_, err = f.writer.Write([]byte("\n"))
	return err
}

func formatDiagnostics(diags []checking.Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "%s at line %d, column %d: %s\n", d.Severity, d.Line, d.Column, d.Message)
	}
	return b.String()
}
