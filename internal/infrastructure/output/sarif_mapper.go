package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/entities"
)

// Rule ids for diagnostics that do not come from a format error.
const (
	ruleResolutionFailure = "ResolutionFailure"
	ruleClassListWarning  = "ClassListWarning"
)

type sarifMapper struct {
	result        *checking.CheckResult
	classListPath string
	cwd           string
}

func newSARIFMapper(result *checking.CheckResult, classListPath string) *sarifMapper {
	cwd, _ := os.Getwd() // Best effort, ignore error
	return &sarifMapper{
		result:        result,
		classListPath: classListPath,
		cwd:           cwd,
	}
}

// mapToRun populates the SARIF run with rules, results, artifacts, and invocations.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addArtifacts(run)
	m.addInvocation(run)
	m.addProperties(run)
}

// addRules declares one rule per error kind.
func (m *sarifMapper) addRules(run *sarif.Run) {
	for _, kind := range entities.AllErrorKinds() {
		m.addRule(run, kind.String(), string(kind.Category()), "error")
	}
	m.addRule(run, ruleResolutionFailure, "resolution", "error")
	m.addRule(run, ruleClassListWarning, "warning", "warning")
}

func (m *sarifMapper) addRule(run *sarif.Run, id, category, level string) {
	rule := sarif.NewReportingDescriptor().WithID(id)
	rule.WithName(id)

	desc := describeRule(id, category)
	rule.WithShortDescription(&sarif.MultiformatMessageString{
		Text: &desc,
	})
	rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
		Level: level,
	})

	props := sarif.NewPropertyBag()
	props.Add("category", category)
	rule.WithProperties(props)

	run.Tool.Driver.AddRule(rule)
}

// describeRule splits a CamelCase id into words.
func describeRule(id, category string) string {
	var b strings.Builder
	for i, r := range id {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String() + " (" + category + ")"
}

// addResults converts every diagnostic to a SARIF result.
func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, d := range m.result.Diagnostics {
		run.AddResult(m.mapDiagnostic(d, nil))
	}
	for i := range m.result.Entries {
		entry := &m.result.Entries[i]
		for _, d := range entry.Diagnostics {
			run.AddResult(m.mapDiagnostic(d, entry))
		}
	}
}

func (m *sarifMapper) mapDiagnostic(d checking.Diagnostic, entry *checking.EntryResult) *sarif.Result {
	result := sarif.NewRuleResult(ruleID(d))

	result.Level = string(d.Severity)
	result.Kind = "fail"
	result.Message = sarif.NewTextMessage(d.Message)

	if loc := m.location(d); loc != nil {
		result.Locations = []*sarif.Location{loc}
	}

	props := sarif.NewPropertyBag()
	if d.Category != "" {
		props.Add("category", string(d.Category))
	}
	if d.ClassName != "" {
		props.Add("class", d.ClassName)
	}
	if entry != nil {
		props.Add("status", string(entry.Status))
		if entry.Resolved != nil {
			props.Add("classFile", entry.Resolved.Location)
		}
	}
	result.WithProperties(props)

	return result
}

func ruleID(d checking.Diagnostic) string {
	switch {
	case d.Kind != "":
		return d.Kind
	case d.IsError():
		return ruleResolutionFailure
	default:
		return ruleClassListWarning
	}
}

func (m *sarifMapper) location(d checking.Diagnostic) *sarif.Location {
	if m.classListPath == "" {
		return nil
	}

	pLoc := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.classListPath)))

	if d.Line > 0 {
		region := sarif.NewRegion().WithStartLine(d.Line)
		if d.Column > 0 {
			region.WithStartColumn(d.Column)
		}
		pLoc.WithRegion(region)
	}

	return sarif.NewLocation().WithPhysicalLocation(pLoc)
}

// normalizeURI converts a file path to a SARIF-compliant URI.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path) // Fallback to original
	}

	// Try to make relative to CWD
	if m.cwd != "" {
		if rel, err := filepath.Rel(m.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	return "file://" + filepath.ToSlash(abs)
}

// addArtifacts registers the class list itself.
func (m *sarifMapper) addArtifacts(run *sarif.Run) {
	if m.classListPath == "" {
		return
	}

	artifact := sarif.NewArtifact().
		WithLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.classListPath)))
	if info, err := os.Stat(m.classListPath); err == nil && !info.IsDir() {
		artifact.WithLength(int(info.Size()))
	}
	run.AddArtifact(artifact)
}

// addInvocation adds check metadata to the run.
func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()

	// The class list was read to the end
	invocation.ExecutionSuccessful = ptrBool(len(m.result.Diagnostics) == 0)

	startTime := m.result.StartTime.UTC().Format("2006-01-02T15:04:05.000Z")
	endTime := m.result.EndTime.UTC().Format("2006-01-02T15:04:05.000Z")
	invocation.StartTimeUtc = &startTime
	invocation.EndTimeUtc = &endTime

	if hostname, err := os.Hostname(); err == nil {
		invocation.Machine = &hostname
	}

	if m.cwd != "" {
		cwd := "file://" + filepath.ToSlash(m.cwd)
		invocation.WorkingDirectory = sarif.NewArtifactLocation().WithURI(cwd)
	}

	props := sarif.NewPropertyBag()
	props.Add("runId", m.result.RunID.String())
	props.Add("classList", m.classListPath)
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

// addProperties adds summary statistics to run properties.
func (m *sarifMapper) addProperties(run *sarif.Run) {
	props := sarif.NewPropertyBag()
	props.Add("summary", m.result.Summary)
	run.WithProperties(props)
}

func ptrBool(b bool) *bool {
	return &b
}
