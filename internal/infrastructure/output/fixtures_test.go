package output

import (
	"time"

	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

func testEntry(line int, name string) *entities.ClassListEntry {
	return &entities.ClassListEntry{
		Name: values.MustNewClassName(name),
		Line: line,
		Pos:  entities.Positions{Name: 1},
	}
}

// createTestResult builds a finalized result with one entry per status.
func createTestResult() *checking.CheckResult {
	res := checking.NewCheckResult("classes.txt")
	res.ToolVersion = "1.2.3"
	res.StartTime = time.Now().Add(-1 * time.Second)

	res.AddEntryResult(checking.EntryResult{
		Entry:    testEntry(1, "java/lang/Object"),
		Resolved: &entities.ResolvedClassInfo{Name: values.MustNewClassName("java/lang/Object"), Location: "rt/java/lang/Object.class", MajorVersion: 65},
		Status:   values.StatusPass,
		Index:    0,
		Duration: 5 * time.Millisecond,
	})

	mismatch := entities.NewFormatError(entities.ErrSuperMismatch, 2, 38)
	mismatch.DeclaredName = "java/lang/Object"
	mismatch.Value = 1
	mismatch.ActualName = "java/lang/Number"
	failed := checking.NewErrorDiagnostic(mismatch)
	failed.ClassName = "com/acme/Counter"
	res.AddEntryResult(checking.EntryResult{
		Entry:       testEntry(2, "com/acme/Counter"),
		Status:      values.StatusFail,
		Diagnostics: []checking.Diagnostic{failed},
		Index:       1,
	})

	res.AddEntryResult(checking.EntryResult{
		Entry:  testEntry(3, "com/acme/Broken"),
		Status: values.StatusError,
		Diagnostics: []checking.Diagnostic{{
			Severity: checking.SeverityError, Message: "failed to load com/acme/Broken from app.jar: truncated",
			ClassName: "com/acme/Broken", Line: 3, Column: 1,
		}},
		Index: 2,
	})

	res.AddEntryResult(checking.EntryResult{
		Entry:       testEntry(4, "com/acme/Missing"),
		Status:      values.StatusSkipped,
		SkipReason:  "class not found",
		Diagnostics: []checking.Diagnostic{checking.NewWarning(4, "com/acme/Missing", "Preload Warning: Cannot find com/acme/Missing")},
		Index:       3,
	})

	res.Finalize()
	return res
}

// createRejectedResult builds the result of a class list that failed to parse.
func createRejectedResult() *checking.CheckResult {
	res := checking.NewCheckResult("classes.txt")
	dup := entities.NewFormatError(entities.ErrDuplicatedID, 2, 22)
	dup.Value = 1
	dup.ClassName = "java/lang/String"
	res.AddDiagnostic(checking.NewErrorDiagnostic(dup))
	res.Finalize()
	return res
}
