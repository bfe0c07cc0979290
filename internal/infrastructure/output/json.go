package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/classlist/internal/domain/checking"
)

// JSONFormatter formats check results as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// Format writes the check result as JSON.
func (f *JSONFormatter) Format(result *checking.CheckResult) error {
	return writeJSON(f.writer, result, f.indent)
}

func writeJSON(w io.Writer, v any, indent bool) error {
	encoder := json.NewEncoder(w)
	if indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
