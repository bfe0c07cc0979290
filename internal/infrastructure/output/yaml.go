package output

import (
	"io"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/classlist/internal/domain/checking"
)

// YAMLFormatter formats check results as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the check result as YAML.
func (f *YAMLFormatter) Format(result *checking.CheckResult) error {
	return writeYAML(f.writer, result)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
