package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/reglet-dev/classlist/internal/domain/entities"
)

// EntryList is the output of parsing a class list.
type EntryList struct {
	ClassListPath string                     `json:"class_list" yaml:"class_list"`
	Entries       []*entities.ClassListEntry `json:"entries" yaml:"entries"`
	Directives    []entities.AtDirective     `json:"directives,omitempty" yaml:"directives,omitempty"`
	Total         int                        `json:"total" yaml:"total"`
}

// EntryListFormats lists the formats FormatEntries accepts.
func EntryListFormats() []string {
	return []string{"table", "json", "yaml", "classlist"}
}

// FormatEntries writes a parsed class list. The "classlist" format
// re-renders every entry in canonical class list syntax.
func FormatEntries(w io.Writer, format string, list EntryList) error {
	switch format {
	case "table":
		return formatEntryTable(w, list)
	case "json":
		return writeJSON(w, list, true)
	case "yaml":
		return writeYAML(w, list)
	case "classlist":
		return formatCanonical(w, list)
	default:
		return fmt.Errorf("unknown format: %s (supported: %v)", format, EntryListFormats())
	}
}

//nolint:errcheck // Best-effort terminal output
func formatEntryTable(w io.Writer, list EntryList) error {
	fmt.Fprintf(w, "Class list: %s\n", list.ClassListPath)
	fmt.Fprintf(w, "%-6s %-6s %-6s %-50s %s\n", "LINE", "ID", "SUPER", "CLASS", "SOURCE")
	for _, e := range list.Entries {
		fmt.Fprintf(w, "%-6d %-6s %-6s %-50s %s\n",
			e.Line, e.ID.String(), e.SuperID.String(), e.Name.String(), e.Source)
	}
	fmt.Fprintf(w, "\n%d of %d entries", len(list.Entries), list.Total)
	if len(list.Directives) > 0 {
		fmt.Fprintf(w, ", %d @ directives", len(list.Directives))
	}
	fmt.Fprintln(w)
	return nil
}

func formatCanonical(w io.Writer, list EntryList) error {
	for _, e := range list.Entries {
		if _, err := fmt.Fprintln(w, CanonicalLine(e)); err != nil {
			return err
		}
	}
	for _, d := range list.Directives {
		if _, err := fmt.Fprintln(w, d.Tag+" "+strings.Join(d.Args, " ")); err != nil {
			return err
		}
	}
	return nil
}

// CanonicalLine renders an entry in class list syntax with keys in
// their conventional order.
func CanonicalLine(e *entities.ClassListEntry) string {
	parts := []string{e.Name.String()}
	if e.ID.IsSpecified() {
		parts = append(parts, "id: "+e.ID.String())
	}
	if e.SuperID.IsSpecified() {
		parts = append(parts, "super: "+e.SuperID.String())
	}
	if len(e.InterfaceIDs) > 0 {
		ids := make([]string, len(e.InterfaceIDs))
		for i, id := range e.InterfaceIDs {
			ids[i] = id.String()
		}
		parts = append(parts, "interfaces: "+strings.Join(ids, " "))
	}
	if e.Source != "" {
		parts = append(parts, "source: "+e.Source)
	}
	return strings.Join(parts, " ")
}
