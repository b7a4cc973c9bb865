package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/sdbgen/internal/model"
)

// TextFormatter formats the model as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the model in compact text format
func (f *TextFormatter) Format(m *model.Model) error {
	for i, table := range m.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}

		if err := f.formatTable(table); err != nil {
			return err
		}
	}

	if len(m.Tables) > 0 {
		_, _ = fmt.Fprintln(f.writer)
	}
	return f.formatAggregate(m.Aggregate)
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *TextFormatter) FormatTable(table model.Table) error {
	return f.formatTable(table)
}

func (f *TextFormatter) formatTable(table model.Table) error {
	// Header with the source table name when it differs
	source := ""
	if table.Name != table.TypeName {
		source = fmt.Sprintf(" (%s)", table.Name)
	}
	_, err := fmt.Fprintf(f.writer, "TABLE %s%s\n", table.TypeName, source)
	if err != nil {
		return err
	}

	for _, field := range table.Fields {
		_, _ = fmt.Fprintf(f.writer, "  %s: %s\n", field.Name, field.Type)
	}

	refs := table.References()
	if len(refs) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  REFERENCES:")
		for _, ref := range refs {
			_, _ = fmt.Fprintf(f.writer, "    → %s (%s%s)\n", ref.Target, ref.Field, manySuffix(ref))
		}
	}

	return nil
}

func (f *TextFormatter) formatAggregate(agg model.Aggregate) error {
	_, err := fmt.Fprintf(f.writer, "MODELS %s.%s\n", agg.Namespace, agg.Database)
	if err != nil {
		return err
	}
	for _, member := range agg.Members {
		_, _ = fmt.Fprintf(f.writer, "  %s: %s[]\n", member.Key, member.TypeName)
	}
	return nil
}

func manySuffix(ref model.Link) string {
	if ref.Many {
		return ", many"
	}
	return ""
}

// referenceTargets lists the distinct link targets of a table in field order
func referenceTargets(table model.Table) []string {
	var targets []string
	seen := make(map[string]bool)
	for _, ref := range table.References() {
		if !seen[ref.Target] {
			seen[ref.Target] = true
			targets = append(targets, ref.Target)
		}
	}
	return targets
}

func joinTargets(table model.Table, sep string) string {
	return strings.Join(referenceTargets(table), sep)
}
