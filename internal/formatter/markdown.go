package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/sdbgen/internal/model"
)

// MarkdownFormatter formats the model as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the model in markdown format
func (f *MarkdownFormatter) Format(m *model.Model) error {
	if _, err := fmt.Fprintln(f.writer, "# Models"); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range m.Tables {
		if err := f.formatTable(table); err != nil {
			return err
		}
	}
	return f.formatAggregate(m.Aggregate)
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table model.Table) error {
	return f.formatTable(table)
}

func (f *MarkdownFormatter) formatTable(table model.Table) error {
	// Table header
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.TypeName)
	_, _ = fmt.Fprintf(f.writer, "Table: `%s`\n\n", table.Name)

	f.FormatFields(f.writer, table.Fields)
	f.FormatReferences(f.writer, table.References())

	return nil
}

// FormatFields writes the field list of a table
func (f *MarkdownFormatter) FormatFields(w io.Writer, fields []model.Field) {
	_, _ = fmt.Fprintln(w, "### Fields")
	_, _ = fmt.Fprintln(w)

	if len(fields) == 0 {
		_, _ = fmt.Fprintln(w, "_No fields._")
	}
	for _, field := range fields {
		_, _ = fmt.Fprintf(w, "- **%s:** %s\n", field.Name, field.Type)
	}
	_, _ = fmt.Fprintln(w)
}

// FormatReferences writes outgoing links, if any
func (f *MarkdownFormatter) FormatReferences(w io.Writer, refs []model.Link) {
	if len(refs) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "### References")
	_, _ = fmt.Fprintln(w)
	for _, ref := range refs {
		_, _ = fmt.Fprintf(w, "- %s → %s%s\n", ref.Field, ref.Target, manySuffix(ref))
	}
	_, _ = fmt.Fprintln(w)
}

func (f *MarkdownFormatter) formatAggregate(agg model.Aggregate) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", agg.Name)
	_, err := fmt.Fprintf(f.writer, "`%s` → `%s`\n\n", agg.Namespace, agg.Database)
	if err != nil {
		return err
	}
	for _, member := range agg.Members {
		_, _ = fmt.Fprintf(f.writer, "- **%s:** %s[]\n", member.Key, member.TypeName)
	}
	return nil
}
