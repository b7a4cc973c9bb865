package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/sdbgen/internal/model"
)

// MultiFileFormatter writes the model to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "typescript", "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: Canonical(format),
	}
}

// Format writes the overview and one file per model
func (f *MultiFileFormatter) Format(m *model.Model) error {
	switch f.OutputFormat {
	case FormatTypeScript, FormatText, FormatMarkdown:
	default:
		return fmt.Errorf("%w: %s is not supported for multi-file output", ErrUnknownFormat, f.OutputFormat)
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(m); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, table := range m.Tables {
		if err := f.writeTableFile(table, m); err != nil {
			return fmt.Errorf("failed to write model file for %s: %w", table.TypeName, err)
		}
	}

	return nil
}

// OverviewFile returns the name of the overview file
func (f *MultiFileFormatter) OverviewFile() string {
	if f.OutputFormat == FormatTypeScript {
		return "index" + Extension(f.OutputFormat)
	}
	return "_overview" + Extension(f.OutputFormat)
}

// TableFile returns the file name used for a model
func (f *MultiFileFormatter) TableFile(table model.Table) string {
	return table.TypeName + Extension(f.OutputFormat)
}

func (f *MultiFileFormatter) writeOverview(m *model.Model) error {
	return f.create(f.OverviewFile(), func(w io.Writer) error {
		switch f.OutputFormat {
		case FormatTypeScript:
			return f.writeTypeScriptIndex(w, m)
		case FormatMarkdown:
			return f.writeMarkdownOverview(w, m)
		default:
			return f.writeTextOverview(w, m)
		}
	})
}

func (f *MultiFileFormatter) writeTypeScriptIndex(w io.Writer, m *model.Model) error {
	names := m.TypeNames()
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "import type { %s } from \"./%s\";\n", name, name)
	}
	if len(names) > 0 {
		_, _ = fmt.Fprintf(w, "export type { %s };\n", strings.Join(names, ", "))
		_, _ = fmt.Fprintln(w)
	}
	return NewTypeScriptFormatter(w).FormatAggregate(m.Aggregate)
}

func (f *MultiFileFormatter) writeMarkdownOverview(w io.Writer, m *model.Model) error {
	_, _ = fmt.Fprintf(w, "# Models Overview\n\n")
	_, _ = fmt.Fprintf(w, "Each model has a corresponding file: `<Model>%s`\n\n", Extension(f.OutputFormat))
	_, _ = fmt.Fprintf(w, "## Models\n\n")

	for _, table := range sortedTables(m) {
		_, _ = fmt.Fprintf(w, "- **%s**", table.TypeName)

		// Show outgoing relationships
		if targets := joinTargets(table, ", "); targets != "" {
			_, _ = fmt.Fprintf(w, " (references: %s)", targets)
		}
		_, _ = fmt.Fprintf(w, "\n")
	}
	_, _ = fmt.Fprintln(w)

	return NewMarkdownFormatter(w).formatAggregate(m.Aggregate)
}

func (f *MultiFileFormatter) writeTextOverview(w io.Writer, m *model.Model) error {
	_, _ = fmt.Fprintf(w, "MODELS OVERVIEW\n")
	_, _ = fmt.Fprintf(w, "Each model has a file: <Model>%s\n\n", Extension(f.OutputFormat))

	for _, table := range sortedTables(m) {
		_, _ = fmt.Fprintf(w, "%s", table.TypeName)
		if targets := joinTargets(table, ","); targets != "" {
			_, _ = fmt.Fprintf(w, " (references: %s)", targets)
		}
		_, _ = fmt.Fprintf(w, "\n")
	}
	_, _ = fmt.Fprintln(w)

	return NewTextFormatter(w).formatAggregate(m.Aggregate)
}

// writeTableFile writes a single model to its own file
func (f *MultiFileFormatter) writeTableFile(table model.Table, m *model.Model) error {
	return f.create(f.TableFile(table), func(w io.Writer) error {
		switch f.OutputFormat {
		case FormatTypeScript:
			for _, target := range referenceTargets(table) {
				if target == table.TypeName {
					continue
				}
				_, _ = fmt.Fprintf(w, "import type { %s } from \"./%s\";\n", target, target)
			}
			if len(referenceTargets(table)) > 0 {
				_, _ = fmt.Fprintln(w)
			}
			return NewTypeScriptFormatter(w).FormatTable(table)

		case FormatMarkdown:
			md := NewMarkdownFormatter(w)
			if err := md.FormatTable(table); err != nil {
				return err
			}

			// Add incoming relationships
			incoming := m.IncomingReferences(table.TypeName)
			if len(incoming) > 0 {
				_, _ = fmt.Fprintf(w, "### Referenced by\n\n")
				for _, ref := range incoming {
					_, _ = fmt.Fprintf(w, "- %s.%s%s\n", ref.Source, ref.Field, manySuffix(ref))
				}
				_, _ = fmt.Fprintln(w)
			}
			return nil

		default:
			if err := NewTextFormatter(w).FormatTable(table); err != nil {
				return err
			}
			incoming := m.IncomingReferences(table.TypeName)
			if len(incoming) > 0 {
				_, _ = fmt.Fprintln(w)
				_, _ = fmt.Fprintln(w, "  REFERENCED BY:")
				for _, ref := range incoming {
					_, _ = fmt.Fprintf(w, "    ← %s.%s%s\n", ref.Source, ref.Field, manySuffix(ref))
				}
			}
			return nil
		}
	})
}

func (f *MultiFileFormatter) create(name string, write func(io.Writer) error) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name))
	if err != nil {
		return err
	}

	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// sortedTables returns the tables ordered by model name
func sortedTables(m *model.Model) []model.Table {
	sorted := make([]model.Table, len(m.Tables))
	copy(sorted, m.Tables)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TypeName < sorted[j].TypeName
	})
	return sorted
}
