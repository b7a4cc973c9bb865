// Package formatter renders a model as type declarations or documentation.
package formatter

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/tordrt/sdbgen/internal/model"
)

const (
	FormatTypeScript = "typescript"
	FormatText       = "text"
	FormatMarkdown   = "markdown"
	FormatXLSX       = "xlsx"
)

// ErrUnknownFormat is returned for format names that have no renderer
var ErrUnknownFormat = errors.New("unknown format")

// Formatter writes a model to its output
type Formatter interface {
	Format(m *model.Model) error
}

// Formats lists the supported format names
func Formats() []string {
	return []string{FormatTypeScript, FormatText, FormatMarkdown, FormatXLSX}
}

// New returns the formatter for format writing to w
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatTypeScript, "ts", "":
		return NewTypeScriptFormatter(w), nil
	case FormatText:
		return NewTextFormatter(w), nil
	case FormatMarkdown, "md":
		return NewMarkdownFormatter(w), nil
	case FormatXLSX:
		return NewXLSXFormatter(w), nil
	default:
		return nil, fmt.Errorf("%w: %s (must be one of typescript, text, markdown, xlsx)", ErrUnknownFormat, format)
	}
}

// Canonical returns the canonical name of a format alias
func Canonical(format string) string {
	switch format {
	case "ts", "":
		return FormatTypeScript
	case "md":
		return FormatMarkdown
	default:
		return format
	}
}

// Extension returns the file extension used for format
func Extension(format string) string {
	switch Canonical(format) {
	case FormatTypeScript:
		return ".d.ts"
	case FormatMarkdown:
		return ".md"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".txt"
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// propertyName quotes names that are not valid identifiers
func propertyName(name string) string {
	if identifier.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
