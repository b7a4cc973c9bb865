// Package highlight colours generated TypeScript for terminal output.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used per token class
type Theme struct {
	Keyword     lipgloss.Style
	Type        lipgloss.Style
	Name        lipgloss.Style
	Punctuation lipgloss.Style
	String      lipgloss.Style
	Comment     lipgloss.Style
}

// DefaultTheme returns the built-in colours
func DefaultTheme() *Theme {
	return &Theme{
		Keyword:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Type:        lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		Name:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Punctuation: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		String:      lipgloss.NewStyle().Foreground(lipgloss.Color("186")),
		Comment:     lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true),
	}
}

// Highlighter tokenises TypeScript with chroma and renders it with lipgloss
// styles.
type Highlighter struct {
	lexer chroma.Lexer
	theme *Theme
}

// New creates a Highlighter for TypeScript. It falls back to the JavaScript
// lexer, then to plain text.
func New(theme *Theme) *Highlighter {
	l := lexers.Get("TypeScript")
	if l == nil {
		l = lexers.Get("JavaScript")
	}
	if l == nil {
		l = lexers.Fallback
	}
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Highlighter{lexer: chroma.Coalesce(l), theme: theme}
}

// Highlight returns src with every token styled. Newlines are emitted as-is
// so the line structure never changes.
func (h *Highlighter) Highlight(src string) string {
	if src == "" {
		return src
	}
	iter, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var b strings.Builder
	b.Grow(len(src) * 2)

	for _, tok := range iter.Tokens() {
		if tok.Value == "" {
			continue
		}

		style, ok := h.styleFor(tok.Type)
		if !ok {
			b.WriteString(tok.Value)
			continue
		}

		lines := strings.Split(tok.Value, "\n")
		for i, line := range lines {
			if line != "" {
				b.WriteString(style.Render(line))
			}
			if i < len(lines)-1 {
				b.WriteByte('\n')
			}
		}
	}

	out := b.String()
	// Some lexers append a final newline
	if !strings.HasSuffix(src, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

func (h *Highlighter) styleFor(tt chroma.TokenType) (lipgloss.Style, bool) {
	switch {
	// KeywordType is a Keyword subtype; check it first
	case tt == chroma.KeywordType || tt == chroma.NameClass || tt == chroma.NameBuiltin:
		return h.theme.Type, true
	case tt.InCategory(chroma.Keyword):
		return h.theme.Keyword, true
	case tt.InCategory(chroma.LiteralString):
		return h.theme.String, true
	case tt.InCategory(chroma.Comment):
		return h.theme.Comment, true
	case tt == chroma.Punctuation || tt == chroma.Operator:
		return h.theme.Punctuation, true
	case tt.InCategory(chroma.Name):
		return h.theme.Name, true
	default:
		return lipgloss.Style{}, false
	}
}
