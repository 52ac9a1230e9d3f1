// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/syntree/pkg/config"
)

// ANSI 16-colour palette indices.
const (
	colorGray    = "8"
	colorRed     = "9"
	colorGreen   = "10"
	colorBlue    = "12"
	colorMagenta = "13"
	colorCyan    = "14"
	colorTeal    = "6"
	colorSilver  = "7"
)

// Styles holds the renderers shared by every reporter.
type Styles struct {
	Error lipgloss.Style

	// Syntax error diagnostics.
	FilePath   lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Tree dumps.
	Guide     lipgloss.Style
	Composite lipgloss.Style
	Token     lipgloss.Style
	TokenText lipgloss.Style
	Lazy      lipgloss.Style
	ErrorNode lipgloss.Style
	Range     lipgloss.Style

	// Text diffs of a reparse.
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// styleKit builds styles that collapse to plain text when colour is off.
type styleKit struct {
	color bool
}

func (k styleKit) plain() lipgloss.Style {
	return lipgloss.NewStyle()
}

func (k styleKit) fg(c string) lipgloss.Style {
	if !k.color {
		return k.plain()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func (k styleKit) bold(s lipgloss.Style) lipgloss.Style {
	if !k.color {
		return s
	}
	return s.Bold(true)
}

func (k styleKit) italic(s lipgloss.Style) lipgloss.Style {
	if !k.color {
		return s
	}
	return s.Italic(true)
}

// NewStyles returns the styles for colour or plain output.
func NewStyles(colorEnabled bool) *Styles {
	k := styleKit{color: colorEnabled}
	gray := k.fg(colorGray)
	red := k.fg(colorRed)
	green := k.fg(colorGreen)

	return &Styles{
		Error: k.bold(red),

		FilePath:   k.bold(k.plain()),
		Message:    k.plain(),
		SourceLine: k.fg(colorSilver),
		Caret:      red,

		Guide:     gray,
		Composite: k.bold(k.fg(colorBlue)),
		Token:     k.fg(colorTeal),
		TokenText: green,
		Lazy:      k.italic(k.fg(colorMagenta)),
		ErrorNode: k.bold(red),
		Range:     gray,

		DiffHeader:  k.bold(k.plain()),
		DiffHunk:    k.fg(colorCyan),
		DiffAdd:     green,
		DiffRemove:  red,
		DiffContext: gray,

		SummaryTitle: k.bold(k.plain()),
		SummaryValue: k.plain(),
		Success:      k.bold(green),
		Failure:      k.bold(red),

		TableHeader:    k.bold(k.fg(colorSilver)),
		TableErrorRow:  red,
		TableSeparator: gray,

		Dim:  gray,
		Bold: k.bold(k.plain()),
	}
}

// IsColorEnabled reports whether output to writer should be coloured. Auto
// mode needs a terminal and an unset NO_COLOR.
func IsColorEnabled(mode config.ColorMode, writer io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
