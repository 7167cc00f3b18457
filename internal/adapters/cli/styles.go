package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette for terminal output
var (
	colorProduction = lipgloss.Color("#F4D03F")
	colorSource     = lipgloss.Color("#2CD7C7")
	colorWarning    = lipgloss.Color("#E67E22")
	colorError      = lipgloss.Color("#E74C3C")
	colorMuted      = lipgloss.Color("#7F8C8D")
	colorTitle      = lipgloss.Color("#20B9B4")
)

// outputStyles groups every style used by the formatters. The zero value
// renders plain text, which is what non-terminal output gets.
type outputStyles struct {
	Title      lipgloss.Style
	Production lipgloss.Style
	Source     lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Muted      lipgloss.Style
	Bold       lipgloss.Style
}

func newOutputStyles(useColors bool) outputStyles {
	if !useColors {
		plain := lipgloss.NewStyle()
		return outputStyles{
			Title:      plain,
			Production: plain,
			Source:     plain,
			Warning:    plain,
			Error:      plain,
			Muted:      plain,
			Bold:       plain,
		}
	}
	return outputStyles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(colorTitle),
		Production: lipgloss.NewStyle().Foreground(colorProduction),
		Source:     lipgloss.NewStyle().Foreground(colorSource),
		Warning:    lipgloss.NewStyle().Foreground(colorWarning),
		Error:      lipgloss.NewStyle().Foreground(colorError),
		Muted:      lipgloss.NewStyle().Foreground(colorMuted),
		Bold:       lipgloss.NewStyle().Bold(true),
	}
}

// colorsEnabled reports whether w is an interactive terminal and colour was not
// switched off with --no-color or NO_COLOR
func colorsEnabled(w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
