// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Report components
	Heading lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Range   lipgloss.Style
	Event   lipgloss.Style
	Tag     lipgloss.Style
	Snippet lipgloss.Style
	Link    lipgloss.Style

	// Status
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Heading: lipgloss.NewStyle().Bold(true),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Value:   lipgloss.NewStyle(),
		Range:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Event:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Tag:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Snippet: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Link:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),

		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Heading: plain,
		Label:   plain,
		Value:   plain,
		Range:   plain,
		Event:   plain,
		Tag:     plain,
		Snippet: plain,
		Link:    plain,
		Error:   plain,
		Warning: plain,
		Success: plain,
		Dim:     plain,
		Bold:    plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
