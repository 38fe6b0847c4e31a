package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles shared by CLI output and the TUI.
type Styles struct {
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Footer    lipgloss.Style
}

// NewStyles builds styles bound to lr. A nil lr uses the default renderer.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	if lr == nil {
		lr = lipgloss.DefaultRenderer()
	}
	return &Styles{
		Header:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Subheader: lr.NewStyle().Bold(true),
		Muted:     lr.NewStyle().Foreground(lipgloss.Color("8")),
		Error:     lr.NewStyle().Foreground(lipgloss.Color("9")),
		Footer:    lr.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
	}
}

// FormatHeader returns a markdown heading.
func FormatHeader(level int, text string) string {
	level = min(max(level, 1), 6)
	return strings.Repeat("#", level) + " " + text
}

