package tui

import "github.com/charmbracelet/lipgloss"

// Shared palette for the preview interface.
var (
	colorPrimary    = lipgloss.Color("#3a5a8c")
	colorSecondary  = lipgloss.Color("#5a7aac")
	colorAccent     = lipgloss.Color("#79a8c2")
	colorBackground = lipgloss.Color("#f8f8f8")
	colorMuted      = lipgloss.Color("#9ba8c0")
	colorSuccess    = lipgloss.Color("#5dc796")
	colorError      = lipgloss.Color("#f04c56")
	colorWarning    = lipgloss.Color("#e5c07b")
)

// icons keyed by semantic usage. ASCII only: the preview runs in arbitrary
// terminals and the grid layout must not depend on emoji width.
var icons = map[string]string{
	"file":     "·",
	"pending":  "»",
	"success":  "✓",
	"error":    "✗",
	"conflict": "!",
	"stats":    "#",
}

func icon(kind string) string {
	if s, ok := icons[kind]; ok {
		return s
	}
	return " "
}
