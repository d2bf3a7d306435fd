package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/render"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorBg     = lipgloss.Color("#282828")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Palette is the bar palette shared with the SVG renderer. Configured
// status_colors overrides land here at startup.
var Palette = render.Palette{}

// SetStatusColors installs status color overrides.
func SetStatusColors(overrides map[string]string) {
	Palette = render.Palette{Overrides: overrides}
}

// StatusStyle returns the foreground style for a lot or intervention status.
func StatusStyle(status string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(Palette.Status(status)))
}

// BarStyle returns the fill style for a bar of the given hex color.
func BarStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Foreground(ColorBg)
}

// StatusPill renders a status as a colored "● in progress" marker.
func StatusPill(status string) string {
	glyph := "●"
	switch status {
	case "completed":
		glyph = "✔"
	case "cancelled":
		glyph = "✖"
	case "pending", "planned", "on_hold":
		glyph = "○"
	case "delayed":
		glyph = "▲"
	}
	return StatusStyle(status).Render(glyph + " " + strings.ReplaceAll(status, "_", " "))
}

// Swatch renders a two-cell sample of a hex color, or a dim dash.
func Swatch(hex string) string {
	if hex == "" {
		return Dim("--")
	}
	return BarStyle(hex).Render("  ")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
