package cli

import (
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App     *App
	Project *domain.Project
	Today   time.Time

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the lines left for view content after the header
// (title + separator) and the status bar (notification + separator + hints).
func (s *SharedState) ContentHeight() int {
	return max(s.Height-appHeaderLines-appFooterLines, 1)
}

// ContentWidth falls back to 80 columns before the first WindowSizeMsg.
func (s *SharedState) ContentWidth() int {
	if s.Width <= 0 {
		return 80
	}
	return s.Width
}
