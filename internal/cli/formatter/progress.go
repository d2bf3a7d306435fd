package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders completion as [████░░░░] 45%. The bar turns red
// when any item is delayed, green once everything is done and blue
// otherwise.
func RenderProgress(pct float64, width int, delayed bool) string {
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleBlue
	switch {
	case delayed:
		style = StyleRed
	case pct >= 1:
		style = StyleGreen
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
