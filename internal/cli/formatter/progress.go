package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampPct(pct float64) float64 {
	return min(1, max(0, pct))
}

func progressStyleFor(pct float64) lipgloss.Style {
	switch {
	case pct < 0.33:
		return StyleRed
	case pct < 0.66:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = clampPct(pct)
	return fmt.Sprintf("[%s] %3.0f%%", progressStyleFor(pct).Render(blocks(pct, width)), pct*100)
}

// RenderCompactBar renders only the blocks, without brackets or percentage.
// A dimmed bar ignores the percentage coloring.
func RenderCompactBar(pct float64, width int, dim bool) string {
	pct = clampPct(pct)
	if dim {
		return StyleDim.Render(blocks(pct, width))
	}
	return progressStyleFor(pct).Render(blocks(pct, width))
}

// RenderUsage renders how much of capacity is allocated. Overflow is shown in
// red with the excess instead of a clamped bar.
func RenderUsage(allocatedMin, capacityMin, width int) string {
	if allocatedMin > capacityMin {
		bar := StyleRed.Render(strings.Repeat(filledBlock, max(2, width)))
		return fmt.Sprintf("[%s] %s", bar, StyleRed.Render("over by "+FormatMinutes(allocatedMin-capacityMin)))
	}
	pct := 0.0
	if capacityMin > 0 {
		pct = float64(allocatedMin) / float64(capacityMin)
	}
	// Usage is good news when it is low, so the colors run the other way.
	style := StyleGreen
	if pct >= 0.9 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(blocks(pct, width)), clampPct(pct)*100)
}

func blocks(pct float64, width int) string {
	width = max(2, width)
	filled := min(width, int(pct*float64(width)))
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}
