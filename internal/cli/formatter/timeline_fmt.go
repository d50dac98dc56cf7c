package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/daywise/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

const (
	dayCellWidth  = 3
	maxLabelWidth = 40
)

// FormatTimeline renders visible rows as a Gantt chart: a tree-shaped label
// column, one cell per day, then the rolled-up progress.
func FormatTimeline(tree timeline.Tree, rows []timeline.Row) string {
	if len(tree.Days) == 0 {
		return Dim("No days to show.") + "\n"
	}
	if len(rows) == 0 {
		return Dim(fmt.Sprintf("Nothing planned between %s and %s.",
			tree.Days[0].Format("Jan 2"), tree.Days[len(tree.Days)-1].Format("Jan 2"))) + "\n"
	}

	levels := make([]int, len(rows))
	for i, r := range rows {
		levels[i] = r.Depth
	}
	prefixes := TreePrefixes(levels)

	labels := make([]string, len(rows))
	labelWidth := lipgloss.Width(tree.Days[0].Format("Jan 2006"))
	for i, r := range rows {
		labels[i] = StyleDim.Render(prefixes[i]) + rowLabel(r)
		labelWidth = max(labelWidth, lipgloss.Width(labels[i]))
	}
	labelWidth = min(labelWidth, maxLabelWidth)

	var b strings.Builder
	b.WriteString(padRight(StyleHeader.Render(tree.Days[0].Format("Jan 2006")), labelWidth))
	b.WriteString(" ")
	for _, d := range tree.Days {
		b.WriteString(dayHeaderCell(d))
	}
	b.WriteString("\n")

	for i, r := range rows {
		b.WriteString(padRight(truncateVisible(labels[i], labelWidth), labelWidth))
		b.WriteString(" ")
		b.WriteString(barCells(r.Bar, len(tree.Days)))
		b.WriteString(" " + Dim(fmt.Sprintf("%3d%%", r.Bar.Progress)))
		b.WriteString("\n")
	}
	return b.String()
}

func rowLabel(r timeline.Row) string {
	title := r.Title
	if r.Step != nil {
		title = fmt.Sprintf("%d. %s", *r.Step, title)
	}
	switch r.Kind {
	case timeline.KindProject:
		title = Bold(title)
	case timeline.KindPhase:
		title = StyleDim.Italic(true).Render(title)
	}
	if r.Expandable {
		marker := "▸ "
		if r.Expanded {
			marker = "▾ "
		}
		title = StyleDim.Render(marker) + title
	}
	if r.Bar.IsFixedTime {
		title += " " + StylePurple.Render("◆")
	}
	if r.Bar.IsSplit {
		title += " " + Dim("┊")
	}
	return title
}

func dayHeaderCell(d time.Time) string {
	cell := fmt.Sprintf("%*d", dayCellWidth, d.Day())
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		return Dim(cell)
	}
	return StyleFg.Render(cell)
}

// barCells draws the bar over the day columns. The leading share of the
// span matching the progress is drawn solid.
func barCells(bar timeline.Bar, days int) string {
	span := bar.Span()
	solid := int(math.Round(float64(bar.Progress) / 100 * float64(span)))
	style := StatusStyle(bar.Status)
	if bar.IsFixedTime {
		style = StylePurple
	}

	var b strings.Builder
	for i := range days {
		switch {
		case i < bar.StartIndex || i > bar.EndIndex:
			b.WriteString(Dim(fmt.Sprintf("%*s", dayCellWidth, "·")))
		case i-bar.StartIndex < solid:
			b.WriteString(" " + style.Render(strings.Repeat(filledBlock, dayCellWidth-1)))
		default:
			b.WriteString(" " + style.Render(strings.Repeat(emptyBlock, dayCellWidth-1)))
		}
	}
	return b.String()
}

func padRight(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

// truncateVisible shortens s to width visible cells, ending with an ellipsis.
func truncateVisible(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width-1).Render(s) + "…"
}
