package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Step   *int // order within the parent; nil means don't display
	Level  int
	Status domain.TaskStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// TreePrefixes returns the connector prefix for each row of a depth-first
// listing given each row's level. Level 0 rows get no prefix.
func TreePrefixes(levels []int) []string {
	prefixes := make([]string, len(levels))
	for i, level := range levels {
		if level == 0 {
			continue
		}
		var b strings.Builder
		for d := 1; d < level; d++ {
			if hasLaterSibling(levels, i, d) {
				b.WriteString(treePipe)
			} else {
				b.WriteString(treeBlank)
			}
		}
		if hasLaterSibling(levels, i, level) {
			b.WriteString(treeBranch)
		} else {
			b.WriteString(treeCorner)
		}
		prefixes[i] = b.String()
	}
	return prefixes
}

// hasLaterSibling reports whether a row at depth follows row i before the
// listing climbs above depth.
func hasLaterSibling(levels []int, i, depth int) bool {
	for _, l := range levels[i+1:] {
		if l < depth {
			return false
		}
		if l == depth {
			return true
		}
	}
	return false
}

// RenderTree renders items as an indented tree using box-drawing connectors.
// Done items get a ✔ prefix, in-progress items a ▶ prefix, and detail badges
// are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	levels := make([]int, len(items))
	for i, item := range items {
		levels[i] = item.Level
	}
	prefixes := TreePrefixes(levels)

	contents := make([]string, len(items))
	maxWidth := 0
	for i, item := range items {
		title := item.Title
		if item.Step != nil {
			title = StyleDim.Render(fmt.Sprintf("%d. ", *item.Step)) + title
		}
		switch item.Status {
		case domain.TaskDone:
			title = StyleGreen.Render("✔ ") + Dim(title)
		case domain.TaskInProgress:
			title = StyleYellowBold.Render("▶ " + title)
		}
		contents[i] = StyleDim.Render(prefixes[i]) + title
		maxWidth = max(maxWidth, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := maxWidth - lipgloss.Width(contents[i])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render("[ "+item.Detail+" ]"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
