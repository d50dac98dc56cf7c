package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/daywise/internal/service"
)

// FormatCompletion reports a done/reopen request, listing the dependencies
// that blocked it when it was refused.
func FormatCompletion(res *service.CompletionResult, done bool) string {
	title := Bold(res.Task.Title)
	switch {
	case res.Changed && done:
		return StyleGreen.Render("✔ ") + "Completed " + title + "\n"
	case res.Changed:
		return StyleBlue.Render("○ ") + "Reopened " + title + "\n"
	case res.Message == "" && done:
		return Dim("Already done: ") + title + "\n"
	case res.Message == "":
		return Dim("Not done: ") + title + "\n"
	}

	var b strings.Builder
	b.WriteString(StyleRed.Render("✖ ") + "Cannot complete " + title + "\n")
	b.WriteString("  " + StyleYellow.Render(res.Message) + "\n")
	for _, dep := range res.Gate.Dependencies {
		if !dep.Resolved {
			b.WriteString(fmt.Sprintf("    %s %s\n", StyleRed.Render("?"), Dim(dep.ID+" (not found)")))
			continue
		}
		b.WriteString(fmt.Sprintf("    %s %s\n", StatusPill(dep.Status), dep.Title))
	}
	return b.String()
}
