package formatter

import (
	"github.com/alexanderramin/daywise/internal/domain"
)

// FormatProjectList renders projects as a table.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "CREATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			Dim(p.CreatedAt.Format("Jan 2, 2006")),
		})
	}
	return RenderTable(headers, rows)
}
