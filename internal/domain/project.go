package domain

import "time"

// UnassignedProjectID is the synthetic project key for tasks without a project.
const UnassignedProjectID = ""

type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayID returns the best short identifier for display.
// It truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
