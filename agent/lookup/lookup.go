// Package lookup provides the read-only domain tables behind the career
// tools: role requirements, job listings, and the course catalog. The data
// source is swappable; implementations must be safe for unsynchronized
// concurrent reads after construction.
package lookup

import "context"

// Posting is one job listing as stored, before it becomes a JobRecord.
type Posting struct {
	Title    string
	Company  string
	Location string
	Skills   []string
}

// Course is one catalog entry for a skill.
type Course struct {
	Title    string
	Platform string
	Link     string
}

// Service maps lookup keys to domain records. Role and skill keys are matched
// case-insensitively. An unknown role reports ok=false; an unknown skill
// yields an empty course slice. The stricter unknown-role policy belongs to
// the skill-gap tool, not to an error here.
type Service interface {
	RoleSkills(ctx context.Context, role string) (skills []string, ok bool, err error)
	Jobs(ctx context.Context) ([]Posting, error)
	Courses(ctx context.Context, skill string) ([]Course, error)
}
