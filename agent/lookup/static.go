package lookup

import (
	"context"
	"strings"
)

// StaticService serves the built-in demo tables from memory.
type StaticService struct {
	roleSkills map[string][]string
	postings   []Posting
	courses    map[string][]Course
}

func NewStaticService() *StaticService {
	return &StaticService{
		roleSkills: map[string][]string{
			"data scientist":    {"Python", "SQL", "Statistics", "Machine Learning", "Pandas", "Scikit-learn"},
			"software engineer": {"Python", "Java", "Data Structures", "Algorithms", "Git", "Docker"},
			"product manager":   {"Product Strategy", "User Research", "Agile Methodologies", "Roadmapping"},
			"ux designer":       {"Figma", "User Research", "Wireframing", "Prototyping", "Interaction Design"},
		},
		postings: []Posting{
			{Title: "Senior Data Scientist", Company: "Innovate AI", Location: "Remote", Skills: []string{"Python", "Machine Learning", "TensorFlow"}},
			{Title: "Backend Software Engineer", Company: "Tech Solutions Inc.", Location: "New York, NY", Skills: []string{"Python", "Java", "Docker", "Kubernetes"}},
			{Title: "Junior Data Scientist", Company: "Data Insights Co.", Location: "San Francisco, CA", Skills: []string{"Python", "SQL", "Pandas"}},
			{Title: "Product Manager, Growth", Company: "ConnectApp", Location: "Remote", Skills: []string{"Product Strategy", "Agile Methodologies", "A/B Testing"}},
		},
		courses: map[string][]Course{
			"sql":        {{Title: "Complete SQL Bootcamp", Platform: "Udemy", Link: "udemy.com/course/sql-bootcamp"}},
			"statistics": {{Title: "Statistics with Python", Platform: "Coursera", Link: "coursera.org/specializations/statistics-with-python"}},
			"pandas":     {{Title: "Data Analysis with Pandas", Platform: "DataCamp", Link: "datacamp.com/courses/data-manipulation-with-pandas"}},
			"python":     {{Title: "Python for Everybody", Platform: "Coursera", Link: "coursera.org/specializations/python"}},
		},
	}
}

func (s *StaticService) RoleSkills(ctx context.Context, role string) ([]string, bool, error) {
	skills, ok := s.roleSkills[normalizeKey(role)]
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), skills...), true, nil
}

func (s *StaticService) Jobs(ctx context.Context) ([]Posting, error) {
	out := make([]Posting, len(s.postings))
	copy(out, s.postings)
	return out, nil
}

func (s *StaticService) Courses(ctx context.Context, skill string) ([]Course, error) {
	courses := s.courses[normalizeKey(skill)]
	return append([]Course(nil), courses...), nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
