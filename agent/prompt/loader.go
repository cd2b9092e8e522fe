package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/dispatcher.txt
	dispatcherRaw string

	//go:embed template/skill_gap.txt
	skillGapRaw string

	//go:embed template/job_finder.txt
	jobFinderRaw string

	//go:embed template/course_recommender.txt
	courseRecommenderRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Dispatcher        string
	SkillGap          string
	JobFinder         string
	CourseRecommender string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to call
// concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Dispatcher:        strings.TrimSpace(dispatcherRaw),
		SkillGap:          strings.TrimSpace(skillGapRaw),
		JobFinder:         strings.TrimSpace(jobFinderRaw),
		CourseRecommender: strings.TrimSpace(courseRecommenderRaw),
	}
}
