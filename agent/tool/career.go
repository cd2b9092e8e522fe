package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	lookupx "github.com/pattarapol/CareerMate-Advisor/agent/lookup"
)

// executeSkillGap compares the role's required skills against the user's
// current skills. Unknown roles are a ToolError: the caller asked about a
// specific role and silence would hide the miss.
func executeSkillGap(
	ctx context.Context,
	svc lookupx.Service,
	snap contractx.ContextSnapshot,
	args map[string]any,
) (contractx.ToolResult, error) {
	targetJob, ok := stringArg(args, "target_job")
	if !ok {
		return toolFailure(ToolSkillGap, contractx.ToolErrCodeInvalidArgument, "target_job is required"), nil
	}

	required, found, err := svc.RoleSkills(ctx, targetJob)
	if err != nil {
		return toolFailure(ToolSkillGap, contractx.ToolErrCodeLookupFailed, err.Error()), nil
	}
	if !found {
		msg := fmt.Sprintf("Sorry, I don't have skill information for %q. Please try another role.", targetJob)
		return toolFailure(ToolSkillGap, contractx.ToolErrCodeRoleNotFound, msg), nil
	}

	possessed := make(map[string]struct{}, len(snap.Skills))
	for _, s := range snap.Skills {
		possessed[fold(s)] = struct{}{}
	}

	missing := make([]string, 0, len(required))
	for _, s := range required {
		if _, has := possessed[fold(s)]; !has {
			missing = append(missing, s)
		}
	}

	notes := "You have all the required skills for this role!"
	if len(missing) > 0 {
		notes = fmt.Sprintf("You have a good foundation! Focusing on these %d skills will be a great next step.", len(missing))
	}

	return contractx.ToolResult{
		Tool: ToolSkillGap,
		Result: &contractx.SkillGapResult{
			TargetRole:     targetJob,
			UserSkills:     snap.Skills,
			RequiredSkills: required,
			MissingSkills:  missing,
			Notes:          notes,
		},
	}, nil
}

// executeJobSearch filters the job listings by an optional location substring
// and at least one overlapping skill. Partial-skill matches are still
// opportunities, so the filter is an OR over the user's skills, not a subset
// check. An empty skill set is a failed precondition, distinct from "skills
// known but nothing matched".
func executeJobSearch(
	ctx context.Context,
	svc lookupx.Service,
	snap contractx.ContextSnapshot,
	args map[string]any,
) (contractx.ToolResult, error) {
	if len(snap.Skills) == 0 {
		msg := "I need to know your skills to find jobs. Please tell me what you're good at first."
		return toolFailure(ToolJobSearch, contractx.ToolErrCodeSkillsRequired, msg), nil
	}

	location, _ := stringArg(args, "location")
	location = fold(location)

	postings, err := svc.Jobs(ctx)
	if err != nil {
		return toolFailure(ToolJobSearch, contractx.ToolErrCodeLookupFailed, err.Error()), nil
	}

	possessed := make(map[string]struct{}, len(snap.Skills))
	for _, s := range snap.Skills {
		possessed[fold(s)] = struct{}{}
	}

	matches := make([]contractx.JobRecord, 0, len(postings))
	for _, job := range postings {
		if location != "" && !strings.Contains(fold(job.Location), location) {
			continue
		}
		overlap := false
		for _, s := range job.Skills {
			if _, has := possessed[fold(s)]; has {
				overlap = true
				break
			}
		}
		if !overlap {
			continue
		}
		matches = append(matches, contractx.JobRecord{
			Title:          job.Title,
			Company:        job.Company,
			Location:       job.Location,
			RequiredSkills: job.Skills,
			ApplyLink:      applyLink(job.Title),
		})
	}

	return contractx.ToolResult{Tool: ToolJobSearch, Result: matches}, nil
}

// executeRecommendCourses flattens the catalog hits for each requested skill,
// preserving skill-then-course order. Skills with no catalog entry contribute
// nothing; the result is an empty list rather than an error because the
// course schema is a sequence type.
func executeRecommendCourses(
	ctx context.Context,
	svc lookupx.Service,
	args map[string]any,
) (contractx.ToolResult, error) {
	skills, ok := stringSliceArg(args, "skills")
	if !ok {
		return toolFailure(ToolRecommendCourses, contractx.ToolErrCodeInvalidArgument, "skills must be a list of strings"), nil
	}

	recommendations := make([]contractx.CourseRecord, 0, len(skills))
	for _, skill := range skills {
		courses, err := svc.Courses(ctx, skill)
		if err != nil {
			return toolFailure(ToolRecommendCourses, contractx.ToolErrCodeLookupFailed, err.Error()), nil
		}
		for _, course := range courses {
			recommendations = append(recommendations, contractx.CourseRecord{
				Skill:    skill,
				Title:    course.Title,
				Platform: course.Platform,
				Link:     course.Link,
			})
		}
	}

	return contractx.ToolResult{Tool: ToolRecommendCourses, Result: recommendations}, nil
}

/* --------------------------------- Helpers --------------------------------- */

func toolFailure(tool, code, message string) contractx.ToolResult {
	return contractx.ToolResult{
		Tool:  tool,
		Error: &contractx.ToolError{Code: code, Message: message},
	}
}

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func stringSliceArg(args map[string]any, key string) ([]string, bool) {
	raw, ok := args[key]
	if !ok {
		return nil, false
	}
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func applyLink(title string) string {
	return "https://example.com/jobs/" + slugify(title)
}

// slugify is total: any title maps to a non-empty, URL-safe slug. Collisions
// between distinct titles are tolerated; the link is a pointer, not an id.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "job"
	}
	return slug
}
