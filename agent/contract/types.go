package contract

import (
	"fmt"
	"strings"
)

type AgentType string

const (
	AgentTypeDispatcher        AgentType = "dispatcher"
	AgentTypeSkillGap          AgentType = "skill_gap"
	AgentTypeJobFinder         AgentType = "job_finder"
	AgentTypeCourseRecommender AgentType = "course_recommender"
)

// ContextSnapshot is the read-only view of the user's context that tools and
// specialists receive. Mutating a snapshot never affects the live context.
type ContextSnapshot struct {
	UserID string   `json:"user_id"`
	Skills []string `json:"skills"`
}

// SpecialistInfo is the static registration surface each specialist exposes to
// the dispatcher: a routing key and a one-line capability description.
type SpecialistInfo struct {
	Type        AgentType `json:"type"`
	Description string    `json:"description"`
}

type ClassifyRequest struct {
	UserMessage string           `json:"user_message"`
	Snapshot    ContextSnapshot  `json:"snapshot"`
	Specialists []SpecialistInfo `json:"specialists"`
}

// ClassifyResponse carries the dispatcher's routing decision. An empty Target
// means no handoff: Reply holds the direct answer or clarification question.
type ClassifyResponse struct {
	Target AgentType `json:"target,omitempty"`
	Reply  string    `json:"reply,omitempty"`
}

type SpecialistRequest struct {
	UserMessage string          `json:"user_message"`
	Snapshot    ContextSnapshot `json:"snapshot"`
	ToolResults []ToolResult    `json:"tool_results,omitempty"`
}

// SpecialistResponse is either a batch of tool requests (the turn continues)
// or a terminal outcome, never both.
type SpecialistResponse struct {
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
	Outcome      *Outcome      `json:"outcome,omitempty"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolError is a terminal-safe domain error a tool returns as data instead of
// failing the turn.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ToolError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type ToolResult struct {
	Tool   string     `json:"tool"`
	Result any        `json:"result,omitempty"`
	Error  *ToolError `json:"error,omitempty"`
}

/* ------------------------------ Domain records ------------------------------ */

type SkillGapResult struct {
	TargetRole     string   `json:"target_role"`
	UserSkills     []string `json:"user_skills"`
	RequiredSkills []string `json:"required_skills"`
	MissingSkills  []string `json:"missing_skills"`
	Notes          string   `json:"notes"`
}

// Validate checks the core invariant: missing is exactly the set of required
// skills the user does not possess, in required-skill order.
func (r *SkillGapResult) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: skill gap analysis is nil", ErrSchemaViolation)
	}
	if strings.TrimSpace(r.TargetRole) == "" {
		return fmt.Errorf("%w: target role is empty", ErrSchemaViolation)
	}

	possessed := make(map[string]struct{}, len(r.UserSkills))
	for _, s := range r.UserSkills {
		possessed[foldSkill(s)] = struct{}{}
	}

	want := make([]string, 0, len(r.RequiredSkills))
	for _, s := range r.RequiredSkills {
		if _, ok := possessed[foldSkill(s)]; !ok {
			want = append(want, s)
		}
	}

	if len(want) != len(r.MissingSkills) {
		return fmt.Errorf("%w: missing skills are not required minus possessed", ErrSchemaViolation)
	}
	for i, s := range want {
		if foldSkill(s) != foldSkill(r.MissingSkills[i]) {
			return fmt.Errorf("%w: missing skill %q out of place", ErrSchemaViolation, r.MissingSkills[i])
		}
	}
	return nil
}

type JobRecord struct {
	Title          string   `json:"job_title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	RequiredSkills []string `json:"required_skills"`
	ApplyLink      string   `json:"link_to_apply"`
}

func (j *JobRecord) Validate() error {
	if j == nil {
		return fmt.Errorf("%w: job record is nil", ErrSchemaViolation)
	}
	if strings.TrimSpace(j.Title) == "" {
		return fmt.Errorf("%w: job title is empty", ErrSchemaViolation)
	}
	if strings.TrimSpace(j.ApplyLink) == "" {
		return fmt.Errorf("%w: job %q has no apply link", ErrSchemaViolation, j.Title)
	}
	return nil
}

type CourseRecord struct {
	Skill    string `json:"skill_to_learn"`
	Title    string `json:"course_title"`
	Platform string `json:"platform"`
	Link     string `json:"link"`
}

func (c *CourseRecord) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: course record is nil", ErrSchemaViolation)
	}
	if strings.TrimSpace(c.Skill) == "" {
		return fmt.Errorf("%w: course record has no skill", ErrSchemaViolation)
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: course record has no title", ErrSchemaViolation)
	}
	return nil
}

/* ------------------------------ Terminal outcome ---------------------------- */

type OutcomeKind string

const (
	OutcomeMessage  OutcomeKind = "message"
	OutcomeSkillGap OutcomeKind = "skill_gap"
	OutcomeJobs     OutcomeKind = "jobs"
	OutcomeCourses  OutcomeKind = "courses"
	OutcomeError    OutcomeKind = "error"
)

// Outcome is the terminal value of one turn, tagged with the handler that
// produced it. Exactly one payload field is set according to Kind; Message may
// accompany the courses payload as the handler's wrap-up.
type Outcome struct {
	Handler  AgentType       `json:"handler"`
	Kind     OutcomeKind     `json:"kind"`
	Message  string          `json:"message,omitempty"`
	SkillGap *SkillGapResult `json:"skill_gap,omitempty"`
	Jobs     []JobRecord     `json:"jobs,omitempty"`
	Courses  []CourseRecord  `json:"courses,omitempty"`
	Err      *ToolError      `json:"error,omitempty"`
}

func (o *Outcome) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: outcome is nil", ErrSchemaViolation)
	}
	switch o.Kind {
	case OutcomeMessage:
		if strings.TrimSpace(o.Message) == "" {
			return fmt.Errorf("%w: message outcome with empty message", ErrSchemaViolation)
		}
	case OutcomeSkillGap:
		if err := o.SkillGap.Validate(); err != nil {
			return err
		}
	case OutcomeJobs:
		if o.Jobs == nil {
			return fmt.Errorf("%w: jobs outcome with nil job list", ErrSchemaViolation)
		}
		for i := range o.Jobs {
			if err := o.Jobs[i].Validate(); err != nil {
				return err
			}
		}
	case OutcomeCourses:
		if o.Courses == nil {
			return fmt.Errorf("%w: courses outcome with nil course list", ErrSchemaViolation)
		}
		for i := range o.Courses {
			if err := o.Courses[i].Validate(); err != nil {
				return err
			}
		}
		if len(o.Courses) == 0 && strings.TrimSpace(o.Message) == "" {
			return fmt.Errorf("%w: empty course list needs a wrap-up message", ErrSchemaViolation)
		}
	case OutcomeError:
		if o.Err == nil || strings.TrimSpace(o.Err.Message) == "" {
			return fmt.Errorf("%w: error outcome without error detail", ErrSchemaViolation)
		}
	default:
		return fmt.Errorf("%w: unknown outcome kind %q", ErrSchemaViolation, o.Kind)
	}
	return nil
}

func foldSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
