package specialist

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	toolx "github.com/pattarapol/CareerMate-Advisor/agent/tool"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
	lastInput []*schema.Message
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func toolCallMessage(name string, args string) *schema.Message {
	return &schema.Message{
		ToolCalls: []schema.ToolCall{
			{
				ID: "call_1",
				Function: schema.FunctionCall{
					Name:      name,
					Arguments: args,
				},
			},
		},
	}
}

/* -------------------------------- Classifier -------------------------------- */

func newTestClassifier(t *testing.T, fake *fakeToolCallingModel) *classifierImpl {
	t.Helper()
	c, err := newClassifier(context.Background(), fake, "dispatcher prompt", specialistInfos)
	if err != nil {
		t.Fatalf("newClassifier() error = %v", err)
	}
	return c
}

func TestClassifierRoutesToSpecialist(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"target":"skill_gap"}`},
		},
	}
	c := newTestClassifier(t, fake)

	out, err := c.Classify(context.Background(), contractx.ClassifyRequest{
		UserMessage: "I want to become a data scientist. What skills am I missing?",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}},
		Specialists: specialistInfos,
	})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if out.Target != contractx.AgentTypeSkillGap {
		t.Fatalf("unexpected target: %q", out.Target)
	}
	if out.Reply != "" {
		t.Fatalf("handoff must not carry a reply, got %q", out.Reply)
	}
}

func TestClassifierPayloadIsMessageSkillsSpecialists(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"target":"job_finder"}`},
		},
	}
	c := newTestClassifier(t, fake)

	_, err := c.Classify(context.Background(), contractx.ClassifyRequest{
		UserMessage: "Find me a job",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python", "SQL"}},
		Specialists: specialistInfos,
	})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if len(fake.lastInput) == 0 {
		t.Fatal("model received no messages")
	}
	user := fake.lastInput[len(fake.lastInput)-1]
	if user.Role != schema.User {
		t.Fatalf("last message role = %q, want user", user.Role)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(user.Content), &payload); err != nil {
		t.Fatalf("classify payload is not JSON: %v", err)
	}
	// Routing is a pure function of the message, the user's skills, and the
	// registered specialists; no other fields may leak into the payload.
	want := []string{"skills", "specialists", "user_message"}
	got := make([]string, 0, len(payload))
	for k := range payload {
		got = append(got, k)
	}
	sort.Strings(got)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("payload fields = %v, want %v", got, want)
	}
	if payload["user_message"] != "Find me a job" {
		t.Fatalf("unexpected user_message: %q", payload["user_message"])
	}
}

func TestClassifierDirectReplyWithoutHandoff(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"target":"none","reply":"I can analyze skill gaps, find jobs, and recommend courses. What would you like?"}`},
		},
	}
	c := newTestClassifier(t, fake)

	out, err := c.Classify(context.Background(), contractx.ClassifyRequest{
		UserMessage: "Hi there! What can you do?",
		Specialists: specialistInfos,
	})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if out.Target != "" {
		t.Fatalf("expected no handoff, got target %q", out.Target)
	}
	if out.Reply == "" {
		t.Fatal("expected a direct reply")
	}
}

func TestClassifierNoHandoffRequiresReply(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"target":""}`},
		},
	}
	c := newTestClassifier(t, fake)

	_, err := c.Classify(context.Background(), contractx.ClassifyRequest{
		UserMessage: "Hello",
		Specialists: specialistInfos,
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestClassifierRejectsUnregisteredTarget(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"target":"resume_writer"}`},
		},
	}
	c := newTestClassifier(t, fake)

	_, err := c.Classify(context.Background(), contractx.ClassifyRequest{
		UserMessage: "Write my resume",
		Specialists: specialistInfos,
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestClassifierRejectsMalformedEnvelope(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"reply":"missing target field"}`},
		},
	}
	c := newTestClassifier(t, fake)

	_, err := c.Classify(context.Background(), contractx.ClassifyRequest{
		UserMessage: "Hello",
		Specialists: specialistInfos,
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestClassifierModelFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("upstream timeout")}
	c := newTestClassifier(t, fake)

	_, err := c.Classify(context.Background(), contractx.ClassifyRequest{
		UserMessage: "Hello",
		Specialists: specialistInfos,
	})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

/* -------------------------------- Specialists ------------------------------- */

func newTestSpecialist(t *testing.T, agentType contractx.AgentType, fake *fakeToolCallingModel) *specialistImpl {
	t.Helper()
	spec, err := newSpecialist(context.Background(), agentType, fake, "specialist prompt")
	if err != nil {
		t.Fatalf("newSpecialist() error = %v", err)
	}
	return spec
}

func TestSpecialistPlansToolCall(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage(toolx.ToolSkillGap, `{"target_job":"data scientist"}`),
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeSkillGap, fake)

	out, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "What am I missing for data science?",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Outcome != nil {
		t.Fatalf("expected tool requests, got outcome %+v", out.Outcome)
	}
	if len(out.ToolRequests) != 1 {
		t.Fatalf("expected 1 tool request, got %d", len(out.ToolRequests))
	}
	req := out.ToolRequests[0]
	if req.Tool != toolx.ToolSkillGap {
		t.Fatalf("unexpected tool: %q", req.Tool)
	}
	if req.Args["target_job"] != "data scientist" {
		t.Fatalf("unexpected args: %#v", req.Args)
	}
}

func TestSpecialistRejectsDisallowedTool(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage(toolx.ToolJobSearch, `{}`),
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeSkillGap, fake)

	_, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "Find me a job",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1"},
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestSkillGapSpecialistFinalizesAnalysis(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"analysis":{"target_role":"data scientist","user_skills":["Python"],"required_skills":["Python","SQL"],"missing_skills":["SQL"],"notes":"You have a good foundation! Focusing on these 1 skills will be a great next step."}}`},
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeSkillGap, fake)

	out, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "What am I missing for data science?",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}},
		ToolResults: []contractx.ToolResult{
			{Tool: toolx.ToolSkillGap, Result: map[string]any{"target_role": "data scientist"}},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Outcome == nil {
		t.Fatal("expected terminal outcome")
	}
	if out.Outcome.Kind != contractx.OutcomeSkillGap {
		t.Fatalf("unexpected kind: %q", out.Outcome.Kind)
	}
	if out.Outcome.SkillGap.TargetRole != "data scientist" {
		t.Fatalf("unexpected target role: %q", out.Outcome.SkillGap.TargetRole)
	}
}

func TestSkillGapSpecialistSurfacesToolError(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"error":{"code":"role_not_found","message":"Sorry, I don't have skill information for \"astronaut\". Please try another role."}}`},
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeSkillGap, fake)

	out, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "What do astronauts need?",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}},
		ToolResults: []contractx.ToolResult{
			{Tool: toolx.ToolSkillGap, Error: &contractx.ToolError{Code: contractx.ToolErrCodeRoleNotFound, Message: "unknown role"}},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Outcome == nil || out.Outcome.Kind != contractx.OutcomeError {
		t.Fatalf("expected error outcome, got %+v", out.Outcome)
	}
	if out.Outcome.Err.Code != contractx.ToolErrCodeRoleNotFound {
		t.Fatalf("unexpected error code: %q", out.Outcome.Err.Code)
	}
}

func TestSkillGapSpecialistRejectsInvalidMissingSkills(t *testing.T) {
	t.Parallel()

	// Python is possessed, so it must not be listed as missing.
	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"analysis":{"target_role":"data scientist","user_skills":["Python"],"required_skills":["Python","SQL"],"missing_skills":["Python","SQL"],"notes":"n"}}`},
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeSkillGap, fake)

	_, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "What am I missing?",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}},
		ToolResults: []contractx.ToolResult{
			{Tool: toolx.ToolSkillGap, Result: "ok"},
		},
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestJobFinderSpecialistMustNotEmitJobsAfterToolError(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"jobs":[{"job_title":"Junior Data Scientist","company":"Data Insights Co.","location":"San Francisco, CA","required_skills":["Python"],"link_to_apply":"https://example.com/jobs/junior-data-scientist"}]}`},
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeJobFinder, fake)

	_, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "Find me a job",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1"},
		ToolResults: []contractx.ToolResult{
			{Tool: toolx.ToolJobSearch, Error: &contractx.ToolError{Code: contractx.ToolErrCodeSkillsRequired, Message: "no skills"}},
		},
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestJobFinderSpecialistPassesToolErrorThrough(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"error":{"code":"skills_required","message":"I need to know your skills to find jobs. Please tell me what you're good at first."}}`},
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeJobFinder, fake)

	out, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "Find me a job",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1"},
		ToolResults: []contractx.ToolResult{
			{Tool: toolx.ToolJobSearch, Error: &contractx.ToolError{Code: contractx.ToolErrCodeSkillsRequired, Message: "no skills"}},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Outcome == nil || out.Outcome.Kind != contractx.OutcomeError {
		t.Fatalf("expected error outcome, got %+v", out.Outcome)
	}
	if out.Outcome.Err.Code != contractx.ToolErrCodeSkillsRequired {
		t.Fatalf("unexpected error code: %q", out.Outcome.Err.Code)
	}
}

func TestCourseRecommenderEmptyListNeedsWrapUp(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"courses":[],"message":"I couldn't find courses for those skills, but keep an eye on the big platforms."}`},
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeCourseRecommender, fake)

	out, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "How can I learn underwater basket weaving?",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1"},
		ToolResults: []contractx.ToolResult{
			{Tool: toolx.ToolRecommendCourses, Result: []contractx.CourseRecord{}},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Outcome == nil || out.Outcome.Kind != contractx.OutcomeCourses {
		t.Fatalf("expected courses outcome, got %+v", out.Outcome)
	}
	if len(out.Outcome.Courses) != 0 {
		t.Fatalf("expected empty course list, got %+v", out.Outcome.Courses)
	}
	if out.Outcome.Message == "" {
		t.Fatal("empty course list must carry a wrap-up message")
	}
}

func TestCourseRecommenderEmptyListWithoutWrapUpIsViolation(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"courses":[]}`},
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeCourseRecommender, fake)

	_, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "How can I learn X?",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1"},
		ToolResults: []contractx.ToolResult{
			{Tool: toolx.ToolRecommendCourses, Result: []contractx.CourseRecord{}},
		},
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestSpecialistDirectTerminalWithoutTools(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"error":{"code":"invalid_argument","message":"Please name the role you want to analyze."}}`},
		},
	}
	spec := newTestSpecialist(t, contractx.AgentTypeSkillGap, fake)

	out, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "What am I missing?",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Outcome == nil || out.Outcome.Kind != contractx.OutcomeError {
		t.Fatalf("expected terminal error outcome, got %+v", out.Outcome)
	}
}

func TestSpecialistModelFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("rate limited")}
	spec := newTestSpecialist(t, contractx.AgentTypeJobFinder, fake)

	_, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "Find me a job",
		Snapshot:    contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}},
	})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestRegistryInfosAreFixedAndOrdered(t *testing.T) {
	t.Parallel()

	want := []contractx.AgentType{
		contractx.AgentTypeSkillGap,
		contractx.AgentTypeJobFinder,
		contractx.AgentTypeCourseRecommender,
	}
	if len(specialistInfos) != len(want) {
		t.Fatalf("expected %d specialists, got %d", len(want), len(specialistInfos))
	}
	for i, info := range specialistInfos {
		if info.Type != want[i] {
			t.Fatalf("specialistInfos[%d] = %q, want %q", i, info.Type, want[i])
		}
		if info.Description == "" {
			t.Fatalf("specialist %q has no description", info.Type)
		}
	}
}
