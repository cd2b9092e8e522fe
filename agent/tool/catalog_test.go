package tool

import (
	"context"
	"testing"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	lookupx "github.com/pattarapol/CareerMate-Advisor/agent/lookup"
)

func TestInfosForAgentFixedSets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		agent contractx.AgentType
		want  []string
	}{
		{contractx.AgentTypeSkillGap, []string{ToolSkillGap}},
		{contractx.AgentTypeJobFinder, []string{ToolJobSearch}},
		{contractx.AgentTypeCourseRecommender, []string{ToolRecommendCourses}},
		{contractx.AgentTypeDispatcher, nil},
	}
	for _, tc := range tests {
		infos := InfosForAgent(tc.agent)
		if len(infos) != len(tc.want) {
			t.Fatalf("InfosForAgent(%s) returned %d tools, want %d", tc.agent, len(infos), len(tc.want))
		}
		for i, info := range infos {
			if info.Name != tc.want[i] {
				t.Fatalf("InfosForAgent(%s)[%d] = %q, want %q", tc.agent, i, info.Name, tc.want[i])
			}
		}
	}
}

func TestGatewayExecutesAllowedTool(t *testing.T) {
	t.Parallel()

	g := NewGateway(lookupx.NewStaticService())
	snap := contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}}

	results, err := g.Execute(context.Background(), contractx.AgentTypeSkillGap, snap, []contractx.ToolRequest{
		{Tool: ToolSkillGap, Args: map[string]any{"target_job": "data scientist"}},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Fatalf("unexpected tool error: %v", results[0].Error)
	}
	if _, ok := results[0].Result.(*contractx.SkillGapResult); !ok {
		t.Fatalf("unexpected result type: %T", results[0].Result)
	}
}

func TestGatewayRejectsToolOutsideAgentSet(t *testing.T) {
	t.Parallel()

	g := NewGateway(lookupx.NewStaticService())
	snap := contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}}

	results, err := g.Execute(context.Background(), contractx.AgentTypeSkillGap, snap, []contractx.ToolRequest{
		{Tool: ToolJobSearch},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil || results[0].Error.Code != contractx.ToolErrCodeToolUnavailable {
		t.Fatalf("expected tool_unavailable, got %+v", results[0].Error)
	}
}

func TestGatewayPreservesRequestOrder(t *testing.T) {
	t.Parallel()

	g := NewGateway(lookupx.NewStaticService())
	snap := contractx.ContextSnapshot{UserID: "user-1", Skills: []string{"Python"}}

	results, err := g.Execute(context.Background(), contractx.AgentTypeCourseRecommender, snap, []contractx.ToolRequest{
		{Tool: "made.up"},
		{Tool: ToolRecommendCourses, Args: map[string]any{"skills": []any{"SQL"}}},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Tool != "made.up" || results[0].Error == nil {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].Tool != ToolRecommendCourses || results[1].Error != nil {
		t.Fatalf("unexpected second result: %+v", results[1])
	}
}
