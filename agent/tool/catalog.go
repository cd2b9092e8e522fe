package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	lookupx "github.com/pattarapol/CareerMate-Advisor/agent/lookup"
)

const (
	ToolSkillGap         = "skills.gap"
	ToolJobSearch        = "jobs.search"
	ToolRecommendCourses = "courses.recommend"
)

// Executor runs one tool against a context snapshot. Domain failures come
// back inside the ToolResult; a non-nil error is reserved for broken plumbing.
type Executor func(ctx context.Context, snap contractx.ContextSnapshot, tool string, args map[string]any) (contractx.ToolResult, error)

// InfosForAgent declares the tool surface a specialist may invoke. The sets
// are fixed at startup; the gateway rejects anything outside them.
func InfosForAgent(agentType contractx.AgentType) []*schema.ToolInfo {
	switch agentType {
	case contractx.AgentTypeSkillGap:
		return []*schema.ToolInfo{
			{
				Name: ToolSkillGap,
				Desc: "Identify the skills a user is missing for a target job role.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"target_job": {Type: schema.String, Desc: "Job role to analyze, e.g. \"data scientist\"", Required: true},
				}),
			},
		}
	case contractx.AgentTypeJobFinder:
		return []*schema.ToolInfo{
			{
				Name: ToolJobSearch,
				Desc: "Find job openings matching the user's skills, optionally filtered by location.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"location": {Type: schema.String, Desc: "Optional location filter, matched as a substring", Required: false},
				}),
			},
		}
	case contractx.AgentTypeCourseRecommender:
		return []*schema.ToolInfo{
			{
				Name: ToolRecommendCourses,
				Desc: "Recommend online courses for a list of skills to learn.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"skills": {
						Type:     schema.Array,
						Desc:     "Skills the user wants to learn",
						Required: true,
						ElemInfo: &schema.ParameterInfo{Type: schema.String},
					},
				}),
			},
		}
	default:
		return nil
	}
}

// Gateway dispatches tool requests to their executors and enforces each
// specialist's declared tool set. It implements contract.ToolGateway.
type Gateway struct {
	svc lookupx.Service
}

func NewGateway(svc lookupx.Service) *Gateway {
	return &Gateway{svc: svc}
}

func (g *Gateway) Execute(
	ctx context.Context,
	agent contractx.AgentType,
	snap contractx.ContextSnapshot,
	reqs []contractx.ToolRequest,
) ([]contractx.ToolResult, error) {
	allowed := make(map[string]struct{})
	for _, info := range InfosForAgent(agent) {
		allowed[info.Name] = struct{}{}
	}

	// Sequential on purpose: later tool arguments may depend on earlier
	// results within the same turn.
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		if _, ok := allowed[req.Tool]; !ok {
			results = append(results, contractx.ToolResult{
				Tool: req.Tool,
				Error: &contractx.ToolError{
					Code:    contractx.ToolErrCodeToolUnavailable,
					Message: fmt.Sprintf("tool %q is not available to handler %q", req.Tool, agent),
				},
			})
			continue
		}

		result, err := g.execute(ctx, snap, req)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Str("tool", req.Tool).
			Str("handler", string(agent)).
			Bool("tool_error", result.Error != nil).
			Msg("tool executed")
		results = append(results, result)
	}
	return results, nil
}

func (g *Gateway) execute(ctx context.Context, snap contractx.ContextSnapshot, req contractx.ToolRequest) (contractx.ToolResult, error) {
	switch req.Tool {
	case ToolSkillGap:
		return executeSkillGap(ctx, g.svc, snap, req.Args)
	case ToolJobSearch:
		return executeJobSearch(ctx, g.svc, snap, req.Args)
	case ToolRecommendCourses:
		return executeRecommendCourses(ctx, g.svc, req.Args)
	default:
		return contractx.ToolResult{
			Tool: req.Tool,
			Error: &contractx.ToolError{
				Code:    contractx.ToolErrCodeToolUnavailable,
				Message: fmt.Sprintf("unknown tool %q", req.Tool),
			},
		}, nil
	}
}
