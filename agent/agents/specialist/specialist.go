package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/xeipuuv/gojsonschema"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	toolx "github.com/pattarapol/CareerMate-Advisor/agent/tool"
)

type specialistImpl struct {
	agentType      contractx.AgentType
	toolRunner     compose.Runnable[map[string]any, *schema.Message]
	finalizeRunner compose.Runnable[map[string]any, *schema.Message]
	runtimeRunner  compose.Runnable[contractx.SpecialistRequest, contractx.SpecialistResponse]
	allowedTools   map[string]struct{}
	outputSchema   *gojsonschema.Schema
}

func newSpecialist(
	ctx context.Context,
	agentType contractx.AgentType,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
) (*specialistImpl, error) {
	finalizeRunner, err := compileMessageGraph(ctx, chatModel, systemPrompt,
		fmt.Sprintf("specialist.%s.finalize_graph", agentType))
	if err != nil {
		return nil, fmt.Errorf("%w: compile finalize graph: %v", contractx.ErrModelInvoke, err)
	}

	tools := toolx.InfosForAgent(agentType)
	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for specialist=%s: %v", contractx.ErrModelInvoke, agentType, err)
	}
	toolRunner, err := compileMessageGraph(ctx, toolModel, systemPrompt,
		fmt.Sprintf("specialist.%s.tool_graph", agentType))
	if err != nil {
		return nil, fmt.Errorf("%w: compile tool planning graph: %v", contractx.ErrModelInvoke, err)
	}

	outputSchema, err := contractx.OutputSchemaFor(agentType)
	if err != nil {
		return nil, err
	}

	allowedTools := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		allowedTools[t.Name] = struct{}{}
	}

	spec := &specialistImpl{
		agentType:      agentType,
		toolRunner:     toolRunner,
		finalizeRunner: finalizeRunner,
		allowedTools:   allowedTools,
		outputSchema:   outputSchema,
	}

	runtimeRunner, err := compileSpecialistRuntimeGraph(ctx, spec.runToolPlanning, spec.runFinalize)
	if err != nil {
		return nil, fmt.Errorf("%w: compile specialist runtime graph: %v", contractx.ErrModelInvoke, err)
	}
	spec.runtimeRunner = runtimeRunner

	return spec, nil
}

func (s *specialistImpl) Run(ctx context.Context, req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	out, err := s.runtimeRunner.Invoke(ctx, req)
	if err != nil {
		return contractx.SpecialistResponse{}, err
	}
	return out, nil
}

// runToolPlanning asks the model which of the declared tools to call. A model
// that answers directly without tools must still emit its declared envelope.
func (s *specialistImpl) runToolPlanning(ctx context.Context, req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	payload := map[string]any{
		"mode":         "act",
		"user_message": req.UserMessage,
		"skills":       req.Snapshot.Skills,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: marshal tool planning payload: %v", contractx.ErrValidation, err)
	}

	msg, err := s.toolRunner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: tool planning invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: empty tool planning response", contractx.ErrSchemaViolation)
	}

	toolRequests, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return contractx.SpecialistResponse{}, err
	}

	if len(toolRequests) == 0 {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return contractx.SpecialistResponse{}, fmt.Errorf("%w: act mode produced neither tool calls nor output", contractx.ErrSchemaViolation)
		}
		outcome, err := s.parseOutcome(content, req.ToolResults)
		if err != nil {
			return contractx.SpecialistResponse{}, err
		}
		return contractx.SpecialistResponse{Outcome: outcome}, nil
	}

	for _, tr := range toolRequests {
		if _, ok := s.allowedTools[tr.Tool]; !ok {
			return contractx.SpecialistResponse{}, fmt.Errorf("%w: tool=%s is not allowed for agent=%s", contractx.ErrSchemaViolation, tr.Tool, s.agentType)
		}
	}

	return contractx.SpecialistResponse{ToolRequests: toolRequests}, nil
}

// runFinalize feeds tool results back and demands the terminal envelope.
func (s *specialistImpl) runFinalize(ctx context.Context, req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	payload := map[string]any{
		"mode":         "finalize",
		"user_message": req.UserMessage,
		"skills":       req.Snapshot.Skills,
		"tool_results": req.ToolResults,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: marshal finalize payload: %v", contractx.ErrValidation, err)
	}

	msg, err := s.finalizeRunner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: finalize invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: empty finalize response", contractx.ErrSchemaViolation)
	}

	outcome, err := s.parseOutcome(strings.TrimSpace(msg.Content), req.ToolResults)
	if err != nil {
		return contractx.SpecialistResponse{}, err
	}
	return contractx.SpecialistResponse{Outcome: outcome}, nil
}

// parseOutcome validates raw terminal JSON against the declared output schema
// and then applies the per-handler semantic rules. A failure here is a
// contract violation, never a best-effort coercion.
func (s *specialistImpl) parseOutcome(content string, toolResults []contractx.ToolResult) (*contractx.Outcome, error) {
	raw := []byte(content)
	if err := contractx.ValidateEnvelope(s.outputSchema, raw); err != nil {
		return nil, err
	}

	var outcome *contractx.Outcome
	switch s.agentType {
	case contractx.AgentTypeSkillGap:
		var env contractx.SkillGapEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: decode skill gap envelope: %v", contractx.ErrSchemaViolation, err)
		}
		switch {
		case env.Analysis != nil && env.Error != nil:
			return nil, fmt.Errorf("%w: skill gap envelope has both analysis and error", contractx.ErrSchemaViolation)
		case env.Analysis != nil:
			outcome = &contractx.Outcome{
				Handler:  s.agentType,
				Kind:     contractx.OutcomeSkillGap,
				SkillGap: env.Analysis,
				Message:  env.Message,
			}
		case env.Error != nil:
			outcome = &contractx.Outcome{
				Handler: s.agentType,
				Kind:    contractx.OutcomeError,
				Err:     env.Error,
				Message: env.Message,
			}
		default:
			return nil, fmt.Errorf("%w: skill gap envelope has neither analysis nor error", contractx.ErrSchemaViolation)
		}

	case contractx.AgentTypeJobFinder:
		var env contractx.JobListEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: decode job list envelope: %v", contractx.ErrSchemaViolation, err)
		}
		switch {
		case env.Jobs != nil && env.Error != nil:
			return nil, fmt.Errorf("%w: job list envelope has both jobs and error", contractx.ErrSchemaViolation)
		case env.Error != nil:
			outcome = &contractx.Outcome{
				Handler: s.agentType,
				Kind:    contractx.OutcomeError,
				Err:     env.Error,
				Message: env.Message,
			}
		case env.Jobs != nil:
			if failed := firstToolError(toolResults); failed != nil {
				return nil, fmt.Errorf("%w: job list emitted despite tool error %s", contractx.ErrSchemaViolation, failed.Code)
			}
			outcome = &contractx.Outcome{
				Handler: s.agentType,
				Kind:    contractx.OutcomeJobs,
				Jobs:    env.Jobs,
				Message: env.Message,
			}
		default:
			return nil, fmt.Errorf("%w: job list envelope has neither jobs nor error", contractx.ErrSchemaViolation)
		}

	case contractx.AgentTypeCourseRecommender:
		var env contractx.CourseListEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: decode course list envelope: %v", contractx.ErrSchemaViolation, err)
		}
		if env.Courses == nil {
			return nil, fmt.Errorf("%w: course list envelope must carry a courses sequence", contractx.ErrSchemaViolation)
		}
		outcome = &contractx.Outcome{
			Handler: s.agentType,
			Kind:    contractx.OutcomeCourses,
			Courses: env.Courses,
			Message: env.Message,
		}

	default:
		return nil, fmt.Errorf("%w: unknown specialist type %q", contractx.ErrValidation, s.agentType)
	}

	if err := outcome.Validate(); err != nil {
		return nil, err
	}
	return outcome, nil
}

func firstToolError(results []contractx.ToolResult) *contractx.ToolError {
	for _, r := range results {
		if r.Error != nil {
			return r.Error
		}
	}
	return nil
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{
			Tool: tool,
			Args: args,
		})
	}
	return reqs, nil
}
