package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
)

// escapeFString doubles braces so prompt text with literal JSON examples
// survives FString rendering. The system prompt is static content, not a
// template; only the {input} slot in the user message is a placeholder.
func escapeFString(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}

// compileMessageGraph wires prompt template -> chat model and hands back the
// raw assistant message. Schema validation of the content happens in the
// caller so a violating payload is rejected against the handler's declared
// output schema, not silently best-effort parsed.
func compileMessageGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(escapeFString(systemPrompt)),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", graphName, err)
	}
	return runner, nil
}

type specialistGraphState struct {
	Req        contractx.SpecialistRequest
	HasResults bool
}

// compileSpecialistRuntimeGraph branches one Run call between the
// tool-planning pass (first invocation of a turn) and the structured finalize
// pass (after tool results arrived).
func compileSpecialistRuntimeGraph(
	ctx context.Context,
	toolFlow func(context.Context, contractx.SpecialistRequest) (contractx.SpecialistResponse, error),
	finalizeFlow func(context.Context, contractx.SpecialistRequest) (contractx.SpecialistResponse, error),
) (compose.Runnable[contractx.SpecialistRequest, contractx.SpecialistResponse], error) {
	graph := compose.NewGraph[contractx.SpecialistRequest, contractx.SpecialistResponse]()

	if err := graph.AddLambdaNode("validate_and_prepare",
		compose.InvokableLambda(func(ctx context.Context, req contractx.SpecialistRequest) (*specialistGraphState, error) {
			if req.UserMessage == "" {
				return nil, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
			}
			return &specialistGraphState{
				Req:        req,
				HasResults: len(req.ToolResults) > 0,
			}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add specialist runtime validate node: %w", err)
	}

	if err := graph.AddLambdaNode("tool_path",
		compose.InvokableLambda(func(ctx context.Context, in *specialistGraphState) (contractx.SpecialistResponse, error) {
			if in == nil {
				return contractx.SpecialistResponse{}, fmt.Errorf("%w: specialist graph state is nil", contractx.ErrValidation)
			}
			return toolFlow(ctx, in.Req)
		}),
	); err != nil {
		return nil, fmt.Errorf("add specialist runtime tool node: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_path",
		compose.InvokableLambda(func(ctx context.Context, in *specialistGraphState) (contractx.SpecialistResponse, error) {
			if in == nil {
				return contractx.SpecialistResponse{}, fmt.Errorf("%w: specialist graph state is nil", contractx.ErrValidation)
			}
			return finalizeFlow(ctx, in.Req)
		}),
	); err != nil {
		return nil, fmt.Errorf("add specialist runtime finalize node: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *specialistGraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: specialist graph state is nil", contractx.ErrValidation)
			}
			if in.HasResults {
				return "finalize_path", nil
			}
			return "tool_path", nil
		},
		map[string]bool{
			"tool_path":     true,
			"finalize_path": true,
		},
	)

	if err := graph.AddBranch("validate_and_prepare", branch); err != nil {
		return nil, fmt.Errorf("add specialist runtime branch: %w", err)
	}
	if err := graph.AddEdge(compose.START, "validate_and_prepare"); err != nil {
		return nil, fmt.Errorf("add specialist runtime edge start->validate: %w", err)
	}
	if err := graph.AddEdge("tool_path", compose.END); err != nil {
		return nil, fmt.Errorf("add specialist runtime edge tool->end: %w", err)
	}
	if err := graph.AddEdge("finalize_path", compose.END); err != nil {
		return nil, fmt.Errorf("add specialist runtime edge finalize->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("specialist.runtime_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile specialist runtime graph: %w", err)
	}
	return runner, nil
}
