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
)

// classifierImpl is the dispatcher's intent classifier. It seeds the model
// with the registered specialists' descriptions and accepts only a target
// from that fixed set, or an explicit non-routing reply.
type classifierImpl struct {
	runner       compose.Runnable[map[string]any, *schema.Message]
	outputSchema *gojsonschema.Schema
	registered   map[contractx.AgentType]struct{}
}

func newClassifier(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	infos []contractx.SpecialistInfo,
) (*classifierImpl, error) {
	runner, err := compileMessageGraph(ctx, chatModel, systemPrompt, "dispatcher.classify_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrModelInvoke, err)
	}

	outputSchema, err := contractx.OutputSchemaFor(contractx.AgentTypeDispatcher)
	if err != nil {
		return nil, err
	}

	registered := make(map[contractx.AgentType]struct{}, len(infos))
	for _, info := range infos {
		registered[info.Type] = struct{}{}
	}

	return &classifierImpl{
		runner:       runner,
		outputSchema: outputSchema,
		registered:   registered,
	}, nil
}

func (c *classifierImpl) Classify(ctx context.Context, req contractx.ClassifyRequest) (contractx.ClassifyResponse, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	payload := map[string]any{
		"user_message": req.UserMessage,
		"skills":       req.Snapshot.Skills,
		"specialists":  req.Specialists,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: marshal classify payload: %v", contractx.ErrValidation, err)
	}

	msg, err := c.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: empty classifier response", contractx.ErrSchemaViolation)
	}

	raw := []byte(strings.TrimSpace(msg.Content))
	if err := contractx.ValidateEnvelope(c.outputSchema, raw); err != nil {
		return contractx.ClassifyResponse{}, err
	}

	var out contractx.DispatchEnvelope
	if err := json.Unmarshal(raw, &out); err != nil {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: decode classifier response: %v", contractx.ErrSchemaViolation, err)
	}

	target := strings.ToLower(strings.TrimSpace(out.Target))
	reply := strings.TrimSpace(out.Reply)

	if target == "" || target == "none" || target == string(contractx.AgentTypeDispatcher) {
		if reply == "" {
			return contractx.ClassifyResponse{}, fmt.Errorf("%w: no handoff requires a direct reply", contractx.ErrSchemaViolation)
		}
		return contractx.ClassifyResponse{Reply: reply}, nil
	}

	agent := contractx.AgentType(target)
	if _, ok := c.registered[agent]; !ok {
		return contractx.ClassifyResponse{}, fmt.Errorf("%w: target %q is not a registered specialist", contractx.ErrSchemaViolation, target)
	}
	return contractx.ClassifyResponse{Target: agent}, nil
}
