package advisornode

import (
	"context"
	"fmt"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
)

// DispatchSpecialist hands the turn to the routed specialist and drives its
// tool loop: each batch of tool requests is executed through the gateway and
// fed back until the specialist terminates with an outcome. No handoff means
// the dispatcher's own reply is the terminal value.
func DispatchSpecialist(
	ctx context.Context,
	in *GraphState,
	models contractx.Registry,
	tools contractx.ToolGateway,
	maxToolRounds int,
) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, fmt.Errorf("%w: graph context is nil", contractx.ErrValidation)
	}

	if in.Decision.Target == "" {
		if in.Decision.Reply == "" {
			return nil, ErrNoDecision
		}
		in.Outcome = &contractx.Outcome{
			Handler: contractx.AgentTypeDispatcher,
			Kind:    contractx.OutcomeMessage,
			Message: in.Decision.Reply,
		}
		return in, nil
	}

	outcome, err := runSpecialist(ctx, in, models, tools, maxToolRounds)
	if err != nil {
		return nil, err
	}
	in.Outcome = outcome
	return in, nil
}

func runSpecialist(
	ctx context.Context,
	in *GraphState,
	models contractx.Registry,
	tools contractx.ToolGateway,
	maxToolRounds int,
) (*contractx.Outcome, error) {
	target := in.Decision.Target
	spec, ok := models.Specialist(target)
	if !ok {
		return nil, fmt.Errorf("%w: no specialist registered for target=%s", contractx.ErrValidation, target)
	}

	snapshot := in.Context.Snapshot()
	req := contractx.SpecialistRequest{
		UserMessage: in.Text,
		Snapshot:    snapshot,
	}

	for round := 0; ; round++ {
		resp, err := spec.Run(ctx, req)
		if err != nil {
			return nil, err
		}

		if resp.Outcome != nil {
			if len(resp.ToolRequests) != 0 {
				return nil, fmt.Errorf("%w: specialist returned tool requests alongside an outcome", contractx.ErrSchemaViolation)
			}
			outcome := resp.Outcome
			outcome.Handler = target
			if err := outcome.Validate(); err != nil {
				return nil, err
			}
			return outcome, nil
		}

		if len(resp.ToolRequests) == 0 {
			return nil, fmt.Errorf("%w: specialist returned neither outcome nor tool requests", contractx.ErrSchemaViolation)
		}
		if round >= maxToolRounds {
			return nil, fmt.Errorf("%w: specialist=%s exceeded %d rounds", ErrToolBudgetExhausted, target, maxToolRounds)
		}

		results, err := tools.Execute(ctx, target, snapshot, resp.ToolRequests)
		if err != nil {
			return nil, err
		}
		req.ToolResults = append(req.ToolResults, results...)
	}
}
