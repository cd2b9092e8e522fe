package advisornode

import (
	"fmt"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
)

// FinalizeOutcome is the last gate of a turn: whatever leaves the graph is a
// validated outcome tagged with its producing handler.
func FinalizeOutcome(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Outcome == nil {
		return GraphOutput{}, ErrNoOutcome
	}
	if in.Outcome.Handler == "" {
		return GraphOutput{}, fmt.Errorf("%w: outcome has no handler tag", contractx.ErrSchemaViolation)
	}
	if err := in.Outcome.Validate(); err != nil {
		return GraphOutput{}, err
	}
	return GraphOutput{Outcome: *in.Outcome}, nil
}
