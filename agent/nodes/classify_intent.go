package advisornode

import (
	"context"
	"fmt"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
)

// ClassifyIntent asks the dispatcher's classifier for a routing decision.
func ClassifyIntent(ctx context.Context, in *GraphState, models contractx.Registry) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, fmt.Errorf("%w: graph context is nil", contractx.ErrValidation)
	}

	decision, err := models.Classifier().Classify(ctx, contractx.ClassifyRequest{
		UserMessage: in.Text,
		Snapshot:    in.Context.Snapshot(),
		Specialists: models.Specialists(),
	})
	if err != nil {
		return nil, err
	}

	in.Decision = decision
	return in, nil
}
