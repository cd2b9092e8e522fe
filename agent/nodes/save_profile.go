package advisornode

import (
	"context"
	"fmt"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	statex "github.com/pattarapol/CareerMate-Advisor/agent/state"
)

// SaveProfile writes the turn's context back as a whole profile. The write is
// a full replacement, so an abandoned turn leaves either the old profile or
// the new one, never a blend.
func SaveProfile(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Profile == nil || in.Context == nil {
		return nil, fmt.Errorf("%w: graph profile is missing", contractx.ErrValidation)
	}

	in.Profile.Skills = in.Context.Skills()
	in.Profile.Touch(in.Now)
	if err := store.Save(ctx, in.Profile); err != nil {
		return nil, err
	}
	return in, nil
}
