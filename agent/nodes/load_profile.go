package advisornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	statex "github.com/pattarapol/CareerMate-Advisor/agent/state"
)

// LoadOrCreateProfile resolves the user's persisted profile (or starts a
// fresh one) and materializes the turn's CareerContext from it.
func LoadOrCreateProfile(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	profile, err := store.Load(ctx, in.UserID)
	if err != nil {
		if !errors.Is(err, statex.ErrProfileNotFound) {
			return nil, err
		}
		profile = statex.NewProfile(in.UserID, nil, in.Now)
	}

	in.Profile = profile
	in.Context = statex.NewCareerContext(profile.UserID, profile.Skills)
	return in, nil
}
