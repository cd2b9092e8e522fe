package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	nodex "github.com/pattarapol/CareerMate-Advisor/agent/nodes"
	statex "github.com/pattarapol/CareerMate-Advisor/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidUser    = nodex.ErrInvalidUser
)

const defaultMaxToolRounds = 4

type Config struct {
	MaxToolRounds int
}

// Advisor is the session controller: it owns one turn end to end, from the
// dispatcher's routing decision through the specialist's tool loop to the
// validated terminal outcome.
type Advisor struct {
	store  statex.Store
	models contractx.Registry
	tools  contractx.ToolGateway

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	maxToolRounds int

	now func() time.Time
}

func New(
	store statex.Store,
	models contractx.Registry,
	tools contractx.ToolGateway,
	cfg Config,
) (*Advisor, error) {
	if store == nil {
		return nil, errors.New("profile store is required")
	}
	if models == nil {
		return nil, errors.New("handler registry is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	maxToolRounds := cfg.MaxToolRounds
	if maxToolRounds <= 0 {
		maxToolRounds = defaultMaxToolRounds
	}

	a := &Advisor{
		store:         store,
		models:        models,
		tools:         tools,
		maxToolRounds: maxToolRounds,
		now:           time.Now,
	}

	graphRunner, err := a.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	a.graphRunner = graphRunner

	return a, nil
}

// HandleMessage runs one turn and surfaces the raw error, if any.
func (a *Advisor) HandleMessage(ctx context.Context, userID string, text string) (contractx.Outcome, error) {
	out, err := a.graphRunner.Invoke(ctx, nodex.GraphInput{
		UserID: userID,
		Text:   text,
	})
	if err != nil {
		return contractx.Outcome{}, err
	}
	return out.Outcome, nil
}

// Run is the boundary the presentation layer calls. Every failure inside the
// turn is converted to a user-safe error outcome here; nothing propagates.
func (a *Advisor) Run(ctx context.Context, userID string, text string) contractx.Outcome {
	turnID := uuid.NewString()

	outcome, err := a.HandleMessage(ctx, userID, text)
	if err != nil {
		log.Error().
			Err(err).
			Str("turn_id", turnID).
			Str("user_id", userID).
			Msg("turn failed")
		return failureOutcome(err)
	}

	log.Info().
		Str("turn_id", turnID).
		Str("user_id", userID).
		Str("handler", string(outcome.Handler)).
		Str("kind", string(outcome.Kind)).
		Msg("turn completed")
	return outcome
}

// ReplaceSkills is the only sanctioned way to change a user's skill list. The
// new list replaces the old one wholesale and is persisted before returning.
func (a *Advisor) ReplaceSkills(ctx context.Context, userID string, skills []string) error {
	id := strings.TrimSpace(userID)
	if id == "" {
		return ErrInvalidUser
	}

	now := a.now().UTC()
	profile, err := a.store.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, statex.ErrProfileNotFound) {
			return err
		}
		profile = statex.NewProfile(id, nil, now)
	}

	careerCtx := statex.NewCareerContext(profile.UserID, profile.Skills)
	careerCtx.ReplaceSkills(skills)

	profile.Skills = careerCtx.Skills()
	profile.Touch(now)
	return a.store.Save(ctx, profile)
}

func failureOutcome(err error) contractx.Outcome {
	code := "internal_error"
	message := "Something went wrong while handling your request. Please try again."
	switch {
	case errors.Is(err, ErrInvalidUser), errors.Is(err, ErrInvalidMessage):
		code = "invalid_request"
		message = "I need a non-empty message to help you."
	case errors.Is(err, contractx.ErrModelInvoke):
		code = "upstream_unavailable"
		message = "I couldn't reach my reasoning engine just now. Please try again in a moment."
	}
	// Contract violations intentionally collapse into the generic message:
	// internal schema detail never reaches the caller.
	return contractx.Outcome{
		Handler: contractx.AgentTypeDispatcher,
		Kind:    contractx.OutcomeError,
		Err: &contractx.ToolError{
			Code:    code,
			Message: message,
		},
	}
}
