package advisornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	statex "github.com/pattarapol/CareerMate-Advisor/agent/state"
)

var (
	ErrInvalidMessage      = errors.New("message is empty")
	ErrInvalidUser         = errors.New("user id is empty")
	ErrNoDecision          = errors.New("routing decision is missing")
	ErrNoOutcome           = errors.New("terminal outcome is missing")
	ErrToolBudgetExhausted = errors.New("tool call budget exhausted")
)

type GraphInput struct {
	UserID string
	Text   string
}

type GraphOutput struct {
	Outcome contractx.Outcome
}

type GraphState struct {
	UserID string
	Text   string
	Now    time.Time

	Profile *statex.Profile
	Context *statex.CareerContext

	Decision contractx.ClassifyResponse
	Outcome  *contractx.Outcome
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrInvalidUser
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		UserID: userID,
		Text:   text,
		Now:    nowFn().UTC(),
	}, nil
}
