package contract

import "context"

// Classifier is the dispatcher's brain: it picks at most one specialist for a
// request, or answers directly when no handoff is warranted.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (ClassifyResponse, error)
}

// Specialist owns one narrow capability. A Run call either requests tool
// executions or terminates with a schema-valid outcome.
type Specialist interface {
	Run(ctx context.Context, req SpecialistRequest) (SpecialistResponse, error)
}

// Registry is the fixed set of handlers established at startup.
type Registry interface {
	Classifier() Classifier
	Specialist(agent AgentType) (Specialist, bool)
	Specialists() []SpecialistInfo
}

// ToolGateway executes tool requests on behalf of one specialist against a
// context snapshot. Domain failures come back as ToolResult values; a Go error
// means the gateway itself broke.
type ToolGateway interface {
	Execute(ctx context.Context, agent AgentType, snap ContextSnapshot, reqs []ToolRequest) ([]ToolResult, error)
}
