package advisor

import (
	"context"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/pattarapol/CareerMate-Advisor/agent/nodes"
)

// compileHandleMessageGraph wires the per-turn pipeline: validate input, load
// the profile, classify intent, dispatch to a specialist (running its tool
// loop), persist the profile, then validate the terminal outcome.
func (a *Advisor) compileHandleMessageGraph(ctx context.Context) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, a.now)
		}),
	); err != nil {
		return nil, err
	}

	if err := graph.AddLambdaNode("load_profile",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadOrCreateProfile(ctx, in, a.store)
		}),
	); err != nil {
		return nil, err
	}

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyIntent(ctx, in, a.models)
		}),
	); err != nil {
		return nil, err
	}

	if err := graph.AddLambdaNode("dispatch_specialist",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DispatchSpecialist(ctx, in, a.models, a.tools, a.maxToolRounds)
		}),
	); err != nil {
		return nil, err
	}

	if err := graph.AddLambdaNode("save_profile",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveProfile(ctx, in, a.store)
		}),
	); err != nil {
		return nil, err
	}

	if err := graph.AddLambdaNode("finalize_outcome",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeOutcome(in)
		}),
	); err != nil {
		return nil, err
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_profile"},
		{"load_profile", "classify_intent"},
		{"classify_intent", "dispatch_specialist"},
		{"dispatch_specialist", "save_profile"},
		{"save_profile", "finalize_outcome"},
		{"finalize_outcome", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, err
		}
	}

	return graph.Compile(ctx, compose.WithGraphName("advisor.handle_message"))
}
