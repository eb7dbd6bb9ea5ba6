package workflow

import (
	"context"
	"fmt"

	"github.com/dhruvladia/career-coach-ai/types"
)

// Decision is the router's output for one turn: an ordered set of routing
// labels, each naming exactly one specialist stage. Labels must be unique
// within a decision; duplicates are a contract violation by the router, not
// something the engine silently repairs.
type Decision struct {
	Labels []string `json:"labels"`
	// UsedFallback is set when the router could not classify the message and
	// fell back to the default stage.
	UsedFallback bool `json:"used_fallback"`
}

// Router inspects the incoming message and prior workflow state and decides
// which specialist stages handle the turn. Implementations must never return
// zero labels without the fallback flag.
type Router interface {
	Route(ctx context.Context, st *State) (*Decision, error)
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(ctx context.Context, st *State) (*Decision, error)

func (f RouterFunc) Route(ctx context.Context, st *State) (*Decision, error) {
	return f(ctx, st)
}

// Validate checks the routing contract: at least one label, no duplicates.
func (d *Decision) Validate() error {
	if d == nil || len(d.Labels) == 0 {
		return types.NewError(types.ErrRoutingContract, "router emitted zero labels and no fallback")
	}
	seen := make(map[string]bool, len(d.Labels))
	for _, label := range d.Labels {
		if label == "" {
			return types.NewError(types.ErrRoutingContract, "router emitted an empty label")
		}
		if seen[label] {
			return types.NewError(types.ErrRoutingContract,
				fmt.Sprintf("router emitted duplicate label: %s", label))
		}
		seen[label] = true
	}
	return nil
}
