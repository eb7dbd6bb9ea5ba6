package workflow

// GateAction is the gate's verdict after a specialist stage runs.
type GateAction int

const (
	// GateSuspend freezes the turn for human input.
	GateSuspend GateAction = iota
	// GateContinue returns control to the router for the next pending label.
	GateContinue
	// GateFinalize ends the turn and hands off to the finalizer.
	GateFinalize
)

func (a GateAction) String() string {
	switch a {
	case GateSuspend:
		return "suspend"
	case GateContinue:
		return "continue"
	case GateFinalize:
		return "finalize"
	default:
		return "unknown"
	}
}

// Gate decides what happens after a stage runs. Pure control logic, no side
// effects; every end-to-end behavior funnels through this decision. The order
// is fixed: a human-input request wins over pending labels, pending labels win
// over finalization.
func Gate(st *State) GateAction {
	if st.RequiresHumanInput {
		return GateSuspend
	}
	if len(st.PendingLabels()) > 0 {
		return GateContinue
	}
	return GateFinalize
}
