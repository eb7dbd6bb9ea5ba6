package workflow

import "testing"

func TestGate_DecisionOrder(t *testing.T) {
	tests := []struct {
		name string
		st   *State
		want GateAction
	}{
		{
			name: "human input requested wins over pending labels",
			st: &State{
				RequiresHumanInput: true,
				RoutingPlan:        []string{"a", "b"},
				RoutingHistory:     []string{"a"},
			},
			want: GateSuspend,
		},
		{
			name: "pending labels continue dispatch",
			st: &State{
				RoutingPlan:    []string{"a", "b"},
				RoutingHistory: []string{"a"},
			},
			want: GateContinue,
		},
		{
			name: "no pending labels finalizes",
			st: &State{
				RoutingPlan:    []string{"a", "b"},
				RoutingHistory: []string{"a", "b"},
			},
			want: GateFinalize,
		},
		{
			name: "empty plan finalizes",
			st:   &State{},
			want: GateFinalize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Gate(tt.st); got != tt.want {
				t.Errorf("Gate() = %s, want %s", got, tt.want)
			}
		})
	}
}
