package cleaning

// State is a pipeline run's position in the processing state machine
type State string

const (
	StateReceived                State = "received"
	StateProfiled                State = "profiled"
	StateAwaitingColumnDecisions State = "awaiting_column_decisions"
	StateResolved                State = "resolved"
	StateImputed                 State = "imputed"
	StateOutliersHandled         State = "outliers_handled"
	StateRulesApplied            State = "rules_applied"
	StateCompleted               State = "completed"
)

var transitions = map[State][]State{
	StateReceived:                {StateProfiled},
	StateProfiled:                {StateAwaitingColumnDecisions, StateResolved},
	StateAwaitingColumnDecisions: {StateResolved},
	StateResolved:                {StateImputed},
	StateImputed:                 {StateOutliersHandled},
	StateOutliersHandled:         {StateRulesApplied},
	StateRulesApplied:            {StateCompleted},
}

// CanTransition reports whether next may follow s
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal is true for completed runs and runs waiting on input
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateAwaitingColumnDecisions
}
