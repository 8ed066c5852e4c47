package states

import "fmt"

// SessionPhase represents the current phase of a scenario session
type SessionPhase int

const (
	// PhaseInitializing - Session object creation
	PhaseInitializing SessionPhase = iota

	// PhaseLoading - Scenario or save data being turned into board, sides, units and tunnels
	PhaseLoading

	// PhaseRunning - Queries and tunnel actions are accepted
	PhaseRunning

	// PhaseEnded - Session torn down
	PhaseEnded

	// PhaseError - Loading failed
	PhaseError
)

var phaseNames = map[SessionPhase]string{
	PhaseInitializing: "Initializing",
	PhaseLoading:      "Loading",
	PhaseRunning:      "Running",
	PhaseEnded:        "Ended",
	PhaseError:        "Error",
}

// String returns the string representation of a SessionPhase
func (p SessionPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", p)
}

// IsTerminal returns true if the phase represents a terminal state
func (p SessionPhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// AcceptsActions returns true if tunnel actions and queries are allowed in this phase
func (p SessionPhase) AcceptsActions() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p SessionPhase) AllowedTransitions() []SessionPhase {
	switch p {
	case PhaseInitializing:
		return []SessionPhase{PhaseLoading, PhaseError}
	case PhaseLoading:
		return []SessionPhase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []SessionPhase{PhaseEnded, PhaseError}
	default:
		return nil
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p SessionPhase) CanTransitionTo(target SessionPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a SessionPhase
func ParsePhase(s string) (SessionPhase, bool) {
	for p, name := range phaseNames {
		if name == s {
			return p, true
		}
	}
	return PhaseInitializing, false
}
