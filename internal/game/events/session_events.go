package events

import (
	"time"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
)

// Event type constants
const (
	TypeSessionStarted      = "session.started"
	TypeSessionEnded        = "session.ended"
	TypeTunnelAdded         = "tunnel.added"
	TypeTunnelRemoved       = "tunnel.removed"
	TypeDiagnostic          = "diagnostic"
	TypeFogUpdated          = "fog.updated"
	TypeVillageOwnerChanged = "village.owner_changed"
	TypeStateTransition     = "state.transition"
)

// SessionStartedEvent is published once a scenario has been loaded
type SessionStartedEvent struct {
	BaseEvent
	Scenario  string
	MapWidth  int
	MapHeight int
	Sides     int
	Units     int
	Tunnels   int
}

// NewSessionStartedEvent creates a new SessionStartedEvent
func NewSessionStartedEvent(sessionID, scenario string, width, height, sides, units, tunnels int) *SessionStartedEvent {
	return &SessionStartedEvent{
		BaseEvent: newBase(TypeSessionStarted, sessionID),
		Scenario:  scenario,
		MapWidth:  width,
		MapHeight: height,
		Sides:     sides,
		Units:     units,
		Tunnels:   tunnels,
	}
}

// SessionEndedEvent is published when a session is torn down
type SessionEndedEvent struct {
	BaseEvent
	Duration time.Duration
	Tunnels  int
}

// NewSessionEndedEvent creates a new SessionEndedEvent
func NewSessionEndedEvent(sessionID string, duration time.Duration, tunnels int) *SessionEndedEvent {
	return &SessionEndedEvent{
		BaseEvent: newBase(TypeSessionEnded, sessionID),
		Duration:  duration,
		Tunnels:   tunnels,
	}
}

// TunnelAddedEvent is published for every group registered with a tunnel manager
type TunnelAddedEvent struct {
	BaseEvent
	TunnelID string
	Reversed bool
}

// NewTunnelAddedEvent creates a new TunnelAddedEvent
func NewTunnelAddedEvent(sessionID, tunnelID string, reversed bool) *TunnelAddedEvent {
	return &TunnelAddedEvent{
		BaseEvent: newBase(TypeTunnelAdded, sessionID),
		TunnelID:  tunnelID,
		Reversed:  reversed,
	}
}

// TunnelRemovedEvent is published when groups are removed by id.
// Removed counts both halves of a bidirectional tunnel.
type TunnelRemovedEvent struct {
	BaseEvent
	TunnelID string
	Removed  int
}

// NewTunnelRemovedEvent creates a new TunnelRemovedEvent
func NewTunnelRemovedEvent(sessionID, tunnelID string, removed int) *TunnelRemovedEvent {
	return &TunnelRemovedEvent{
		BaseEvent: newBase(TypeTunnelRemoved, sessionID),
		TunnelID:  tunnelID,
		Removed:   removed,
	}
}

// Severity of a diagnostic
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// DiagnosticEvent is the in-session channel for problems found in rule data
type DiagnosticEvent struct {
	BaseEvent
	Severity string
	Source   string
	Message  string
}

// NewDiagnosticEvent creates a new DiagnosticEvent
func NewDiagnosticEvent(sessionID, severity, source, message string) *DiagnosticEvent {
	return &DiagnosticEvent{
		BaseEvent: newBase(TypeDiagnostic, sessionID),
		Severity:  severity,
		Source:    source,
		Message:   message,
	}
}

// FogUpdatedEvent is published per side after vision has been recomputed
type FogUpdatedEvent struct {
	BaseEvent
	Side         int
	VisibleCells int
}

// NewFogUpdatedEvent creates a new FogUpdatedEvent
func NewFogUpdatedEvent(sessionID string, side, visible int) *FogUpdatedEvent {
	return &FogUpdatedEvent{
		BaseEvent:    newBase(TypeFogUpdated, sessionID),
		Side:         side,
		VisibleCells: visible,
	}
}

// VillageOwnerChangedEvent is published when an editor action changes a village's owner
type VillageOwnerChangedEvent struct {
	BaseEvent
	Location core.Coordinate
	From     int
	To       int
}

// NewVillageOwnerChangedEvent creates a new VillageOwnerChangedEvent
func NewVillageOwnerChangedEvent(sessionID string, loc core.Coordinate, from, to int) *VillageOwnerChangedEvent {
	return &VillageOwnerChangedEvent{
		BaseEvent: newBase(TypeVillageOwnerChanged, sessionID),
		Location:  loc,
		From:      from,
		To:        to,
	}
}

// StateTransitionEvent is published when the session state machine transitions between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(sessionID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, sessionID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
