package states

import (
	"time"

	"github.com/rs/zerolog"
)

// SessionContext provides session information to states for making decisions
type SessionContext struct {
	// SessionID uniquely identifies this session
	SessionID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// Scenario names what is being played
	Scenario string

	// Sides is the number of sides loaded
	Sides int

	// StartTime is when PhaseRunning was entered
	StartTime time.Time

	// EndTime is when PhaseEnded was entered
	EndTime time.Time

	// Error holds whatever caused the transition to PhaseError
	Error error
}

// NewSessionContext creates a new session context
func NewSessionContext(sessionID, scenario string, logger zerolog.Logger) *SessionContext {
	return &SessionContext{
		SessionID: sessionID,
		Scenario:  scenario,
		Logger:    logger.With().Str("session_id", sessionID).Logger(),
	}
}

// Elapsed returns how long the session has been (or was) running
func (sc *SessionContext) Elapsed() time.Duration {
	if sc.StartTime.IsZero() {
		return 0
	}
	if !sc.EndTime.IsZero() {
		return sc.EndTime.Sub(sc.StartTime)
	}
	return time.Since(sc.StartTime)
}
