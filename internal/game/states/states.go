package states

import (
	"errors"
	"fmt"
	"time"
)

// InitializingState represents session creation
type InitializingState struct{}

func NewInitializingState() State {
	return &InitializingState{}
}

func (s *InitializingState) Phase() SessionPhase {
	return PhaseInitializing
}

func (s *InitializingState) Enter(ctx *SessionContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(ctx *SessionContext) error {
	ctx.Logger.Debug().Msg("Exiting Initializing state")
	return nil
}

func (s *InitializingState) Validate(ctx *SessionContext) error {
	return nil
}

// LoadingState represents scenario loading
type LoadingState struct{}

func NewLoadingState() State {
	return &LoadingState{}
}

func (s *LoadingState) Phase() SessionPhase {
	return PhaseLoading
}

func (s *LoadingState) Enter(ctx *SessionContext) error {
	ctx.Logger.Info().Str("scenario", ctx.Scenario).Msg("Loading scenario")
	return nil
}

func (s *LoadingState) Exit(ctx *SessionContext) error {
	ctx.Logger.Debug().Int("sides", ctx.Sides).Msg("Scenario loaded")
	return nil
}

func (s *LoadingState) Validate(ctx *SessionContext) error {
	return nil
}

// RunningState represents a live session
type RunningState struct{}

func NewRunningState() State {
	return &RunningState{}
}

func (s *RunningState) Phase() SessionPhase {
	return PhaseRunning
}

func (s *RunningState) Enter(ctx *SessionContext) error {
	ctx.StartTime = time.Now()
	ctx.Logger.Info().
		Time("start_time", ctx.StartTime).
		Msg("Session running")
	return nil
}

func (s *RunningState) Exit(ctx *SessionContext) error {
	ctx.Logger.Debug().Dur("elapsed", ctx.Elapsed()).Msg("Exiting running state")
	return nil
}

func (s *RunningState) Validate(ctx *SessionContext) error {
	if ctx.Sides < 1 {
		return fmt.Errorf("cannot run a session without sides, got %d", ctx.Sides)
	}
	return nil
}

// EndedState represents a torn down session
type EndedState struct{}

func NewEndedState() State {
	return &EndedState{}
}

func (s *EndedState) Phase() SessionPhase {
	return PhaseEnded
}

func (s *EndedState) Enter(ctx *SessionContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().Dur("duration", ctx.Elapsed()).Msg("Session ended")
	return nil
}

func (s *EndedState) Exit(ctx *SessionContext) error {
	return errors.New("cannot exit ended state")
}

func (s *EndedState) Validate(ctx *SessionContext) error {
	return nil
}

// ErrorState represents a failed session
type ErrorState struct{}

func NewErrorState() State {
	return &ErrorState{}
}

func (s *ErrorState) Phase() SessionPhase {
	return PhaseError
}

func (s *ErrorState) Enter(ctx *SessionContext) error {
	ctx.Logger.Error().Err(ctx.Error).Msg("Session entered error state")
	return nil
}

func (s *ErrorState) Exit(ctx *SessionContext) error {
	return errors.New("cannot exit error state")
}

func (s *ErrorState) Validate(ctx *SessionContext) error {
	if ctx.Error == nil {
		return errors.New("error state requires an error")
	}
	return nil
}
