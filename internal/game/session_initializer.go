package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/events"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/states"
	"github.com/mitchelldurbincs/generals-tunnels/internal/pathfind/teleport"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// SessionInitializer handles loading a scenario record into a running session
type SessionInitializer struct {
	config SessionConfig
	logger zerolog.Logger
}

// NewSessionInitializer creates a new session initializer
func NewSessionInitializer(cfg SessionConfig) *SessionInitializer {
	return &SessionInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "session").Logger(),
	}
}

// Initialize builds the session and moves it to PhaseRunning. On failure the
// session's state machine records the error and it is returned.
func (si *SessionInitializer) Initialize(scenario *ruledata.Record) (*Session, error) {
	si.setupDefaults()

	s := &Session{
		id:           si.config.SessionID,
		name:         scenario.Str("name"),
		kernel:       si.config.Kernel,
		eventBus:     si.config.EventBus,
		logger:       si.logger.With().Str("session_id", si.config.SessionID).Logger(),
		visionRadius: si.config.VisionRadius,
	}

	ctx := states.NewSessionContext(s.id, s.name, si.logger)
	s.stateMachine = states.NewStateMachine(ctx, s.eventBus)

	if err := si.load(s, scenario); err != nil {
		if failErr := s.stateMachine.Fail(err); failErr != nil {
			s.logger.Error().Err(failErr).Msg("Could not record load failure")
		}
		return nil, err
	}

	s.eventBus.Publish(events.NewSessionStartedEvent(
		s.id,
		s.name,
		s.board.terrain.W,
		s.board.terrain.H,
		len(s.board.teams),
		s.board.units.Len(),
		s.tunnels.Len(),
	))
	s.UpdateFog()

	s.logger.Info().
		Str("scenario", s.name).
		Int("width", s.board.terrain.W).
		Int("height", s.board.terrain.H).
		Int("sides", len(s.board.teams)).
		Int("tunnels", s.tunnels.Len()).
		Msg("Session started")

	return s, nil
}

// setupDefaults sets up default values for missing configuration
func (si *SessionInitializer) setupDefaults() {
	if si.config.SessionID == "" {
		si.config.SessionID = uuid.NewString()
	}
	if si.config.EventBus == nil {
		si.config.EventBus = events.NewEventBus()
	}
	if si.config.Kernel == nil {
		si.config.Kernel = NewKernel()
	}
}

func (si *SessionInitializer) load(s *Session, scenario *ruledata.Record) error {
	if err := s.stateMachine.TransitionTo(states.PhaseLoading, "loading scenario"); err != nil {
		return err
	}

	board, err := si.loadBoard(scenario)
	if err != nil {
		return err
	}
	s.board = board

	s.tod = NewTimeOfDay(splitList(scenario.Str("schedule")))
	if name := scenario.Str("time_of_day"); name != "" {
		if err := s.tod.Set(name); err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
	}
	s.vars = NewVariables(scenario.ChildOrEmpty("variables"))

	s.tunnels, err = teleport.NewManager(scenario,
		teleport.WithDiagnostics(s.eventBus, s.id),
		teleport.WithLogger(si.logger.With().Str("component", "wml").Logger()),
	)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}

	if err := si.runLoadEvents(s, scenario); err != nil {
		return err
	}

	s.stateMachine.GetContext().Sides = len(board.teams)
	return s.stateMachine.TransitionTo(states.PhaseRunning, "scenario loaded")
}

// loadBoard builds terrain, sides, village owners and units
func (si *SessionInitializer) loadBoard(scenario *ruledata.Record) (*Board, error) {
	if !scenario.Has("map") {
		return nil, ErrMissingMap
	}
	terrain, err := core.ParseBoard(scenario.Str("map"))
	if err != nil {
		return nil, fmt.Errorf("scenario map: %w", err)
	}

	var teams []*core.Team
	for _, rec := range scenario.Children("side") {
		t, err := core.TeamFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if _, dup := core.FindTeam(teams, t.Side); dup {
			return nil, fmt.Errorf("side %d declared twice", t.Side)
		}
		t.FogEnabled = t.FogEnabled && si.config.Fog
		teams = append(teams, t)
	}

	for _, rec := range scenario.Children("village") {
		c := core.NewCoordinate(rec.Int("x", -1), rec.Int("y", -1))
		owner := rec.Int("owner", core.NeutralID)
		if owner != core.NeutralID {
			if _, ok := core.FindTeam(teams, owner); !ok {
				return nil, fmt.Errorf("village %s: %w %d", c, core.ErrUnknownSide, owner)
			}
		}
		if err := terrain.SetVillageOwner(c, owner); err != nil {
			return nil, fmt.Errorf("village: %w", err)
		}
	}

	units := core.NewUnitMap()
	for _, rec := range scenario.Children("unit") {
		u, err := core.UnitFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if !terrain.InBoundsCoord(u.Loc) {
			return nil, fmt.Errorf("unit %s: %w: %s", u.ID, core.ErrInvalidCoordinates, u.Loc)
		}
		if _, ok := core.FindTeam(teams, u.Side); !ok {
			return nil, fmt.Errorf("unit %s: %w %d", u.ID, core.ErrUnknownSide, u.Side)
		}
		if err := units.Add(u); err != nil {
			return nil, fmt.Errorf("unit %s: %w", u.ID, err)
		}
	}

	b := NewBoard(terrain, units, teams)
	b.labels = splitList(scenario.Str("hidden_labels"))
	return b, nil
}

// runLoadEvents applies the [tunnel] actions of prestart and start events
func (si *SessionInitializer) runLoadEvents(s *Session, scenario *ruledata.Record) error {
	for _, ev := range scenario.Children("event") {
		name := ev.Str("name")
		if !slices.Contains(loadEvents, name) {
			si.logger.Debug().Str("event", name).Msg("Skipping event not run at load")
			continue
		}
		for i, t := range ev.Children("tunnel") {
			if err := s.applyTunnel(t); err != nil {
				return fmt.Errorf("event %s tunnel #%d: %w", name, i, err)
			}
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
