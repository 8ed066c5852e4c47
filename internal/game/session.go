package game

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/events"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/filter"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/states"
	"github.com/mitchelldurbincs/generals-tunnels/internal/pathfind/teleport"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// SessionConfig carries everything a session needs besides the scenario itself
type SessionConfig struct {
	SessionID    string // generated when empty
	Logger       zerolog.Logger
	EventBus     *events.EventBus // created when nil
	Kernel       *Kernel          // location functions; created when nil
	Fog          bool             // false turns fog off for every side
	VisionRadius int
}

// DefaultSessionConfig reads fog settings from the global config
func DefaultSessionConfig(logger zerolog.Logger) SessionConfig {
	return SessionConfig{
		Logger:       logger,
		Fog:          FogEnabled(),
		VisionRadius: VisionRadius(),
	}
}

// Session owns the mutable state of one loaded scenario. It replaces global
// board and tunnel singletons: every query reads from the session it is called on.
// Callers serialize access.
type Session struct {
	id           string
	name         string
	board        *Board
	tod          *TimeOfDay
	vars         *Variables
	kernel       *Kernel
	tunnels      *teleport.Manager
	eventBus     *events.EventBus
	stateMachine *states.StateMachine
	logger       zerolog.Logger
	visionRadius int
}

// NewSession loads scenario (a scenario or a save) and starts the session
func NewSession(scenario *ruledata.Record, cfg SessionConfig) (*Session, error) {
	return NewSessionInitializer(cfg).Initialize(scenario)
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) Name() string                 { return s.name }
func (s *Session) Board() *Board                { return s.board }
func (s *Session) TimeOfDay() *TimeOfDay        { return s.tod }
func (s *Session) Variables() *Variables        { return s.vars }
func (s *Session) Kernel() *Kernel              { return s.kernel }
func (s *Session) Tunnels() *teleport.Manager   { return s.tunnels }
func (s *Session) EventBus() *events.EventBus   { return s.eventBus }
func (s *Session) Phase() states.SessionPhase   { return s.stateMachine.CurrentPhase() }
func (s *Session) History() []states.Transition { return s.stateMachine.GetHistory() }

// FilterContext is the context tunnel filters are evaluated against
func (s *Session) FilterContext() filter.Context {
	return filter.NewContext(s.board, s.tod, s.vars, s.kernel)
}

// Unit looks a unit up by id
func (s *Session) Unit(id string) (*core.Unit, error) {
	u, ok := s.board.units.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnitNotFound, id)
	}
	return u, nil
}

// Team looks a team up by side
func (s *Session) Team(side int) (*core.Team, error) {
	t, ok := s.board.Team(side)
	if !ok {
		return nil, fmt.Errorf("%w %d", core.ErrUnknownSide, side)
	}
	return t, nil
}

// TeleportLocations builds the tunnel adjacency of u as seen by viewer
func (s *Session) TeleportLocations(u *core.Unit, viewer *core.Team, opts teleport.Options) (*teleport.Map, error) {
	env := teleport.Env{
		Filter:  s.FilterContext(),
		Units:   s.board,
		Tunnels: s.tunnels,
	}
	return teleport.TeleportLocations(env, u, viewer, opts)
}

// ResolveGroup evaluates a single group for u without fog or occupancy narrowing
func (s *Session) ResolveGroup(g *teleport.Group, u *core.Unit, ignoreUnits bool) teleport.Pair {
	return g.Pair(u, s.FilterContext(), ignoreUnits)
}

// UpdateFog recomputes what each team sees from the current unit positions
func (s *Session) UpdateFog() {
	core.UpdateVision(s.board.terrain, s.board.units, s.board.teams, s.visionRadius)
	for _, t := range s.board.teams {
		if !t.FogEnabled {
			continue
		}
		s.eventBus.Publish(events.NewFogUpdatedEvent(s.id, t.Side, t.VisibleCount()))
	}
}

// SetVillageOwner changes a village's owner and announces the change
func (s *Session) SetVillageOwner(c core.Coordinate, side int) error {
	from := s.board.terrain.VillageOwner(c)
	if err := s.board.terrain.SetVillageOwner(c, side); err != nil {
		return err
	}
	if from != side {
		s.eventBus.Publish(events.NewVillageOwnerChangedEvent(s.id, c, from, side))
	}
	return nil
}

// Snapshot renders the session as a save record that NewSession accepts
func (s *Session) Snapshot() *ruledata.Record {
	rec := ruledata.New()
	rec.Set("name", s.name)
	rec.Set("map", s.board.terrain.Encode())
	rec.Set("time_of_day", s.tod.CurrentTimeOfDay())
	rec.Set("schedule", strings.Join(s.tod.Schedule(), ","))
	if len(s.board.labels) > 0 {
		rec.Set("hidden_labels", strings.Join(s.board.labels, ","))
	}

	for _, t := range s.board.teams {
		rec.AddChild("side", t.Record())
	}
	for _, c := range s.board.terrain.Villages() {
		if owner := s.board.terrain.VillageOwner(c); owner != core.NeutralID {
			v := rec.AddChild("village", nil)
			v.SetInt("x", c.X)
			v.SetInt("y", c.Y)
			v.SetInt("owner", owner)
		}
	}
	for _, u := range s.board.units.All() {
		rec.AddChild("unit", u.Record())
	}
	rec.AddChild("variables", s.vars.Record())

	tunnels := s.tunnels.Record()
	for _, t := range tunnels.Children("tunnel") {
		rec.AddChild("tunnel", t)
	}
	rec.Set("next_teleport_group_id", tunnels.Str("next_teleport_group_id"))
	return rec
}

// Close ends the session. A closed session accepts no further tunnel actions.
func (s *Session) Close() error {
	if err := s.stateMachine.TransitionTo(states.PhaseEnded, "session closed"); err != nil {
		return err
	}
	ctx := s.stateMachine.GetContext()
	s.eventBus.Publish(events.NewSessionEndedEvent(s.id, ctx.Elapsed(), s.tunnels.Len()))
	s.logger.Info().
		Dur("duration", ctx.Elapsed()).
		Int("tunnels", s.tunnels.Len()).
		Msg("Session ended")
	return nil
}
