package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/events"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/states"
	"github.com/mitchelldurbincs/generals-tunnels/internal/pathfind/teleport"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
	"github.com/mitchelldurbincs/generals-tunnels/internal/testutil"
)

const caveScenario = `
name: caves
map: |
  C....C
  ..V...
  ...V..
  C....C
time_of_day: dusk
hidden_labels: secret
side:
  - side: 1
    team_name: north
    fog: yes
  - side: 2
    team_name: south
    fog: yes
village:
  x: 2
  y: 1
  owner: 1
unit:
  - id: troll
    type: Troll
    side: 1
    x: 0
    y: 0
    abilities:
      teleport:
        tunnel:
          source: {terrain: cave}
          target: {terrain: cave}
          filter: {}
  - id: elf
    type: Elf
    side: 2
    x: 5
    y: 3
variables:
  gate: open
event:
  - name: prestart
    tunnel:
      - id: road
        source: {terrain: village}
        target: {terrain: village}
        filter: {}
      - source: {x: 0, y: 3}
        target: {x: 5, y: 0}
        filter: {side: 1}
        bidirectional: no
  - name: victory
    tunnel:
      id: never
      source: {terrain: cave}
      target: {terrain: cave}
      filter: {}
`

var (
	nw      = core.NewCoordinate(0, 0)
	ne      = core.NewCoordinate(5, 0)
	sw      = core.NewCoordinate(0, 3)
	se      = core.NewCoordinate(5, 3)
	village = core.NewCoordinate(2, 1)
	hamlet  = core.NewCoordinate(3, 2)
)

type sessionFixture struct {
	session  *Session
	recorder *events.Recorder
}

func testConfig(bus *events.EventBus) SessionConfig {
	return SessionConfig{
		SessionID:    "test-session",
		Logger:       testutil.NopLogger(),
		EventBus:     bus,
		Fog:          true,
		VisionRadius: 1,
	}
}

func newSessionFixture(t *testing.T, src string) sessionFixture {
	t.Helper()
	bus := events.NewEventBus()
	rec := events.NewRecorder("test")
	bus.Subscribe(rec)

	s, err := NewSession(testutil.ParseRecord(t, src), testConfig(bus))
	require.NoError(t, err)
	return sessionFixture{session: s, recorder: rec}
}

func tunnelIDs(m *teleport.Manager) []string {
	var ids []string
	for _, g := range m.Groups() {
		ids = append(ids, g.ID())
	}
	return ids
}

func TestNewSession(t *testing.T) {
	f := newSessionFixture(t, caveScenario)
	s := f.session

	assert.Equal(t, "test-session", s.ID())
	assert.Equal(t, "caves", s.Name())
	assert.Equal(t, states.PhaseRunning, s.Phase())

	assert.Equal(t, 6, s.Board().Map().W)
	assert.Equal(t, 4, s.Board().Map().H)
	assert.Len(t, s.Board().Teams(), 2)
	assert.Equal(t, 2, s.Board().Units().Len())
	assert.Equal(t, 1, s.Board().Map().VillageOwner(village))
	assert.Equal(t, core.NeutralID, s.Board().Map().VillageOwner(hamlet))
	assert.Equal(t, []string{"secret"}, s.Board().HiddenLabelCategories())
	assert.Equal(t, "dusk", s.TimeOfDay().CurrentTimeOfDay())

	gate, ok := s.Variables().Variable("gate")
	assert.True(t, ok)
	assert.Equal(t, "open", gate)

	// prestart tunnels ran, the victory event did not
	assert.Equal(t, []string{"road", "road" + teleport.ReversedSuffix, "1"}, tunnelIDs(s.Tunnels()))

	assert.Equal(t, 1, f.recorder.Count(events.TypeSessionStarted))
	assert.Equal(t, 3, f.recorder.Count(events.TypeTunnelAdded))
	assert.Equal(t, 2, f.recorder.Count(events.TypeFogUpdated))
	assert.Equal(t, 2, f.recorder.Count(events.TypeStateTransition))
}

func TestNewSessionGeneratesID(t *testing.T) {
	cfg := testConfig(nil)
	cfg.SessionID = ""
	s, err := NewSession(testutil.ParseRecord(t, caveScenario), cfg)
	require.NoError(t, err)

	assert.Len(t, s.ID(), 36)
	assert.NotNil(t, s.EventBus())
	assert.NotNil(t, s.Kernel())
}

func TestNewSessionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"missing map", "name: empty\nside: {side: 1}", ErrMissingMap},
		{"bad terrain", "map: CX\nside: {side: 1}", core.ErrUnknownTerrain},
		{"unit of unknown side", "map: C.\nside: {side: 1}\nunit: {id: u, side: 2, x: 0, y: 0}", core.ErrUnknownSide},
		{"unit off the map", "map: C.\nside: {side: 1}\nunit: {id: u, side: 1, x: 4, y: 0}", core.ErrInvalidCoordinates},
		{"village on grass", "map: C.\nside: {side: 1}\nvillage: {x: 1, y: 0, owner: 1}", core.ErrNotVillage},
		{"bad time of day", "map: C.\nside: {side: 1}\ntime_of_day: noon", ErrUnknownTimeOfDay},
		{"malformed saved tunnel", "map: C.\nside: {side: 1}\ntunnel: {saved: yes, reversed: no, source: {}, target: {}, filter: {}}", teleport.ErrMissingKey},
		{"malformed event tunnel", "map: C.\nside: {side: 1}\nevent: {name: start, tunnel: {source: {}, target: {}}}", teleport.ErrChildCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := events.NewEventBus()
			transitions := events.NewRecorder("transitions", events.TypeStateTransition)
			bus.Subscribe(transitions)

			s, err := NewSession(testutil.ParseRecord(t, tt.src), testConfig(bus))
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.want)

			recorded := transitions.Events()
			require.NotEmpty(t, recorded)
			last := recorded[len(recorded)-1].(*events.StateTransitionEvent)
			assert.Equal(t, states.PhaseError.String(), last.ToPhase)
		})
	}

	_, err := NewSession(testutil.ParseRecord(t, "map: C."), testConfig(nil))
	assert.Error(t, err, "a session needs at least one side")
}

func TestNewSessionSkipsUnsavedTunnels(t *testing.T) {
	src := caveScenario + `
tunnel:
  id: raw
  source: {terrain: cave}
  target: {terrain: cave}
  filter: {}
`
	f := newSessionFixture(t, src)

	assert.NotContains(t, tunnelIDs(f.session.Tunnels()), "raw")
	require.Equal(t, 1, f.recorder.Count(events.TypeDiagnostic))
	for _, e := range f.recorder.Events() {
		if d, ok := e.(*events.DiagnosticEvent); ok {
			assert.Equal(t, teleport.MisplacedTunnelMessage, d.Message)
			assert.Equal(t, "test-session", d.SessionID())
		}
	}
}

func TestNewSessionFogDisabled(t *testing.T) {
	cfg := testConfig(nil)
	cfg.Fog = false
	s, err := NewSession(testutil.ParseRecord(t, caveScenario), cfg)
	require.NoError(t, err)

	for _, team := range s.Board().Teams() {
		assert.False(t, team.FogEnabled)
		assert.False(t, team.Fogged(hamlet))
	}
}

func TestSessionTeleportLocations(t *testing.T) {
	s := newSessionFixture(t, caveScenario).session
	troll, err := s.Unit("troll")
	require.NoError(t, err)
	elf, err := s.Unit("elf")
	require.NoError(t, err)
	north, err := s.Team(1)
	require.NoError(t, err)
	south, err := s.Team(2)
	require.NoError(t, err)

	t.Run("OwnSide", func(t *testing.T) {
		m, err := s.TeleportLocations(troll, north, teleport.Options{})
		require.NoError(t, err)

		assert.Equal(t, []core.Coordinate{nw, ne, sw, se}, m.Adjacents(nw).Sorted())
		assert.Equal(t, []core.Coordinate{nw, ne, sw, se}, m.Adjacents(sw).Sorted())
		assert.Equal(t, []core.Coordinate{village, hamlet}, m.Adjacents(hamlet).Sorted())
		assert.Equal(t, 6, m.Sources().Len())
		assert.Equal(t, 0, m.Adjacents(core.NewCoordinate(1, 1)).Len())
	})

	t.Run("EnemyUnderFog", func(t *testing.T) {
		// south only sees the two columns around its elf
		m, err := s.TeleportLocations(troll, south, teleport.Options{})
		require.NoError(t, err)
		assert.Equal(t, []core.Coordinate{se}, m.Entries())
		assert.Equal(t, []core.Coordinate{se}, m.Adjacents(se).Sorted())

		blind, err := s.TeleportLocations(elf, north, teleport.Options{})
		require.NoError(t, err)
		assert.Equal(t, 0, blind.Len())

		all, err := s.TeleportLocations(elf, north, teleport.Options{SeeAll: true})
		require.NoError(t, err)
		assert.Equal(t, []core.Coordinate{village, hamlet}, all.Entries())
	})

	t.Run("ResolveGroup", func(t *testing.T) {
		oneWay := s.Tunnels().Groups()[2]
		p := s.ResolveGroup(oneWay, troll, false)
		assert.True(t, p.Sources.Has(sw))
		assert.True(t, p.Targets.Has(ne))
		assert.Equal(t, 0, s.ResolveGroup(oneWay, elf, true).Sources.Size())
	})

	_, err = s.Unit("ghost")
	assert.ErrorIs(t, err, core.ErrUnitNotFound)
	_, err = s.Team(9)
	assert.ErrorIs(t, err, core.ErrUnknownSide)
}

func TestSessionKernelFunctions(t *testing.T) {
	kernel := NewKernel()
	kernel.Register("top_row", func(c core.Coordinate) bool { return c.Y == 0 })
	cfg := testConfig(nil)
	cfg.Kernel = kernel

	s, err := NewSession(testutil.ParseRecord(t, caveScenario), cfg)
	require.NoError(t, err)
	require.NoError(t, s.ApplyTunnelAction(testutil.ParseRecord(t, `
id: ridge
bidirectional: no
source: {function: top_row, terrain: cave}
target: {expr: 'Village && Var("gate") == "open"'}
filter: {type: Troll}
`)))

	troll, _ := s.Unit("troll")
	north, _ := s.Team(1)
	m, err := s.TeleportLocations(troll, north, teleport.Options{})
	require.NoError(t, err)
	assert.True(t, m.Adjacents(ne).Has(village))
	assert.True(t, m.Adjacents(ne).Has(hamlet))
	assert.False(t, m.Adjacents(sw).Has(hamlet))
}

func TestApplyTunnelAction(t *testing.T) {
	f := newSessionFixture(t, caveScenario)
	s := f.session
	added := f.recorder.Count(events.TypeTunnelAdded)

	anonymous := testutil.TunnelRecord("", testutil.At(0, 0), testutil.At(0, 3), nil)
	require.NoError(t, s.ApplyTunnelAction(anonymous))
	assert.Equal(t, []string{"road", "road" + teleport.ReversedSuffix, "1", "2", "2" + teleport.ReversedSuffix}, tunnelIDs(s.Tunnels()))
	assert.Equal(t, added+2, f.recorder.Count(events.TypeTunnelAdded))
	assert.False(t, anonymous.Has("id"), "the action record is not modified")

	remove := ruledata.FromMap(map[string]string{"id": "2", "remove": "yes"})
	require.NoError(t, s.ApplyTunnelAction(remove))
	assert.Equal(t, []string{"road", "road" + teleport.ReversedSuffix, "1"}, tunnelIDs(s.Tunnels()))

	n, err := s.RemoveTunnel("road")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = s.RemoveTunnel("unrelated")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 3, f.recorder.Count(events.TypeTunnelRemoved))

	err = s.ApplyTunnelAction(ruledata.FromMap(map[string]string{"remove": "yes"}))
	assert.ErrorIs(t, err, teleport.ErrMissingKey)

	broken := testutil.TunnelRecord("x", nil, nil, nil)
	broken.AddChild("source", nil)
	err = s.ApplyTunnelAction(broken)
	assert.ErrorIs(t, err, teleport.ErrChildCount)
	assert.Equal(t, []string{"1"}, tunnelIDs(s.Tunnels()))
}

func TestSessionSnapshotRoundTrip(t *testing.T) {
	s := newSessionFixture(t, caveScenario).session
	require.NoError(t, s.ApplyTunnelAction(testutil.TunnelRecord("", testutil.Terrain("cave"), testutil.Terrain("village"), nil)))
	s.TimeOfDay().Advance()
	s.Variables().Set("bridge", "down")

	data, err := ruledata.Marshal(s.Snapshot())
	require.NoError(t, err)
	saved, err := ruledata.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 0, saved.ChildCount("event"))

	restored, err := NewSession(saved, testConfig(nil))
	require.NoError(t, err)

	assert.Equal(t, tunnelIDs(s.Tunnels()), tunnelIDs(restored.Tunnels()))
	for i, g := range restored.Tunnels().Groups() {
		assert.Equal(t, s.Tunnels().Groups()[i].Reversed(), g.Reversed())
	}
	assert.Equal(t, "3", restored.Tunnels().NextUniqueID(), "the id counter survives the save")
	assert.Equal(t, s.Board().Map().Encode(), restored.Board().Map().Encode())
	assert.Equal(t, 1, restored.Board().Map().VillageOwner(village))
	assert.Equal(t, "first_watch", restored.TimeOfDay().CurrentTimeOfDay())
	bridge, _ := restored.Variables().Variable("bridge")
	assert.Equal(t, "down", bridge)
	assert.Equal(t, s.Board().HiddenLabelCategories(), restored.Board().HiddenLabelCategories())

	troll, err := restored.Unit("troll")
	require.NoError(t, err)
	assert.Len(t, troll.Abilities(core.AbilityTeleport), 1)
}

func TestSessionClose(t *testing.T) {
	f := newSessionFixture(t, caveScenario)
	s := f.session

	require.NoError(t, s.Close())
	assert.Equal(t, states.PhaseEnded, s.Phase())
	assert.Equal(t, 1, f.recorder.Count(events.TypeSessionEnded))

	err := s.ApplyTunnelAction(testutil.TunnelRecord("late", nil, nil, nil))
	assert.ErrorIs(t, err, ErrSessionNotRunning)
	_, err = s.RemoveTunnel("road")
	assert.ErrorIs(t, err, ErrSessionNotRunning)
	assert.Error(t, s.Close())

	history := s.History()
	require.NotEmpty(t, history)
	assert.Equal(t, states.PhaseEnded, history[len(history)-1].To)
}

func TestSessionUpdateFog(t *testing.T) {
	f := newSessionFixture(t, caveScenario)
	s := f.session
	north, _ := s.Team(1)

	assert.True(t, north.Fogged(hamlet))
	require.NoError(t, s.Board().UnitMap().Move("troll", village))
	s.UpdateFog()
	assert.False(t, north.Fogged(hamlet))
	assert.True(t, north.Fogged(nw), "vision follows the troll")
	assert.Equal(t, 4, f.recorder.Count(events.TypeFogUpdated))
}

func TestSessionSetVillageOwner(t *testing.T) {
	f := newSessionFixture(t, caveScenario)
	s := f.session

	require.NoError(t, s.SetVillageOwner(hamlet, 2))
	assert.Equal(t, 2, s.Board().Map().VillageOwner(hamlet))
	require.NoError(t, s.SetVillageOwner(hamlet, 2))
	assert.Equal(t, 1, f.recorder.Count(events.TypeVillageOwnerChanged), "unchanged owners are not announced")

	assert.ErrorIs(t, s.SetVillageOwner(nw, 1), core.ErrNotVillage)
}
