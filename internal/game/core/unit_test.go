package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

func TestUnitMap(t *testing.T) {
	m := NewUnitMap()
	a := NewUnit("a", "Scout", 1, NewCoordinate(1, 1))
	b := NewUnit("b", "Troll", 2, NewCoordinate(2, 2))

	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(b))
	assert.Equal(t, 2, m.Len())

	assert.ErrorIs(t, m.Add(NewUnit("c", "Scout", 1, NewCoordinate(1, 1))), ErrCellOccupied)
	assert.Error(t, m.Add(NewUnit("a", "Scout", 1, NewCoordinate(3, 3))))

	found, ok := m.Find(NewCoordinate(2, 2))
	require.True(t, ok)
	assert.Same(t, b, found)

	require.NoError(t, m.Move("a", NewCoordinate(0, 0)))
	_, ok = m.Find(NewCoordinate(1, 1))
	assert.False(t, ok)
	found, ok = m.Find(NewCoordinate(0, 0))
	require.True(t, ok)
	assert.Equal(t, "a", found.ID)

	assert.ErrorIs(t, m.Move("a", NewCoordinate(2, 2)), ErrCellOccupied)
	assert.ErrorIs(t, m.Move("zzz", NewCoordinate(5, 5)), ErrUnitNotFound)

	assert.Equal(t, []*Unit{a, b}, m.All())
	assert.True(t, m.Remove("b"))
	assert.False(t, m.Remove("b"))
	_, ok = m.FindByID("b")
	assert.False(t, ok)
}

func TestNilUnitMap(t *testing.T) {
	var m *UnitMap
	_, ok := m.Find(NewCoordinate(0, 0))
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.All())
}

func TestUnitRecordRoundTrip(t *testing.T) {
	rec, err := ruledata.Parse([]byte(`
id: mole
type: Dwarvish Digger
side: 2
x: 3
y: 4
level: 2
hidden: yes
traits: quick, strong
abilities:
  teleport:
    id: burrow
    tunnel:
      source: {terrain: cave}
      target: {terrain: cave}
      filter: {}
`))
	require.NoError(t, err)

	u, err := UnitFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, "mole", u.ID)
	assert.Equal(t, 2, u.Side)
	assert.Equal(t, NewCoordinate(3, 4), u.Loc)
	assert.Equal(t, 2, u.Level)
	assert.True(t, u.Hidden)
	assert.True(t, u.HasTrait("strong"))
	assert.False(t, u.HasTrait("resilient"))

	teleports := u.Abilities(AbilityTeleport)
	require.Len(t, teleports, 1)
	assert.Equal(t, 1, teleports[0].Config.ChildCount("tunnel"))
	assert.Empty(t, u.Abilities("heals"))

	again, err := UnitFromRecord(u.Record())
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, u.Traits, again.Traits)
	assert.Len(t, again.Abilities(AbilityTeleport), 1)
}

func TestUnitFromRecordErrors(t *testing.T) {
	_, err := UnitFromRecord(ruledata.FromMap(map[string]string{"side": "1"}))
	assert.Error(t, err)

	_, err = UnitFromRecord(ruledata.FromMap(map[string]string{"id": "x"}))
	assert.ErrorIs(t, err, ErrUnknownSide)
}
