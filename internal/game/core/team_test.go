package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

func TestTeamAlliances(t *testing.T) {
	north := NewTeam(1, "north", true)
	northAlly := NewTeam(2, "north", true)
	south := NewTeam(3, "south", false)
	teams := []*Team{north, northAlly, south}
	LinkAlliances(teams)

	assert.True(t, north.IsAlly(1))
	assert.True(t, north.IsAlly(2))
	assert.False(t, north.IsEnemy(2))
	assert.True(t, north.IsEnemy(3))
	assert.True(t, south.IsEnemy(1))
	assert.False(t, south.IsEnemy(3))

	// out of range sides are neither allies nor enemies
	assert.False(t, north.IsAlly(0))
	assert.False(t, north.IsEnemy(MaxSides+1))

	found, ok := FindTeam(teams, 3)
	require.True(t, ok)
	assert.Same(t, south, found)
	_, ok = FindTeam(teams, 4)
	assert.False(t, ok)
}

func TestTeamFog(t *testing.T) {
	fogged := NewTeam(1, "a", true)
	clear := NewTeam(2, "b", false)
	c := NewCoordinate(2, 2)

	assert.True(t, fogged.Fogged(c))
	assert.False(t, clear.Fogged(c))

	fogged.ClearFog(c)
	assert.False(t, fogged.Fogged(c))
	assert.Equal(t, 1, fogged.VisibleCount())

	fogged.ResetFog()
	assert.True(t, fogged.Fogged(c))
	assert.Equal(t, 0, fogged.VisibleCount())
}

func TestUpdateVision(t *testing.T) {
	board := NewBoard(6, 6)
	units := NewUnitMap()
	require.NoError(t, units.Add(NewUnit("scout", "Scout", 1, NewCoordinate(0, 0))))
	require.NoError(t, units.Add(NewUnit("ally", "Scout", 2, NewCoordinate(5, 5))))

	one := NewTeam(1, "west", true)
	two := NewTeam(2, "west", true)
	three := NewTeam(3, "east", true)
	teams := []*Team{one, two, three}
	LinkAlliances(teams)

	UpdateVision(board, units, teams, 1)

	assert.False(t, one.Fogged(NewCoordinate(1, 1)))
	assert.True(t, one.Fogged(NewCoordinate(2, 2)))
	// allied vision is shared
	assert.False(t, one.Fogged(NewCoordinate(4, 4)))
	assert.Equal(t, 8, one.VisibleCount())
	assert.Equal(t, 8, two.VisibleCount())
	assert.Equal(t, 0, three.VisibleCount())

	UpdateVision(board, nil, teams, 1)
	assert.Equal(t, 0, one.VisibleCount())
}

func TestTeamRecord(t *testing.T) {
	team, err := TeamFromRecord(ruledata.FromMap(map[string]string{"side": "2", "fog": "yes"}))
	require.NoError(t, err)
	assert.Equal(t, "2", team.Name)
	assert.True(t, team.FogEnabled)

	again, err := TeamFromRecord(team.Record())
	require.NoError(t, err)
	assert.Equal(t, team.Side, again.Side)
	assert.Equal(t, team.Name, again.Name)

	_, err = TeamFromRecord(ruledata.FromMap(map[string]string{"side": "0"}))
	assert.ErrorIs(t, err, ErrUnknownSide)
}
