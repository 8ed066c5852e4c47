package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/generals-tunnels/internal/pathfind/teleport"
	"github.com/mitchelldurbincs/generals-tunnels/internal/testutil"
)

func TestRenderTunnels(t *testing.T) {
	s := newSessionFixture(t, caveScenario).session
	troll, _ := s.Unit("troll")
	elf, _ := s.Unit("elf")
	north, _ := s.Team(1)

	m, err := s.TeleportLocations(troll, north, teleport.Options{})
	require.NoError(t, err)

	lines := strings.Split(RenderTunnels(s.Board().Map(), m), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "    0 1 2 3 4 5", lines[0])
	assert.Equal(t, " 0  B . . . . B", lines[1])
	assert.Equal(t, " 1  . . B . . .", lines[2])
	assert.Equal(t, " 2  . . . B . .", lines[3])
	assert.Equal(t, " 3  B . . . . B", lines[4])

	// a one-way tunnel marks its ends separately
	lane := testutil.TunnelRecord("lane", testutil.At(1, 1), testutil.At(2, 1), nil)
	lane.SetBool("bidirectional", false)
	require.NoError(t, s.ApplyTunnelAction(lane))
	m, err = s.TeleportLocations(elf, north, teleport.Options{SeeAll: true})
	require.NoError(t, err)
	lines = strings.Split(RenderTunnels(s.Board().Map(), m), "\n")
	assert.Equal(t, " 1  . S B . . .", lines[2])
	assert.Equal(t, " 2  . . . B . .", lines[3])
}

func TestFormatAdjacency(t *testing.T) {
	s := newSessionFixture(t, caveScenario).session
	elf, _ := s.Unit("elf")
	north, _ := s.Team(1)

	m, err := s.TeleportLocations(elf, north, teleport.Options{SeeAll: true})
	require.NoError(t, err)
	assert.Equal(t, "(2,1) -> (2,1), (3,2)\n(3,2) -> (2,1), (3,2)\n", FormatAdjacency(m))
}
