package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"small board", 5, 5},
		{"rectangular board", 10, 20},
		{"minimum board", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard(tt.width, tt.height)

			assert.Equal(t, tt.width, board.W)
			assert.Equal(t, tt.height, board.H)
			assert.Len(t, board.T, tt.width*tt.height)

			for i, tile := range board.T {
				assert.Equal(t, NeutralID, tile.Owner, "tile %d should be neutral", i)
				assert.Equal(t, TileGrass, tile.Type, "tile %d should be grass", i)
			}
		})
	}
}

func TestParseBoard(t *testing.T) {
	data := `
		.V#
		C~M
	`
	board, err := ParseBoard(data)
	require.NoError(t, err)

	assert.Equal(t, 3, board.W)
	assert.Equal(t, 2, board.H)
	assert.Equal(t, TileVillage, board.GetTile(1, 0).Type)
	assert.Equal(t, TileWall, board.GetTile(2, 0).Type)
	assert.Equal(t, TileCave, board.GetTile(0, 1).Type)
	assert.Equal(t, TileWater, board.GetTile(1, 1).Type)
	assert.Equal(t, TileMountain, board.GetTile(2, 1).Type)
	assert.Equal(t, ".V#\nC~M", board.Encode())
}

func TestParseBoardErrors(t *testing.T) {
	_, err := ParseBoard("")
	assert.ErrorIs(t, err, ErrMapSize)

	_, err = ParseBoard("..\n...")
	assert.ErrorIs(t, err, ErrMapSize)

	_, err = ParseBoard(".x.")
	assert.ErrorIs(t, err, ErrUnknownTerrain)
}

func TestTerrainNames(t *testing.T) {
	for typ := TileGrass; typ <= TileWall; typ++ {
		parsed, err := ParseTerrainName(TerrainName(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	parsed, err := ParseTerrainName(" Cave ")
	require.NoError(t, err)
	assert.Equal(t, TileCave, parsed)

	_, err = ParseTerrainName("lava")
	assert.ErrorIs(t, err, ErrUnknownTerrain)
	assert.Equal(t, "unknown", TerrainName(99))
	assert.Equal(t, byte('?'), TerrainGlyph(-1))
}

func TestBoard_Bounds(t *testing.T) {
	board := NewBoard(4, 3)

	assert.True(t, board.InBounds(0, 0))
	assert.True(t, board.InBounds(3, 2))
	assert.False(t, board.InBounds(4, 0))
	assert.False(t, board.InBounds(0, -1))
	assert.True(t, board.InBoundsCoord(NewCoordinate(1, 1)))
	assert.Nil(t, board.GetTile(-1, 0))
	assert.Nil(t, board.GetTileCoord(NewCoordinate(0, 3)))

	board.SetTile(NewCoordinate(-1, -1), Tile{Type: TileWall}) // ignored
	board.SetTile(NewCoordinate(2, 1), Tile{Type: TileWall, Owner: NeutralID})
	assert.Equal(t, TileWall, board.GetTile(2, 1).Type)
	assert.False(t, board.GetTile(2, 1).IsPassable())

	assert.Len(t, board.Cells(), 12)
	assert.Equal(t, NewCoordinate(1, 2), board.Cells()[9])
}

func TestBoard_Villages(t *testing.T) {
	board, err := ParseBoard("V.V\n...")
	require.NoError(t, err)

	assert.Equal(t, []Coordinate{{0, 0}, {2, 0}}, board.Villages())
	assert.Equal(t, NeutralID, board.VillageOwner(NewCoordinate(0, 0)))

	require.NoError(t, board.SetVillageOwner(NewCoordinate(0, 0), 2))
	assert.Equal(t, 2, board.VillageOwner(NewCoordinate(0, 0)))
	assert.False(t, board.GetTile(0, 0).IsNeutral())

	err = board.SetVillageOwner(NewCoordinate(1, 0), 2)
	assert.ErrorIs(t, err, ErrNotVillage)

	err = board.SetVillageOwner(NewCoordinate(9, 9), 2)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	assert.Equal(t, NeutralID, board.VillageOwner(NewCoordinate(1, 0)))
}
