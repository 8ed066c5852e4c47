package core

import (
	"fmt"
	"strings"
)

// Tile represents a single cell on the map.
// Owner is only meaningful on villages: NeutralID means unowned, otherwise a side number.
type Tile struct {
	Type  int
	Owner int
}

// Board is the terrain layer of a scenario
type Board struct {
	W, H int
	T    []Tile // length = W*H (row-major)
}

const (
	TileGrass = iota
	TileVillage
	TileMountain
	TileCave
	TileWater
	TileWall

	NeutralID = -1
)

var terrainNames = []string{
	TileGrass:    "grass",
	TileVillage:  "village",
	TileMountain: "mountain",
	TileCave:     "cave",
	TileWater:    "water",
	TileWall:     "wall",
}

var terrainGlyphs = []byte{
	TileGrass:    '.',
	TileVillage:  'V',
	TileMountain: 'M',
	TileCave:     'C',
	TileWater:    '~',
	TileWall:     '#',
}

// TerrainName returns the rule-data name of a terrain type
func TerrainName(t int) string {
	if t < 0 || t >= len(terrainNames) {
		return "unknown"
	}
	return terrainNames[t]
}

// ParseTerrainName maps a rule-data terrain name to its type
func ParseTerrainName(name string) (int, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range terrainNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTerrain, name)
}

// TerrainGlyph returns the map-data character of a terrain type
func TerrainGlyph(t int) byte {
	if t < 0 || t >= len(terrainGlyphs) {
		return '?'
	}
	return terrainGlyphs[t]
}

func terrainFromGlyph(g byte) (int, bool) {
	for t, tg := range terrainGlyphs {
		if tg == g {
			return t, true
		}
	}
	return 0, false
}

func (t *Tile) IsVillage() bool  { return t.Type == TileVillage }
func (t *Tile) IsNeutral() bool  { return t.Owner == NeutralID }
func (t *Tile) IsPassable() bool { return t.Type != TileWall && t.Type != TileWater }

func NewBoard(w, h int) *Board {
	b := &Board{W: w, H: h, T: make([]Tile, w*h)}
	for i := range b.T {
		b.T[i].Owner = NeutralID
		b.T[i].Type = TileGrass
	}
	return b
}

// ParseBoard builds a board from newline separated rows of terrain glyphs
func ParseBoard(data string) (*Board, error) {
	var rows []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMapSize)
	}

	b := NewBoard(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != b.W {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrMapSize, y, len(row), b.W)
		}
		for x := 0; x < len(row); x++ {
			t, ok := terrainFromGlyph(row[x])
			if !ok {
				return nil, fmt.Errorf("%w: glyph %q at (%d,%d)", ErrUnknownTerrain, row[x], x, y)
			}
			b.T[b.Idx(x, y)].Type = t
		}
	}
	return b, nil
}

// Encode renders the terrain back to the row format ParseBoard accepts
func (b *Board) Encode() string {
	var sb strings.Builder
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			sb.WriteByte(TerrainGlyph(b.T[b.Idx(x, y)].Type))
		}
		if y < b.H-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (b *Board) Idx(x, y int) int      { return y*b.W + x }
func (b *Board) XY(idx int) (int, int) { return idx % b.W, idx / b.W }

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// InBoundsCoord is InBounds for a Coordinate
func (b *Board) InBoundsCoord(c Coordinate) bool {
	return c.IsValid(b.W, b.H)
}

// GetTile safely returns a tile pointer if coordinates are valid, nil otherwise
func (b *Board) GetTile(x, y int) *Tile {
	if !b.InBounds(x, y) {
		return nil
	}
	return &b.T[b.Idx(x, y)]
}

// GetTileCoord is GetTile for a Coordinate
func (b *Board) GetTileCoord(c Coordinate) *Tile {
	return b.GetTile(c.X, c.Y)
}

// SetTile replaces the tile at c; out of bounds coordinates are ignored
func (b *Board) SetTile(c Coordinate, t Tile) {
	if tile := b.GetTileCoord(c); tile != nil {
		*tile = t
	}
}

// Cells returns every coordinate on the board in row-major order
func (b *Board) Cells() []Coordinate {
	cells := make([]Coordinate, 0, len(b.T))
	for i := range b.T {
		cells = append(cells, FromIndex(i, b.W))
	}
	return cells
}

// Villages returns the coordinates of all village tiles
func (b *Board) Villages() []Coordinate {
	var out []Coordinate
	for i := range b.T {
		if b.T[i].IsVillage() {
			out = append(out, FromIndex(i, b.W))
		}
	}
	return out
}

// VillageOwner returns the owning side of a village, or NeutralID
func (b *Board) VillageOwner(c Coordinate) int {
	t := b.GetTileCoord(c)
	if t == nil || !t.IsVillage() {
		return NeutralID
	}
	return t.Owner
}

// SetVillageOwner assigns a village to side (NeutralID clears ownership)
func (b *Board) SetVillageOwner(c Coordinate, side int) error {
	t := b.GetTileCoord(c)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrInvalidCoordinates, c)
	}
	if !t.IsVillage() {
		return fmt.Errorf("%w: %s", ErrNotVillage, c)
	}
	t.Owner = side
	return nil
}
