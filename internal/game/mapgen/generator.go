// Package mapgen builds deterministic demo scenarios: a cave map with
// villages and wall veins, a few units per side, and tunnels between caves.
package mapgen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// ErrNoRoom is returned when the map has fewer free passable cells than units to place
var ErrNoRoom = errors.New("no free passable cell")

var veinSteps = []core.Coordinate{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width        int
	Height       int
	Sides        int
	UnitsPerSide int
	CaveRatio    float64 // share of cells turned into caves
	VillageRatio float64
	WallRatio    float64
	MinVeinLen   int
	MaxVeinLen   int
	Fog          bool
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h, sides int) MapConfig {
	return MapConfig{
		Width:        w,
		Height:       h,
		Sides:        sides,
		UnitsPerSide: 2,
		CaveRatio:    0.04,
		VillageRatio: 0.05,
		WallRatio:    0.1,
		MinVeinLen:   2,
		MaxVeinLen:   max(2, w/4),
		Fog:          true,
	}
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap creates a new board with wall veins, villages and caves.
// Any non-zero cave ratio yields at least two caves so tunnels have both ends.
func (g *Generator) GenerateMap() *core.Board {
	board := core.NewBoard(g.config.Width, g.config.Height)
	area := board.W * board.H

	g.placeWalls(board, g.want(area, g.config.WallRatio, 0))
	g.scatter(board, core.TileVillage, g.want(area, g.config.VillageRatio, 1))
	g.scatter(board, core.TileCave, g.want(area, g.config.CaveRatio, 2))

	return board
}

func (g *Generator) want(area int, ratio float64, floor int) int {
	if ratio <= 0 {
		return 0
	}
	return max(floor, int(math.Round(ratio*float64(area))))
}

// placeWalls draws random-walk veins of wall until want cells are walls
func (g *Generator) placeWalls(b *core.Board, want int) {
	placed := 0
	maxAttempts := want * 10
	for attempts := 0; placed < want && attempts < maxAttempts; attempts++ {
		x, y := g.rng.Intn(b.W), g.rng.Intn(b.H)
		length := g.config.MinVeinLen
		if span := g.config.MaxVeinLen - g.config.MinVeinLen; span > 0 {
			length += g.rng.Intn(span + 1)
		}
		for i := 0; i < length && placed < want; i++ {
			t := b.GetTile(x, y)
			if t == nil {
				break
			}
			if t.Type == core.TileGrass {
				t.Type = core.TileWall
				placed++
			}
			d := veinSteps[g.rng.Intn(len(veinSteps))]
			x, y = x+d.X, y+d.Y
		}
	}
}

// scatter turns up to want random grass cells into terrain t
func (g *Generator) scatter(b *core.Board, t int, want int) {
	placed := 0
	maxAttempts := want * 20
	for attempts := 0; placed < want && attempts < maxAttempts; attempts++ {
		tile := b.GetTile(g.rng.Intn(b.W), g.rng.Intn(b.H))
		if tile.Type == core.TileGrass {
			tile.Type = t
			placed++
		}
	}
}

// PlaceUnits puts UnitsPerSide units of every side on free passable cells.
// The first unit of each side can tunnel between caves.
func (g *Generator) PlaceUnits(b *core.Board) ([]*core.Unit, error) {
	units := core.NewUnitMap()
	var placed []*core.Unit

	for side := 1; side <= g.config.Sides; side++ {
		for n := 0; n < g.config.UnitsPerSide; n++ {
			c, ok := g.freeCell(b, units)
			if !ok {
				return nil, fmt.Errorf("mapgen: %w for unit %d of side %d", ErrNoRoom, n+1, side)
			}
			u := core.NewUnit(fmt.Sprintf("s%d-u%d", side, n+1), "Footpad", side, c)
			if n == 0 {
				u.Type = "Troll Whelp"
				u.AddAbility(core.AbilityTeleport, caveAbility(side))
			}
			if err := units.Add(u); err != nil {
				return nil, err
			}
			placed = append(placed, u)
		}
	}
	return placed, nil
}

func (g *Generator) freeCell(b *core.Board, units *core.UnitMap) (core.Coordinate, bool) {
	free := func(c core.Coordinate) bool {
		_, taken := units.Find(c)
		return !taken && b.GetTileCoord(c).IsPassable()
	}
	for attempts := 0; attempts < b.W*b.H; attempts++ {
		c := core.NewCoordinate(g.rng.Intn(b.W), g.rng.Intn(b.H))
		if free(c) {
			return c, true
		}
	}
	for _, c := range b.Cells() {
		if free(c) {
			return c, true
		}
	}
	return core.Coordinate{}, false
}

// caveAbility links every cave to every unoccupied cave for one side's units
func caveAbility(side int) *ruledata.Record {
	ability := ruledata.New()
	ability.Set("id", "tunnel")
	tunnel := ability.AddChild("tunnel", nil)
	tunnel.AddChild("source", ruledata.FromMap(map[string]string{"terrain": "cave"}))
	tunnel.AddChild("target", ruledata.FromMap(map[string]string{"terrain": "cave", "expr": "!Occupied"}))
	tunnel.AddChild("filter", ruledata.FromMap(map[string]string{"side": fmt.Sprint(side)}))
	return ability
}

// GenerateScenario produces a complete scenario record: map, sides, units and
// a prestart event declaring a bidirectional road between all villages.
func (g *Generator) GenerateScenario(name string) (*ruledata.Record, error) {
	board := g.GenerateMap()
	units, err := g.PlaceUnits(board)
	if err != nil {
		return nil, err
	}

	rec := ruledata.New()
	rec.Set("name", name)
	rec.Set("map", board.Encode())
	rec.Set("time_of_day", "morning")

	for side := 1; side <= g.config.Sides; side++ {
		team := core.NewTeam(side, fmt.Sprintf("team%d", side), g.config.Fog)
		rec.AddChild("side", team.Record())
	}
	for _, u := range units {
		rec.AddChild("unit", u.Record())
	}

	event := rec.AddChild("event", nil)
	event.Set("name", "prestart")
	road := event.AddChild("tunnel", nil)
	road.Set("id", "village-road")
	road.SetBool("pass_allied_units", false)
	road.AddChild("source", ruledata.FromMap(map[string]string{"terrain": "village"}))
	road.AddChild("target", ruledata.FromMap(map[string]string{"terrain": "village"}))
	road.AddChild("filter", nil)

	return rec, nil
}
