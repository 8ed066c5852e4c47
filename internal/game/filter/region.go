package filter

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/expr-lang/expr/vm"
	"github.com/zyedidia/generic/mapset"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// CellEnv is the environment region filter expressions run against, one cell at a time
type CellEnv struct {
	X, Y         int
	Terrain      string
	Village      bool
	VillageOwner int
	Occupied     bool
	OccupantSide int
	UnitSide     int
	UnitX, UnitY int
	TimeOfDay    string

	vars GameData
}

// Var returns a scenario variable, or "" when unset
func (e CellEnv) Var(name string) string {
	if e.vars == nil {
		return ""
	}
	v, _ := e.vars.Variable(name)
	return v
}

// Distance is the Manhattan distance from the cell to (x, y)
func (e CellEnv) Distance(x, y int) int {
	return core.NewCoordinate(e.X, e.Y).DistanceTo(core.NewCoordinate(x, y))
}

// RegionFilter selects a set of cells. An empty record selects the whole map.
type RegionFilter struct {
	xs, ys     []intRange
	terrains   []int
	ownerSides []int
	function   string
	src        string
	prog       *vm.Program
}

// NewRegionFilter compiles a region filter record
func NewRegionFilter(rec *ruledata.Record) (*RegionFilter, error) {
	f := &RegionFilter{function: rec.Str("function")}

	var err error
	if f.xs, err = parseRanges(rec.Str("x")); err != nil {
		return nil, fmt.Errorf("region filter x: %w", err)
	}
	if f.ys, err = parseRanges(rec.Str("y")); err != nil {
		return nil, fmt.Errorf("region filter y: %w", err)
	}
	if len(f.xs) > 0 && len(f.ys) > 0 && len(f.xs) != len(f.ys) {
		return nil, fmt.Errorf("region filter: x has %d entries but y has %d", len(f.xs), len(f.ys))
	}

	for _, name := range splitList(rec.Str("terrain")) {
		t, err := core.ParseTerrainName(name)
		if err != nil {
			return nil, fmt.Errorf("region filter: %w", err)
		}
		f.terrains = append(f.terrains, t)
	}
	for _, s := range splitList(rec.Str("owner_side")) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("region filter: bad owner_side %q: %w", s, err)
		}
		f.ownerSides = append(f.ownerSides, n)
	}

	if src := rec.Str("expr"); src != "" {
		prog, err := compile(src, CellEnv{})
		if err != nil {
			return nil, fmt.Errorf("region filter: %w", err)
		}
		f.src, f.prog = src, prog
	}
	return f, nil
}

// Locations returns every cell of the context's map the filter selects for unit u
func (f *RegionFilter) Locations(fc Context, u *core.Unit) mapset.Set[core.Coordinate] {
	out := mapset.New[core.Coordinate]()
	board := fc.DisplayContext().Map()
	if board == nil {
		return out
	}
	for i := range board.T {
		c := core.FromIndex(i, board.W)
		if f.Matches(fc, u, c) {
			out.Put(c)
		}
	}
	return out
}

// Matches tests a single cell
func (f *RegionFilter) Matches(fc Context, u *core.Unit, c core.Coordinate) bool {
	dc := fc.DisplayContext()
	board := dc.Map()
	tile := board.GetTileCoord(c)
	if tile == nil {
		return false
	}

	if !f.matchesXY(c) {
		return false
	}
	if len(f.terrains) > 0 && !slices.Contains(f.terrains, tile.Type) {
		return false
	}
	if len(f.ownerSides) > 0 && !(tile.IsVillage() && slices.Contains(f.ownerSides, tile.Owner)) {
		return false
	}
	if f.function != "" {
		sk := fc.ScriptKernel()
		if sk == nil {
			return false
		}
		ok, err := sk.CallLocationFilter(f.function, c)
		if err != nil {
			filterLogger().Warn().Err(err).Str("function", f.function).Msg("Location filter function failed")
			return false
		}
		if !ok {
			return false
		}
	}
	if f.prog != nil && !run(f.prog, f.cellEnv(fc, u, c, tile), f.src) {
		return false
	}
	return true
}

func (f *RegionFilter) matchesXY(c core.Coordinate) bool {
	switch {
	case len(f.xs) > 0 && len(f.ys) > 0:
		for i := range f.xs {
			if f.xs[i].contains(c.X) && f.ys[i].contains(c.Y) {
				return true
			}
		}
		return false
	case len(f.xs) > 0:
		return slices.ContainsFunc(f.xs, func(r intRange) bool { return r.contains(c.X) })
	case len(f.ys) > 0:
		return slices.ContainsFunc(f.ys, func(r intRange) bool { return r.contains(c.Y) })
	}
	return true
}

func (f *RegionFilter) cellEnv(fc Context, u *core.Unit, c core.Coordinate, tile *core.Tile) CellEnv {
	env := CellEnv{
		X:            c.X,
		Y:            c.Y,
		Terrain:      core.TerrainName(tile.Type),
		Village:      tile.IsVillage(),
		VillageOwner: core.NeutralID,
		OccupantSide: core.NeutralID,
		UnitSide:     core.NeutralID,
		vars:         fc.GameData(),
	}
	if tile.IsVillage() {
		env.VillageOwner = tile.Owner
	}
	if occupant, ok := fc.DisplayContext().Units().Find(c); ok {
		env.Occupied = true
		env.OccupantSide = occupant.Side
	}
	if u != nil {
		env.UnitSide = u.Side
		env.UnitX, env.UnitY = u.Loc.X, u.Loc.Y
	}
	if tod := fc.TODManager(); tod != nil {
		env.TimeOfDay = tod.CurrentTimeOfDay()
	}
	return env
}
