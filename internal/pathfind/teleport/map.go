package teleport

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/filter"
)

// emptyCells backs every lookup that finds no tunnel. It is never written to.
var emptyCells = mapset.New[core.Coordinate]()

// CellView is a read-only view of a set of cells owned by a Map.
// Views of the same underlying set compare equal.
type CellView struct {
	set *mapset.Set[core.Coordinate]
}

func (v CellView) Has(c core.Coordinate) bool {
	return v.set != nil && v.set.Has(c)
}

func (v CellView) Len() int {
	if v.set == nil {
		return 0
	}
	return v.set.Size()
}

func (v CellView) Each(fn func(c core.Coordinate)) {
	if v.set != nil {
		v.set.Each(fn)
	}
}

// Sorted returns the cells in row-major order
func (v CellView) Sorted() []core.Coordinate {
	out := make([]core.Coordinate, 0, v.Len())
	v.Each(func(c core.Coordinate) { out = append(out, c) })
	core.SortCoordinates(out)
	return out
}

// Map is the tunnel adjacency seen by one observer for one unit.
// It is built fresh per query and never changes afterwards.
type Map struct {
	adjacent map[core.Coordinate]*mapset.Set[core.Coordinate]
	sources  mapset.Set[core.Coordinate]
	targets  mapset.Set[core.Coordinate]
}

// NewMap resolves every group for u as seen by viewer and accumulates the
// surviving cells. Groups sharing a source cell contribute the union of
// their targets.
func NewMap(groups []*Group, u *core.Unit, viewer *core.Team, fc filter.Context, units UnitLocator, opts Options) *Map {
	m := &Map{
		adjacent: make(map[core.Coordinate]*mapset.Set[core.Coordinate]),
		sources:  mapset.New[core.Coordinate](),
		targets:  mapset.New[core.Coordinate](),
	}

	for _, g := range groups {
		if visionGated(g, opts) {
			continue
		}
		p := narrow(g, g.Pair(u, fc, opts.IgnoreUnits), u, viewer, units, opts)

		p.Sources.Each(func(src core.Coordinate) {
			dst, ok := m.adjacent[src]
			if !ok {
				s := mapset.New[core.Coordinate]()
				dst = &s
				m.adjacent[src] = dst
			}
			p.Targets.Each(dst.Put)
		})
		p.Sources.Each(m.sources.Put)
		p.Targets.Each(m.targets.Put)
	}
	return m
}

// Adjacents returns the cells reachable through a tunnel from c.
// Cells without a tunnel all share the same empty view.
func (m *Map) Adjacents(c core.Coordinate) CellView {
	if s, ok := m.adjacent[c]; ok {
		return CellView{set: s}
	}
	return CellView{set: &emptyCells}
}

// Sources is every cell that is a source of some surviving tunnel
func (m *Map) Sources() CellView {
	return CellView{set: &m.sources}
}

// Targets is every cell that is a target of some surviving tunnel
func (m *Map) Targets() CellView {
	return CellView{set: &m.targets}
}

// Len returns how many cells have at least one tunnel entry
func (m *Map) Len() int {
	return len(m.adjacent)
}

// Entries returns the source cells with an entry, in row-major order
func (m *Map) Entries() []core.Coordinate {
	out := make([]core.Coordinate, 0, len(m.adjacent))
	for c := range m.adjacent {
		out = append(out, c)
	}
	core.SortCoordinates(out)
	return out
}
