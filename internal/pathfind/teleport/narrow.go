package teleport

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
)

// Options are the observer flags of one query
type Options struct {
	// SeeAll bypasses fog and looks units up with full knowledge
	SeeAll bool
	// IgnoreUnits resolves geometry as if the board had no units on it
	IgnoreUnits bool
	// CheckVision asks for the tunnels vision travels through
	CheckVision bool
}

// UnitLocator answers occupancy questions for the blocking rule
type UnitLocator interface {
	FindUnit(c core.Coordinate) (*core.Unit, bool)
	// FindVisibleUnit only reports units viewer can currently see
	FindVisibleUnit(c core.Coordinate, viewer *core.Team) (*core.Unit, bool)
}

// visionGated reports whether g must be skipped entirely for this query
func visionGated(g *Group, opts Options) bool {
	return opts.CheckVision && !g.AllowVision()
}

// needsFogFilter is true when the observer only gets to see what is not fogged
func needsFogFilter(g *Group, u *core.Unit, viewer *core.Team, opts Options) bool {
	return !opts.SeeAll && !g.AlwaysVisible() && viewer.IsEnemy(u.Side)
}

// withoutFogged returns the cells of s that viewer can see
func withoutFogged(s mapset.Set[core.Coordinate], viewer *core.Team) mapset.Set[core.Coordinate] {
	out := mapset.New[core.Coordinate]()
	s.Each(func(c core.Coordinate) {
		if !viewer.Fogged(c) {
			out.Put(c)
		}
	})
	return out
}

// narrowFog drops fogged cells from both halves independently
func narrowFog(p Pair, viewer *core.Team) Pair {
	return Pair{
		Sources: withoutFogged(p.Sources, viewer),
		Targets: withoutFogged(p.Targets, viewer),
	}
}

// blocksOccupied reports whether occupied exits must be removed for this group
func blocksOccupied(g *Group, opts Options) bool {
	return !g.PassAlliedUnits() && !opts.IgnoreUnits && !opts.CheckVision
}

// withoutOccupied returns the targets nobody stands on. Without SeeAll only
// units visible to viewer count.
func withoutOccupied(targets mapset.Set[core.Coordinate], units UnitLocator, viewer *core.Team, seeAll bool) mapset.Set[core.Coordinate] {
	out := mapset.New[core.Coordinate]()
	targets.Each(func(c core.Coordinate) {
		var occupied bool
		if seeAll {
			_, occupied = units.FindUnit(c)
		} else {
			_, occupied = units.FindVisibleUnit(c, viewer)
		}
		if !occupied {
			out.Put(c)
		}
	})
	return out
}

// narrow applies the fog and occupancy policies to one resolved pair
func narrow(g *Group, p Pair, u *core.Unit, viewer *core.Team, units UnitLocator, opts Options) Pair {
	if needsFogFilter(g, u, viewer, opts) {
		p = narrowFog(p, viewer)
	}
	if blocksOccupied(g, opts) && units != nil {
		p.Targets = withoutOccupied(p.Targets, units, viewer, opts.SeeAll)
	}
	return p
}
