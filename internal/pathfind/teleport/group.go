// Package teleport resolves tunnel groups into the extra adjacency a
// pathfinder must honour: for a unit and an observing team it builds a map
// from source cells to the target cells reachable through some tunnel.
package teleport

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/filter"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// ReversedSuffix is appended to the id of the backward half of a named tunnel
const ReversedSuffix = "-__REVERSED__"

// IDSource hands out ids for tunnels declared without one
type IDSource interface {
	NextUniqueID() string
}

// IDFunc adapts a plain function to IDSource
type IDFunc func() string

func (f IDFunc) NextUniqueID() string { return f() }

// Pair is the resolved source and target cells of one group for one unit
type Pair struct {
	Sources mapset.Set[core.Coordinate]
	Targets mapset.Set[core.Coordinate]
}

func newPair() Pair {
	return Pair{Sources: mapset.New[core.Coordinate](), Targets: mapset.New[core.Coordinate]()}
}

// Group is one direction of a tunnel. It is immutable once built.
type Group struct {
	cfg      *ruledata.Record
	id       string
	reversed bool

	units  *filter.UnitFilter
	source *filter.RegionFilter
	target *filter.RegionFilter
}

// NewSavedGroup rebuilds a group from its persisted record. The record must
// carry id and reversed, and exactly one source, target and filter child.
func NewSavedGroup(cfg *ruledata.Record) (*Group, error) {
	for _, key := range []string{"id", "reversed"} {
		if !cfg.Has(key) {
			return nil, fmt.Errorf("tunnel: %w %q", ErrMissingKey, key)
		}
	}
	g := &Group{
		cfg:      cfg.Clone(),
		id:       cfg.Str("id"),
		reversed: cfg.Bool("reversed", false),
	}
	if err := g.compile(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewGroup builds a group from an authoring-time [tunnel] declaration.
// Without an id one is taken from ids; a reversed group of a named tunnel
// gets ReversedSuffix appended so it never collides with the forward half.
func NewGroup(cfg *ruledata.Record, reversed bool, ids IDSource) (*Group, error) {
	g := &Group{cfg: cfg.Clone(), reversed: reversed}
	if err := g.compile(); err != nil {
		return nil, err
	}
	if id := cfg.Str("id"); id != "" {
		g.id = id
		if reversed {
			g.id += ReversedSuffix
		}
	} else {
		g.id = ids.NextUniqueID()
	}
	return g, nil
}

func (g *Group) compile() error {
	for _, key := range []string{"source", "target", "filter"} {
		if n := g.cfg.ChildCount(key); n != 1 {
			return fmt.Errorf("tunnel: %w: expected exactly one [%s] child, found %d", ErrChildCount, key, n)
		}
	}

	var err error
	if g.units, err = filter.NewUnitFilter(g.cfg.ChildOrEmpty("filter")); err != nil {
		return fmt.Errorf("tunnel [filter]: %w", err)
	}
	if g.source, err = filter.NewRegionFilter(g.cfg.ChildOrEmpty("source")); err != nil {
		return fmt.Errorf("tunnel [source]: %w", err)
	}
	if g.target, err = filter.NewRegionFilter(g.cfg.ChildOrEmpty("target")); err != nil {
		return fmt.Errorf("tunnel [target]: %w", err)
	}
	return nil
}

func (g *Group) ID() string     { return g.id }
func (g *Group) Reversed() bool { return g.reversed }

// AlwaysVisible groups ignore fog on the observer's side
func (g *Group) AlwaysVisible() bool {
	return g.cfg.Bool("always_visible", false)
}

// PassAlliedUnits is false when any occupant blocks a tunnel exit
func (g *Group) PassAlliedUnits() bool {
	return g.cfg.Bool("pass_allied_units", true)
}

// AllowVision is false for tunnels that vision does not travel through
func (g *Group) AllowVision() bool {
	return g.cfg.Bool("allow_vision", true)
}

// Pair evaluates the group for u. A unit the eligibility filter rejects gets
// two empty sets. With ignoreUnits the region filters run against a context
// whose unit layer is empty; the eligibility filter never does.
func (g *Group) Pair(u *core.Unit, fc filter.Context, ignoreUnits bool) Pair {
	p := newPair()
	if !g.units.Matches(u) {
		return p
	}
	if ignoreUnits {
		fc = filter.IgnoreUnits(fc)
	}

	sources := g.source.Locations(fc, u)
	targets := g.target.Locations(fc, u)
	if g.reversed {
		sources, targets = targets, sources
	}
	p.Sources, p.Targets = sources, targets
	return p
}

// Record renders the group in its persisted form
func (g *Group) Record() *ruledata.Record {
	rec := g.cfg.Clone()
	rec.SetBool("saved", true)
	rec.SetBool("reversed", g.reversed)
	rec.Set("id", g.id)
	return rec
}
