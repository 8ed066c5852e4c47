package game

import (
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/filter"
	"github.com/mitchelldurbincs/generals-tunnels/internal/pathfind/teleport"
)

// Board is the display context of a running session: terrain, units, teams
// and the hidden label categories.
type Board struct {
	terrain *core.Board
	units   *core.UnitMap
	teams   []*core.Team
	labels  []string
}

var (
	_ filter.DisplayContext = (*Board)(nil)
	_ teleport.UnitLocator  = (*Board)(nil)
)

// NewBoard bundles the layers of a scenario. teams are re-linked into alliances.
func NewBoard(terrain *core.Board, units *core.UnitMap, teams []*core.Team) *Board {
	if units == nil {
		units = core.NewUnitMap()
	}
	core.LinkAlliances(teams)
	return &Board{terrain: terrain, units: units, teams: teams}
}

func (b *Board) Units() core.UnitLookup { return b.units }
func (b *Board) Map() *core.Board       { return b.terrain }
func (b *Board) Teams() []*core.Team    { return b.teams }

// UnitMap exposes the mutable unit layer
func (b *Board) UnitMap() *core.UnitMap { return b.units }

// HiddenLabelCategories returns a copy of the hidden label list
func (b *Board) HiddenLabelCategories() []string {
	return append([]string(nil), b.labels...)
}

// WritableHiddenLabelCategories hands out the board's own label list
func (b *Board) WritableHiddenLabelCategories() (*[]string, error) {
	return &b.labels, nil
}

// Team returns the team playing side
func (b *Board) Team(side int) (*core.Team, bool) {
	return core.FindTeam(b.teams, side)
}

// FindUnit reports the unit on c regardless of who is looking
func (b *Board) FindUnit(c core.Coordinate) (*core.Unit, bool) {
	return b.units.Find(c)
}

// FindVisibleUnit reports the unit on c only if viewer can see it: the cell
// must not be fogged for viewer and hidden units are only seen by allies.
func (b *Board) FindVisibleUnit(c core.Coordinate, viewer *core.Team) (*core.Unit, bool) {
	u, ok := b.units.Find(c)
	if !ok {
		return nil, false
	}
	if viewer == nil {
		return u, true
	}
	if viewer.Fogged(c) {
		return nil, false
	}
	if u.Hidden && viewer.IsEnemy(u.Side) {
		return nil, false
	}
	return u, true
}
