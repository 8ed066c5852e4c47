// Package editor implements undoable map edits. Village ownership actions
// are a single tagged Action type dispatched on its Kind.
package editor

import (
	"fmt"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
)

// Kind tags what an Action does
type Kind int

const (
	// KindSetVillageOwner gives the village at Loc to Side
	KindSetVillageOwner Kind = iota
	// KindClearVillageOwner makes the village at Loc neutral
	KindClearVillageOwner
)

var kindNames = map[Kind]string{
	KindSetVillageOwner:   "village",
	KindClearVillageOwner: "village_delete",
}

// Action is one edit of a village's owner
type Action struct {
	Kind Kind
	Loc  core.Coordinate
	Side int // only used by KindSetVillageOwner
}

// SetVillageOwner builds an action giving the village at loc to side
func SetVillageOwner(loc core.Coordinate, side int) Action {
	return Action{Kind: KindSetVillageOwner, Loc: loc, Side: side}
}

// ClearVillageOwner builds an action making the village at loc neutral
func ClearVillageOwner(loc core.Coordinate) Action {
	return Action{Kind: KindClearVillageOwner, Loc: loc, Side: core.NeutralID}
}

// Name returns the action's rule-data name
func (a Action) Name() string {
	if name, ok := kindNames[a.Kind]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(a.Kind))
}

// Perform applies the action and returns the action that undoes it
func (a Action) Perform(mc *MapContext) (Action, error) {
	tile := mc.board.GetTileCoord(a.Loc)
	if tile == nil {
		return Action{}, fmt.Errorf("%s: %w: %s", a.Name(), core.ErrInvalidCoordinates, a.Loc)
	}
	if !tile.IsVillage() {
		return Action{}, fmt.Errorf("%s: %w: %s", a.Name(), core.ErrNotVillage, a.Loc)
	}

	undo := ClearVillageOwner(a.Loc)
	if !tile.IsNeutral() {
		undo = SetVillageOwner(a.Loc, tile.Owner)
	}
	if err := a.PerformWithoutUndo(mc); err != nil {
		return Action{}, err
	}
	return undo, nil
}

// PerformWithoutUndo applies the action without computing its inverse
func (a Action) PerformWithoutUndo(mc *MapContext) error {
	var side int
	switch a.Kind {
	case KindSetVillageOwner:
		if a.Side < 1 || a.Side > core.MaxSides {
			return fmt.Errorf("%s: %w %d", a.Name(), core.ErrUnknownSide, a.Side)
		}
		side = a.Side
	case KindClearVillageOwner:
		side = core.NeutralID
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, a.Name())
	}
	return mc.setOwner(a.Loc, side)
}
