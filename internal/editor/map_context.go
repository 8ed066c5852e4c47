package editor

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/events"
)

var (
	ErrUnknownAction = errors.New("unknown editor action")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// MapContext is the map being edited together with its undo and redo stacks
type MapContext struct {
	board *core.Board
	undo  []Action
	redo  []Action

	publisher events.Publisher
	sessionID string
	logger    zerolog.Logger
}

// NewMapContext edits board. Ownership changes are published to p, which may be nil.
func NewMapContext(board *core.Board, p events.Publisher, sessionID string) *MapContext {
	if p == nil {
		p = events.Discard
	}
	return &MapContext{
		board:     board,
		publisher: p,
		sessionID: sessionID,
		logger:    log.With().Str("component", "editor").Logger(),
	}
}

func (mc *MapContext) Board() *core.Board { return mc.board }
func (mc *MapContext) CanUndo() bool      { return len(mc.undo) > 0 }
func (mc *MapContext) CanRedo() bool      { return len(mc.redo) > 0 }

// Apply performs a and records its inverse. Any redo history is dropped.
func (mc *MapContext) Apply(a Action) error {
	inverse, err := a.Perform(mc)
	if err != nil {
		return err
	}
	mc.undo = append(mc.undo, inverse)
	mc.redo = mc.redo[:0]
	return nil
}

// Undo reverts the most recent action
func (mc *MapContext) Undo() error {
	if len(mc.undo) == 0 {
		return ErrNothingToUndo
	}
	a := mc.undo[len(mc.undo)-1]
	inverse, err := a.Perform(mc)
	if err != nil {
		return err
	}
	mc.undo = mc.undo[:len(mc.undo)-1]
	mc.redo = append(mc.redo, inverse)
	return nil
}

// Redo reapplies the most recently undone action
func (mc *MapContext) Redo() error {
	if len(mc.redo) == 0 {
		return ErrNothingToRedo
	}
	a := mc.redo[len(mc.redo)-1]
	inverse, err := a.Perform(mc)
	if err != nil {
		return err
	}
	mc.redo = mc.redo[:len(mc.redo)-1]
	mc.undo = append(mc.undo, inverse)
	return nil
}

func (mc *MapContext) setOwner(c core.Coordinate, side int) error {
	from := mc.board.VillageOwner(c)
	if err := mc.board.SetVillageOwner(c, side); err != nil {
		return err
	}
	if from == side {
		return nil
	}
	mc.logger.Debug().
		Str("location", c.String()).
		Int("from", from).
		Int("to", side).
		Msg("Village owner changed")
	mc.publisher.Publish(events.NewVillageOwnerChangedEvent(mc.sessionID, c, from, side))
	return nil
}
