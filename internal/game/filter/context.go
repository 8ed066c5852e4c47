// Package filter evaluates unit eligibility and region filters against a
// read-only view of the simulation.
package filter

import (
	"errors"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
)

var (
	// ErrReadOnlyContext is returned when a writable handle is requested from a read-only context
	ErrReadOnlyContext = errors.New("writable hidden label categories not supported in this context")
	// ErrInvalidExpression is returned when a filter expression fails to compile
	ErrInvalidExpression = errors.New("invalid filter expression")
)

// DisplayContext is what a filter may read about the board
type DisplayContext interface {
	Units() core.UnitLookup
	Map() *core.Board
	Teams() []*core.Team
	HiddenLabelCategories() []string
	// WritableHiddenLabelCategories hands out the mutable list where the context allows it
	WritableHiddenLabelCategories() (*[]string, error)
}

// TODManager reports the current time of day
type TODManager interface {
	CurrentTimeOfDay() string
}

// GameData exposes scenario variables
type GameData interface {
	Variable(name string) (string, bool)
}

// ScriptKernel runs named location predicates registered by the scenario
type ScriptKernel interface {
	CallLocationFilter(name string, c core.Coordinate) (bool, error)
}

// Context is the full capability set filters are evaluated against
type Context interface {
	DisplayContext() DisplayContext
	TODManager() TODManager
	GameData() GameData
	ScriptKernel() ScriptKernel
}

// passthrough bundles existing collaborators without altering any of them
type passthrough struct {
	dc  DisplayContext
	tod TODManager
	gd  GameData
	sk  ScriptKernel
}

// NewContext returns a Context delegating to the given collaborators.
// tod, gd and sk may be nil.
func NewContext(dc DisplayContext, tod TODManager, gd GameData, sk ScriptKernel) Context {
	return passthrough{dc: dc, tod: tod, gd: gd, sk: sk}
}

func (p passthrough) DisplayContext() DisplayContext { return p.dc }
func (p passthrough) TODManager() TODManager         { return p.tod }
func (p passthrough) GameData() GameData             { return p.gd }
func (p passthrough) ScriptKernel() ScriptKernel     { return p.sk }

// noUnits is a unit layer with nobody on it
type noUnits struct{}

func (noUnits) Find(core.Coordinate) (*core.Unit, bool) { return nil, false }
func (noUnits) FindByID(string) (*core.Unit, bool)      { return nil, false }
func (noUnits) Len() int                                { return 0 }
func (noUnits) All() []*core.Unit                       { return nil }

// ignoreUnitsDisplay reports an empty unit layer and forwards everything else
type ignoreUnitsDisplay struct {
	inner DisplayContext
}

func (d ignoreUnitsDisplay) Units() core.UnitLookup          { return noUnits{} }
func (d ignoreUnitsDisplay) Map() *core.Board                { return d.inner.Map() }
func (d ignoreUnitsDisplay) Teams() []*core.Team             { return d.inner.Teams() }
func (d ignoreUnitsDisplay) HiddenLabelCategories() []string { return d.inner.HiddenLabelCategories() }

func (d ignoreUnitsDisplay) WritableHiddenLabelCategories() (*[]string, error) {
	return nil, ErrReadOnlyContext
}

type ignoreUnitsContext struct {
	dc ignoreUnitsDisplay
	fc Context
}

// IgnoreUnits wraps fc so that region filters cannot see where units stand.
// The wrapper holds no state of its own; build one per use.
func IgnoreUnits(fc Context) Context {
	return ignoreUnitsContext{dc: ignoreUnitsDisplay{inner: fc.DisplayContext()}, fc: fc}
}

func (c ignoreUnitsContext) DisplayContext() DisplayContext { return c.dc }
func (c ignoreUnitsContext) TODManager() TODManager         { return c.fc.TODManager() }
func (c ignoreUnitsContext) GameData() GameData             { return c.fc.GameData() }
func (c ignoreUnitsContext) ScriptKernel() ScriptKernel     { return c.fc.ScriptKernel() }
