package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// AbilityTeleport is the ability kind whose [tunnel] children declare per-unit tunnels
const AbilityTeleport = "teleport"

// Ability is a named ability block attached to a unit, kept as raw rule data
type Ability struct {
	Kind   string
	Config *ruledata.Record
}

// Unit is a single unit standing on the board
type Unit struct {
	ID     string
	Type   string
	Side   int
	Loc    Coordinate
	Level  int
	Hidden bool // only visible to allies
	Traits []string

	abilities []Ability
}

// NewUnit creates a level 1 unit with no traits or abilities
func NewUnit(id, unitType string, side int, loc Coordinate) *Unit {
	return &Unit{ID: id, Type: unitType, Side: side, Loc: loc, Level: 1}
}

// AddAbility attaches an ability block to the unit
func (u *Unit) AddAbility(kind string, cfg *ruledata.Record) {
	u.abilities = append(u.abilities, Ability{Kind: kind, Config: cfg})
}

// Abilities returns the ability blocks of the given kind
func (u *Unit) Abilities(kind string) []Ability {
	var out []Ability
	for _, a := range u.abilities {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// HasTrait reports whether the unit carries the named trait
func (u *Unit) HasTrait(name string) bool {
	for _, t := range u.Traits {
		if t == name {
			return true
		}
	}
	return false
}

// UnitFromRecord builds a unit from its [unit] rule data
func UnitFromRecord(rec *ruledata.Record) (*Unit, error) {
	if !rec.Has("id") {
		return nil, fmt.Errorf("unit: missing mandatory key %q", "id")
	}
	side := rec.Int("side", 0)
	if side < 1 {
		return nil, fmt.Errorf("unit %s: %w %q", rec.Str("id"), ErrUnknownSide, rec.Str("side"))
	}

	u := NewUnit(rec.Str("id"), rec.Str("type"), side, NewCoordinate(rec.Int("x", 0), rec.Int("y", 0)))
	u.Level = rec.Int("level", 1)
	u.Hidden = rec.Bool("hidden", false)
	if traits := rec.Str("traits"); traits != "" {
		for _, t := range strings.Split(traits, ",") {
			if t = strings.TrimSpace(t); t != "" {
				u.Traits = append(u.Traits, t)
			}
		}
	}

	abilities := rec.ChildOrEmpty("abilities")
	for _, kind := range abilities.ChildKeys() {
		for _, a := range abilities.Children(kind) {
			u.AddAbility(kind, a.Clone())
		}
	}
	return u, nil
}

// Record renders the unit back to rule data
func (u *Unit) Record() *ruledata.Record {
	rec := ruledata.New()
	rec.Set("id", u.ID)
	rec.Set("type", u.Type)
	rec.SetInt("side", u.Side)
	rec.SetInt("x", u.Loc.X)
	rec.SetInt("y", u.Loc.Y)
	rec.SetInt("level", u.Level)
	rec.SetBool("hidden", u.Hidden)
	if len(u.Traits) > 0 {
		rec.Set("traits", strings.Join(u.Traits, ","))
	}
	if len(u.abilities) > 0 {
		abilities := rec.AddChild("abilities", nil)
		for _, a := range u.abilities {
			abilities.AddChild(a.Kind, a.Config.Clone())
		}
	}
	return rec
}

// UnitLookup is the read-only view of a unit layer
type UnitLookup interface {
	Find(c Coordinate) (*Unit, bool)
	FindByID(id string) (*Unit, bool)
	Len() int
	All() []*Unit
}

// UnitMap indexes units by location and id
type UnitMap struct {
	byLoc map[Coordinate]*Unit
	byID  map[string]*Unit
}

func NewUnitMap() *UnitMap {
	return &UnitMap{
		byLoc: make(map[Coordinate]*Unit),
		byID:  make(map[string]*Unit),
	}
}

// Add places a unit; the cell must be free and the id unused
func (m *UnitMap) Add(u *Unit) error {
	if _, ok := m.byLoc[u.Loc]; ok {
		return fmt.Errorf("%w: %s", ErrCellOccupied, u.Loc)
	}
	if _, ok := m.byID[u.ID]; ok {
		return fmt.Errorf("duplicate unit id %q", u.ID)
	}
	m.byLoc[u.Loc] = u
	m.byID[u.ID] = u
	return nil
}

func (m *UnitMap) Find(c Coordinate) (*Unit, bool) {
	if m == nil {
		return nil, false
	}
	u, ok := m.byLoc[c]
	return u, ok
}

func (m *UnitMap) FindByID(id string) (*Unit, bool) {
	if m == nil {
		return nil, false
	}
	u, ok := m.byID[id]
	return u, ok
}

// Move relocates a unit to a free cell
func (m *UnitMap) Move(id string, to Coordinate) error {
	u, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnitNotFound, id)
	}
	if other, ok := m.byLoc[to]; ok && other != u {
		return fmt.Errorf("%w: %s", ErrCellOccupied, to)
	}
	delete(m.byLoc, u.Loc)
	u.Loc = to
	m.byLoc[to] = u
	return nil
}

// Remove deletes a unit, reporting whether it existed
func (m *UnitMap) Remove(id string) bool {
	u, ok := m.byID[id]
	if !ok {
		return false
	}
	delete(m.byID, id)
	delete(m.byLoc, u.Loc)
	return true
}

func (m *UnitMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byID)
}

// All returns the units sorted by id
func (m *UnitMap) All() []*Unit {
	if m == nil {
		return nil
	}
	out := make([]*Unit, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
