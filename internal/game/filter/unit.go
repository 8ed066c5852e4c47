package filter

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/expr-lang/expr/vm"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// UnitEnv is the environment unit filter expressions run against
type UnitEnv struct {
	ID     string
	Type   string
	Side   int
	Level  int
	Hidden bool

	traits []string
}

// HasTrait is callable from expressions
func (e UnitEnv) HasTrait(name string) bool {
	return slices.Contains(e.traits, name)
}

func newUnitEnv(u *core.Unit) UnitEnv {
	return UnitEnv{
		ID:     u.ID,
		Type:   u.Type,
		Side:   u.Side,
		Level:  u.Level,
		Hidden: u.Hidden,
		traits: u.Traits,
	}
}

// UnitFilter decides which units may use something. An empty record matches every unit.
type UnitFilter struct {
	ids   []string
	types []string
	sides []int
	src   string
	prog  *vm.Program
}

// NewUnitFilter compiles a unit filter record
func NewUnitFilter(rec *ruledata.Record) (*UnitFilter, error) {
	f := &UnitFilter{
		ids:   splitList(rec.Str("id")),
		types: splitList(rec.Str("type")),
	}
	for _, s := range splitList(rec.Str("side")) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("unit filter: bad side %q: %w", s, err)
		}
		f.sides = append(f.sides, n)
	}
	if src := rec.Str("expr"); src != "" {
		prog, err := compile(src, UnitEnv{})
		if err != nil {
			return nil, fmt.Errorf("unit filter: %w", err)
		}
		f.src, f.prog = src, prog
	}
	return f, nil
}

// Matches reports whether u passes every clause of the filter
func (f *UnitFilter) Matches(u *core.Unit) bool {
	if u == nil {
		return false
	}
	if len(f.ids) > 0 && !slices.Contains(f.ids, u.ID) {
		return false
	}
	if len(f.types) > 0 && !slices.Contains(f.types, u.Type) {
		return false
	}
	if len(f.sides) > 0 && !slices.Contains(f.sides, u.Side) {
		return false
	}
	if f.prog != nil && !run(f.prog, newUnitEnv(u), f.src) {
		return false
	}
	return true
}
