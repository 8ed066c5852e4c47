package game

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// Variables holds the scenario variables filters can read through Var(name)
type Variables struct {
	values map[string]string
}

// NewVariables copies the attributes of a [variables] record
func NewVariables(rec *ruledata.Record) *Variables {
	v := &Variables{values: make(map[string]string)}
	for _, k := range rec.Keys() {
		v.values[k] = rec.Str(k)
	}
	return v
}

// Variable implements filter.GameData
func (v *Variables) Variable(name string) (string, bool) {
	s, ok := v.values[name]
	return s, ok
}

func (v *Variables) Set(name, value string) {
	v.values[name] = value
}

func (v *Variables) Unset(name string) {
	delete(v.values, name)
}

// Record renders the variables as a [variables] record
func (v *Variables) Record() *ruledata.Record {
	rec := ruledata.New()
	for _, k := range slices.Sorted(maps.Keys(v.values)) {
		rec.Set(k, v.values[k])
	}
	return rec
}

// LocationFunc is a named predicate region filters can call through function=
type LocationFunc func(c core.Coordinate) bool

// Kernel is the registry of location functions for one session
type Kernel struct {
	funcs map[string]LocationFunc
}

func NewKernel() *Kernel {
	return &Kernel{funcs: make(map[string]LocationFunc)}
}

// Register adds or replaces a location function
func (k *Kernel) Register(name string, fn LocationFunc) {
	k.funcs[name] = fn
}

// CallLocationFilter implements filter.ScriptKernel
func (k *Kernel) CallLocationFilter(name string, c core.Coordinate) (bool, error) {
	fn, ok := k.funcs[name]
	if !ok {
		return false, fmt.Errorf("%w %q", ErrUnknownFunction, name)
	}
	return fn(c), nil
}
