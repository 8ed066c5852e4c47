package core

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// MaxSides is bounded by the alliance bitfield width
const MaxSides = 32

// Team is one side of the scenario together with what it can currently see.
// Sides sharing a Name are allies.
type Team struct {
	Side       int
	Name       string
	FogEnabled bool

	allies  uint32 // bit side-1 set when that side is allied (own side included)
	visible mapset.Set[Coordinate]
}

// NewTeam creates a team allied only with itself
func NewTeam(side int, name string, fog bool) *Team {
	t := &Team{
		Side:       side,
		Name:       name,
		FogEnabled: fog,
		visible:    mapset.New[Coordinate](),
	}
	t.setAlly(side)
	return t
}

func (t *Team) setAlly(side int) {
	if side < 1 || side > MaxSides {
		return
	}
	t.allies |= 1 << uint(side-1)
}

// IsAlly reports whether side shares this team's alliance
func (t *Team) IsAlly(side int) bool {
	if side < 1 || side > MaxSides {
		return false
	}
	return t.allies&(1<<uint(side-1)) != 0
}

// IsEnemy is the negation of IsAlly for valid sides
func (t *Team) IsEnemy(side int) bool {
	if side < 1 || side > MaxSides {
		return false
	}
	return !t.IsAlly(side)
}

// Fogged reports whether c is hidden from this team right now
func (t *Team) Fogged(c Coordinate) bool {
	return t.FogEnabled && !t.visible.Has(c)
}

// ClearFog makes c visible to this team
func (t *Team) ClearFog(c Coordinate) {
	t.visible.Put(c)
}

// ResetFog hides every cell again
func (t *Team) ResetFog() {
	t.visible = mapset.New[Coordinate]()
}

// VisibleCount returns how many cells the team currently sees
func (t *Team) VisibleCount() int {
	return t.visible.Size()
}

// LinkAlliances recomputes ally bitfields from team names
func LinkAlliances(teams []*Team) {
	for _, t := range teams {
		t.allies = 0
		t.setAlly(t.Side)
		for _, o := range teams {
			if o != t && t.Name != "" && o.Name == t.Name {
				t.setAlly(o.Side)
			}
		}
	}
}

// TeamFromRecord builds a team from a [side] record
func TeamFromRecord(rec *ruledata.Record) (*Team, error) {
	side := rec.Int("side", 0)
	if side < 1 || side > MaxSides {
		return nil, fmt.Errorf("side: %w %q", ErrUnknownSide, rec.Str("side"))
	}
	name := rec.Str("team_name")
	if name == "" {
		name = fmt.Sprintf("%d", side)
	}
	return NewTeam(side, name, rec.Bool("fog", false)), nil
}

// Record renders the team back to a [side] record
func (t *Team) Record() *ruledata.Record {
	rec := ruledata.New()
	rec.SetInt("side", t.Side)
	rec.Set("team_name", t.Name)
	rec.SetBool("fog", t.FogEnabled)
	return rec
}

// FindTeam returns the team playing side
func FindTeam(teams []*Team, side int) (*Team, bool) {
	for _, t := range teams {
		if t.Side == side {
			return t, true
		}
	}
	return nil, false
}
