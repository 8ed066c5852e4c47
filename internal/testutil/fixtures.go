package testutil

import (
	"strconv"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// CaveRows is a 6x4 map with caves at (0,0), (5,0), (0,3) and (5,3)
const CaveRows = `
C....C
..V...
...V..
C....C`

// TunnelRecord builds an authoring-form [tunnel] with the given filters.
// A nil map yields an empty child.
func TunnelRecord(id string, source, target, units map[string]string) *ruledata.Record {
	rec := ruledata.New()
	if id != "" {
		rec.Set("id", id)
	}
	rec.AddChild("source", ruledata.FromMap(source))
	rec.AddChild("target", ruledata.FromMap(target))
	rec.AddChild("filter", ruledata.FromMap(units))
	return rec
}

// At selects a single cell in a region filter
func At(x, y int) map[string]string {
	return map[string]string{"x": strconv.Itoa(x), "y": strconv.Itoa(y)}
}

// Terrain selects every cell of a terrain type
func Terrain(name string) map[string]string {
	return map[string]string{"terrain": name}
}

// Enemies returns side 1 and side 2 on different teams
func Enemies(fog bool) []*core.Team {
	teams := []*core.Team{core.NewTeam(1, "north", fog), core.NewTeam(2, "south", fog)}
	core.LinkAlliances(teams)
	return teams
}

// Allies returns side 1 and side 2 on the same team
func Allies(fog bool) []*core.Team {
	teams := []*core.Team{core.NewTeam(1, "north", fog), core.NewTeam(2, "north", fog)}
	core.LinkAlliances(teams)
	return teams
}
