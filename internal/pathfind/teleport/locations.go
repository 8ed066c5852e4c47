package teleport

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/filter"
)

// Env is what a tunnel query reads from the running session
type Env struct {
	Filter  filter.Context
	Units   UnitLocator
	Tunnels *Manager // may be nil
}

// AbilityGroups builds the forward groups declared by u's teleport abilities.
// Tunnels declared without an id get one derived from the unit and the
// tunnel's position so that repeated queries never consume manager ids.
func AbilityGroups(u *core.Unit) ([]*Group, error) {
	var groups []*Group
	for ai, ability := range u.Abilities(core.AbilityTeleport) {
		for ti, cfg := range ability.Config.Children("tunnel") {
			ids := IDFunc(func() string {
				return fmt.Sprintf("%s:%s:%d:%d", u.ID, core.AbilityTeleport, ai, ti)
			})
			g, err := NewGroup(cfg, false, ids)
			if err != nil {
				return nil, fmt.Errorf("unit %s ability %d: %w", u.ID, ai, err)
			}
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// TeleportLocations builds the adjacency map for u as seen by viewer from the
// unit's own tunnels followed by the globally registered ones.
func TeleportLocations(env Env, u *core.Unit, viewer *core.Team, opts Options) (*Map, error) {
	groups, err := AbilityGroups(u)
	if err != nil {
		return nil, err
	}
	if env.Tunnels != nil {
		groups = append(groups, env.Tunnels.Groups()...)
	}

	m := NewMap(groups, u, viewer, env.Filter, env.Units, opts)
	log.Debug().
		Str("component", "teleport").
		Str("unit", u.ID).
		Int("viewer", viewer.Side).
		Int("groups", len(groups)).
		Int("sources", m.Sources().Len()).
		Int("targets", m.Targets().Len()).
		Msg("Resolved tunnels")
	return m, nil
}
