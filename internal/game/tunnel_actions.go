package game

import (
	"fmt"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/events"
	"github.com/mitchelldurbincs/generals-tunnels/internal/pathfind/teleport"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// ApplyTunnelAction runs a [tunnel] action. With remove=yes the tunnel named
// by id is removed. Otherwise the tunnel is registered, together with its
// reversed twin unless bidirectional=no. An anonymous tunnel takes one
// manager id shared by both halves.
func (s *Session) ApplyTunnelAction(cfg *ruledata.Record) error {
	if phase := s.Phase(); !phase.AcceptsActions() {
		return fmt.Errorf("%w (phase %s)", ErrSessionNotRunning, phase)
	}
	return s.applyTunnel(cfg)
}

// RemoveTunnel removes both halves of the tunnel id and returns how many groups went
func (s *Session) RemoveTunnel(id string) (int, error) {
	if phase := s.Phase(); !phase.AcceptsActions() {
		return 0, fmt.Errorf("%w (phase %s)", ErrSessionNotRunning, phase)
	}
	return s.removeTunnel(id), nil
}

func (s *Session) applyTunnel(action *ruledata.Record) error {
	if action.Bool("remove", false) {
		id := action.Str("id")
		if id == "" {
			return fmt.Errorf("tunnel remove: %w %q", teleport.ErrMissingKey, "id")
		}
		s.removeTunnel(id)
		return nil
	}

	bidirectional := action.Bool("bidirectional", true)
	cfg := action.Clone()
	cfg.Unset("remove")
	cfg.Unset("bidirectional")
	if cfg.Str("id") == "" {
		cfg.Set("id", s.tunnels.NextUniqueID())
	}

	forward, err := teleport.NewGroup(cfg, false, s.tunnels)
	if err != nil {
		return err
	}
	groups := []*teleport.Group{forward}
	if bidirectional {
		backward, err := teleport.NewGroup(cfg, true, s.tunnels)
		if err != nil {
			return err
		}
		groups = append(groups, backward)
	}

	for _, g := range groups {
		s.tunnels.Add(g)
		s.eventBus.Publish(events.NewTunnelAddedEvent(s.id, g.ID(), g.Reversed()))
	}
	s.logger.Debug().
		Str("tunnel_id", forward.ID()).
		Bool("bidirectional", bidirectional).
		Msg("Tunnel added")
	return nil
}

func (s *Session) removeTunnel(id string) int {
	removed := s.tunnels.Remove(id)
	s.eventBus.Publish(events.NewTunnelRemovedEvent(s.id, id, removed))
	s.logger.Debug().
		Str("tunnel_id", id).
		Int("removed", removed).
		Msg("Tunnel removed")
	return removed
}
