package teleport

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/events"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// MisplacedTunnelMessage is reported for authoring-form tunnels found in saved scenario data
const MisplacedTunnelMessage = "Do not use [tunnel] directly in a [scenario]. Use it in an [event] or [abilities] tag."

// Manager owns the globally registered tunnel groups of one session and the
// counter for anonymous tunnel ids. Callers serialize access.
type Manager struct {
	tunnels []*Group
	nextID  int

	logger    zerolog.Logger
	publisher events.Publisher
	sessionID string
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithDiagnostics routes rule-data diagnostics to p, tagged with sessionID
func WithDiagnostics(p events.Publisher, sessionID string) ManagerOption {
	return func(m *Manager) {
		m.publisher = p
		m.sessionID = sessionID
	}
}

// WithLogger replaces the operator-facing wml logger
func WithLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager loads the tunnels and id counter from a persisted record. A nil
// record gives an empty manager. Tunnels without the saved marker are
// reported and skipped; malformed saved tunnels fail the load.
func NewManager(cfg *ruledata.Record, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		nextID:    cfg.Int("next_teleport_group_id", 0),
		logger:    log.With().Str("component", "wml").Logger(),
		publisher: events.Discard,
	}
	for _, opt := range opts {
		opt(m)
	}

	for i, t := range cfg.Children("tunnel") {
		if !t.Bool("saved", false) {
			m.logger.Error().Int("tunnel", i).Msg(MisplacedTunnelMessage)
			m.publisher.Publish(events.NewDiagnosticEvent(m.sessionID, events.SeverityError, "wml", MisplacedTunnelMessage))
			continue
		}
		g, err := NewSavedGroup(t)
		if err != nil {
			return nil, fmt.Errorf("tunnel #%d: %w", i, err)
		}
		m.Add(g)
	}
	return m, nil
}

// Add appends a group to the registry
func (m *Manager) Add(g *Group) {
	m.tunnels = append(m.tunnels, g)
}

// Remove drops every group whose id is id or id+ReversedSuffix and returns how many went
func (m *Manager) Remove(id string) int {
	kept := m.tunnels[:0]
	removed := 0
	for _, g := range m.tunnels {
		if g.ID() == id || g.ID() == id+ReversedSuffix {
			removed++
			continue
		}
		kept = append(kept, g)
	}
	clear(m.tunnels[len(kept):])
	m.tunnels = kept
	return removed
}

// Groups returns the registered groups in insertion order
func (m *Manager) Groups() []*Group {
	return append([]*Group(nil), m.tunnels...)
}

// Len returns the number of registered groups
func (m *Manager) Len() int {
	return len(m.tunnels)
}

// NextUniqueID issues the next anonymous tunnel id. The first id is "1".
func (m *Manager) NextUniqueID() string {
	m.nextID++
	return strconv.Itoa(m.nextID)
}

// Record renders the registry and counter in persisted form
func (m *Manager) Record() *ruledata.Record {
	rec := ruledata.New()
	for _, g := range m.tunnels {
		rec.AddChild("tunnel", g.Record())
	}
	rec.SetInt("next_teleport_group_id", m.nextID)
	return rec
}
