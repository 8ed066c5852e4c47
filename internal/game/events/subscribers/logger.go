package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it.
// Diagnostics are always logged at least at warn level, whatever the configured level.
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("session_id", event.SessionID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	level := ls.logLevel
	if d, ok := event.(*events.DiagnosticEvent); ok {
		level = diagnosticLevel(d.Severity, level)
	}

	var logEvent *zerolog.Event
	switch level {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.SessionStartedEvent:
		logEvent.
			Str("scenario", e.Scenario).
			Int("map_width", e.MapWidth).
			Int("map_height", e.MapHeight).
			Int("sides", e.Sides).
			Int("units", e.Units).
			Int("tunnels", e.Tunnels)

	case *events.SessionEndedEvent:
		logEvent.
			Dur("duration", e.Duration).
			Int("tunnels", e.Tunnels)

	case *events.TunnelAddedEvent:
		logEvent.
			Str("tunnel_id", e.TunnelID).
			Bool("reversed", e.Reversed)

	case *events.TunnelRemovedEvent:
		logEvent.
			Str("tunnel_id", e.TunnelID).
			Int("removed", e.Removed)

	case *events.DiagnosticEvent:
		logEvent.
			Str("severity", e.Severity).
			Str("source", e.Source).
			Str("diagnostic", e.Message)

	case *events.FogUpdatedEvent:
		logEvent.
			Int("side", e.Side).
			Int("visible_cells", e.VisibleCells)

	case *events.VillageOwnerChangedEvent:
		logEvent.
			Int("x", e.Location.X).
			Int("y", e.Location.Y).
			Int("from", e.From).
			Int("to", e.To)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Session event")
}

func diagnosticLevel(severity string, configured zerolog.Level) zerolog.Level {
	want := zerolog.WarnLevel
	if severity == events.SeverityError {
		want = zerolog.ErrorLevel
	}
	if configured > want {
		return configured
	}
	return want
}
