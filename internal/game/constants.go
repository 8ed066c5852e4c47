package game

import (
	"errors"

	"github.com/mitchelldurbincs/generals-tunnels/internal/config"
)

var (
	ErrUnknownTimeOfDay  = errors.New("unknown time of day")
	ErrUnknownFunction   = errors.New("unknown location function")
	ErrMissingMap        = errors.New("scenario has no map")
	ErrSessionNotRunning = errors.New("session is not running")
)

// Event names whose [tunnel] children run while the scenario loads
var loadEvents = []string{"prestart", "start"}

// Fog settings
func FogEnabled() bool {
	return config.Get().Fog.Enabled
}

func VisionRadius() int {
	return config.Get().Fog.VisionRadius
}
