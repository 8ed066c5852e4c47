package game

import (
	"fmt"
	"slices"
)

// DefaultSchedule is the six-step day used when a scenario declares none
var DefaultSchedule = []string{"dawn", "morning", "afternoon", "dusk", "first_watch", "second_watch"}

// TimeOfDay steps through a fixed daily schedule
type TimeOfDay struct {
	schedule []string
	current  int
}

// NewTimeOfDay starts at the first entry of schedule, or DefaultSchedule when empty
func NewTimeOfDay(schedule []string) *TimeOfDay {
	if len(schedule) == 0 {
		schedule = DefaultSchedule
	}
	return &TimeOfDay{schedule: slices.Clone(schedule)}
}

// CurrentTimeOfDay implements filter.TODManager
func (t *TimeOfDay) CurrentTimeOfDay() string {
	return t.schedule[t.current]
}

// Set jumps to the named time of day
func (t *TimeOfDay) Set(name string) error {
	i := slices.Index(t.schedule, name)
	if i < 0 {
		return fmt.Errorf("%w %q", ErrUnknownTimeOfDay, name)
	}
	t.current = i
	return nil
}

// Advance moves to the next step, wrapping after the last one
func (t *TimeOfDay) Advance() string {
	t.current = (t.current + 1) % len(t.schedule)
	return t.CurrentTimeOfDay()
}

// Schedule returns a copy of the schedule
func (t *TimeOfDay) Schedule() []string {
	return slices.Clone(t.schedule)
}
