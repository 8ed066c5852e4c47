package events

import "sync"

// Recorder is a Subscriber that keeps every event it is interested in.
// The CLI uses it to print a session summary; tests use it to assert on what was published.
type Recorder struct {
	id         string
	interested map[string]bool

	mu     sync.Mutex
	events []Event
}

// NewRecorder records the given event types, or everything when none are given
func NewRecorder(id string, eventTypes ...string) *Recorder {
	r := &Recorder{id: id}
	if len(eventTypes) > 0 {
		r.interested = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			r.interested[t] = true
		}
	}
	return r
}

func (r *Recorder) ID() string { return r.id }

func (r *Recorder) InterestedIn(eventType string) bool {
	return r.interested == nil || r.interested[eventType]
}

func (r *Recorder) HandleEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of what has been recorded so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many recorded events have the given type
func (r *Recorder) Count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}
