package main

import "time"

// Discrete simulation events exposed to the audio/haptics and persistence
// collaborators. The core only publishes; encoding is the consumer's problem.
const (
	EvPickup  = "pickup"
	EvScore   = "score"
	EvHit     = "hit"
	EvDeath   = "death"
	EvRespawn = "respawn"
	EvFlag    = "flag"
)

// Event is one discrete signal out of the simulation
type Event struct {
	Kind     string
	MatchID  string
	PlayerID string
	Team     int
	Pos      Vec3
	Data     string // optional JSON metadata
	At       time.Time
}

// EventFeed is an opaque one-way signal channel. Publish never blocks the
// tick: when the buffer is full the event is dropped.
type EventFeed struct {
	ch chan Event
}

func NewEventFeed(buf int) *EventFeed {
	return &EventFeed{ch: make(chan Event, buf)}
}

// Publish enqueues an event without blocking
func (f *EventFeed) Publish(e Event) {
	if f == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case f.ch <- e:
	default:
		// Full — drop rather than stall the game loop
	}
}

// Events returns the consumer side of the feed
func (f *EventFeed) Events() <-chan Event {
	return f.ch
}
