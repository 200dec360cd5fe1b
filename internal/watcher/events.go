package watcher

import (
	"fmt"
	"log/slog"
	"time"
)

// EventKind identifies the observer that produced an event.
type EventKind string

const (
	EventStat     EventKind = "stat"
	EventCooldown EventKind = "cooldown"
	EventStatus   EventKind = "status"
	EventSlot     EventKind = "slot"

	EventSlotEquipped  EventKind = "slot_equipped"
	EventSlotAvailable EventKind = "slot_available"
)

// Event reports a value that changed between two passes.
type Event struct {
	Kind  EventKind
	Name  string
	Value int64
	Found bool
	At    time.Time
}

func (e Event) String() string {
	if !e.Found {
		return fmt.Sprintf("%s %s lost", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %s = %d", e.Kind, e.Name, e.Value)
}

func int32Value(v int32) int64 { return int64(v) }

func uint32Value(v uint32) int64 { return int64(v) }

func identity(s string) string { return s }

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// diff returns one event per key whose presence or value differs between
// old and cur.
func diff[K comparable, V comparable](kind EventKind, keys []K, old, cur map[K]V, name func(K) string, value func(V) int64) []Event {
	var out []Event
	for _, k := range keys {
		was, had := old[k]
		v, has := cur[k]
		if had != has || was != v {
			out = append(out, Event{Kind: kind, Name: name(k), Value: value(v), Found: has})
		}
	}
	return out
}

// emit sends an event (non-blocking).
func (w *Watcher) emit(e Event) {
	e.At = time.Now()
	select {
	case w.events <- e:
	default:
		slog.Debug("event dropped", "kind", e.Kind, "name", e.Name)
	}
}

// Events returns the channel of change events. Events are dropped when the
// buffer is full.
func (w *Watcher) Events() <-chan Event {
	return w.events
}
