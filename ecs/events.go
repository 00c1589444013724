package ecs

// EventKind identifies gameplay events raised by systems.
type EventKind string

const (
	EventBehaviourChanged EventKind = "behaviour_changed"
	EventProjectileFired  EventKind = "projectile_fired"
	EventProjectileHit    EventKind = "projectile_hit"
	EventPlayerJumped     EventKind = "player_jumped"
)

// Event is a generic ECS event payload.
type Event struct {
	Kind   EventKind
	Entity Entity
	Frame  uint64
	Data   any
}

// EventQueue is a simple FIFO queue. Events live until drained or until the
// scheduler finishes the frame.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
