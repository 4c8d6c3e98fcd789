package memory

import audit "protocolo/pkg/platform/audit"

// ring is a bounded buffer of audit events. When full, the oldest event is
// dropped to make room. Callers hold the store lock.
type ring struct {
	events   []audit.Event
	head     int // next write position
	count    int
	capacity int
	dropped  int64
}

func newRing(capacity int) *ring {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &ring{events: make([]audit.Event, capacity), capacity: capacity}
}

func (r *ring) push(event audit.Event) {
	if r.count == r.capacity {
		r.dropped++
	} else {
		r.count++
	}
	r.events[r.head] = event
	r.head = (r.head + 1) % r.capacity
}

// snapshot returns the buffered events oldest first.
func (r *ring) snapshot() []audit.Event {
	out := make([]audit.Event, 0, r.count)
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		out = append(out, r.events[(start+i)%r.capacity])
	}
	return out
}
