package event

// Ledger is the append-mostly, chronologically ordered record of one
// match. It is owned by a single session; no internal locking.
type Ledger struct {
	events []Event
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// FromEvents rebuilds a ledger from a persisted log. The input is assumed
// to already be in chronological order.
func FromEvents(events []Event) *Ledger {
	l := &Ledger{events: make([]Event, len(events))}
	copy(l.events, events)
	return l
}

// Append adds an event to the tail of the ledger.
func (l *Ledger) Append(e Event) {
	l.events = append(l.events, e)
}

// Len returns the number of events recorded.
func (l *Ledger) Len() int {
	return len(l.events)
}

// Events returns the chronological event list. The returned slice is a
// copy; mutating it does not affect the ledger.
func (l *Ledger) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Find returns a pointer to the event with the given id, or nil. The
// pointer addresses ledger storage, so amendments through it stick.
func (l *Ledger) Find(id string) *Event {
	for i := range l.events {
		if l.events[i].ID == id {
			return &l.events[i]
		}
	}
	return nil
}

// Remove deletes the event with the given id, preserving order.
// It reports whether anything was removed.
func (l *Ledger) Remove(id string) bool {
	for i := range l.events {
		if l.events[i].ID == id {
			l.events = append(l.events[:i], l.events[i+1:]...)
			return true
		}
	}
	return false
}

// Latest returns the id of the most recently created event among those
// matching the filter. Ties on CreatedAt go to the later-appended event,
// so insertion order is the tie-break. Returns "" when nothing matches.
func (l *Ledger) Latest(match func(Event) bool) string {
	id := ""
	idx := -1
	for i := range l.events {
		if !match(l.events[i]) {
			continue
		}
		if idx < 0 || !l.events[i].CreatedAt.Before(l.events[idx].CreatedAt) {
			idx = i
			id = l.events[i].ID
		}
	}
	return id
}

// Filter returns the events matching the predicate, in chronological order.
func (l *Ledger) Filter(match func(Event) bool) []Event {
	var out []Event
	for i := range l.events {
		if match(l.events[i]) {
			out = append(out, l.events[i])
		}
	}
	return out
}

// Cards returns all card events for the side.
func (l *Ledger) Cards(side Side) []Event {
	return l.Filter(func(e Event) bool {
		return e.Type == TypeCard && e.Card.Side == side
	})
}

// Substitutions returns all substitution events for the side.
func (l *Ledger) Substitutions(side Side) []Event {
	return l.Filter(func(e Event) bool {
		return e.Type == TypeSubstitution && e.Substitution.Side == side
	})
}

// HasMarker reports whether a system event with the marker exists.
func (l *Ledger) HasMarker(m Marker) bool {
	for i := range l.events {
		if l.events[i].Type == TypeSystem && l.events[i].System.Marker == m {
			return true
		}
	}
	return false
}
