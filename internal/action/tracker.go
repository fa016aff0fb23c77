package action

import (
	"strconv"

	"github.com/gangsheet-builders/order-actions/internal/form"
	"github.com/gangsheet-builders/order-actions/internal/sliceutil"
)

// Tracker is a read-only view of the conversation state.
type Tracker struct {
	senderID string
	state    TrackerState
}

// NewTracker wraps the tracker of req. The request's sender id wins over
// the one inside the tracker.
func NewTracker(req *Request) *Tracker {
	sender := req.SenderID
	if sender == "" {
		sender = req.Tracker.SenderID
	}
	return &Tracker{senderID: sender, state: req.Tracker}
}

// SenderID identifies the conversation.
func (t *Tracker) SenderID() string {
	return t.senderID
}

// Slot returns the current value of a slot, or nil.
func (t *Tracker) Slot(name string) any {
	return t.state.Slots[name]
}

// SlotString returns a slot as a string, or "" when unset or not a string.
func (t *Tracker) SlotString(name string) string {
	s, _ := t.state.Slots[name].(string)
	return s
}

// Values returns the order form fields held in the slots.
func (t *Tracker) Values() form.Values {
	return form.ValuesFromSlots(t.state.Slots)
}

// Events returns the tracker events.
func (t *Tracker) Events() []Event {
	return t.state.Events
}

// FormRun identifies the latest activation of a form in the conversation:
// the timestamp of the last active_loop event naming a form, or its event
// index when the host sent no timestamp. It is "" before any form started.
// Every host retry of a turn sees the same run; a new order starts a new one.
func (t *Tracker) FormRun() string {
	events := t.state.Events
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.Event != EventActiveLoop || e.Name == "" {
			continue
		}
		if e.Timestamp != nil {
			return strconv.FormatFloat(*e.Timestamp, 'f', -1, 64)
		}
		return "#" + strconv.Itoa(i)
	}
	return ""
}

// SlotCandidate is a slot value extracted in the current turn.
type SlotCandidate struct {
	Name  string
	Value any
}

// SlotsToValidate returns the slots set since the last non-slot event.
// The host appends slot candidates at the tail of the event list. Slots
// keep the order they first appear in; a slot set twice keeps the later
// value.
func (t *Tracker) SlotsToValidate() []SlotCandidate {
	events := t.state.Events
	start := len(events)
	for start > 0 && events[start-1].Event == EventSlot {
		start--
	}

	trailing := sliceutil.Collapse(events[start:], func(e Event) string { return e.Name })
	if len(trailing) == 0 {
		return nil
	}
	out := make([]SlotCandidate, 0, len(trailing))
	for _, e := range trailing {
		out = append(out, SlotCandidate{Name: e.Name, Value: e.Value})
	}
	return out
}
