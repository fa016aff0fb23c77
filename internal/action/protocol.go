// Package action implements the dialogue host's custom action contract:
// the wire format of an action call, the tracker view and message sink
// handed to each action, and the registry that runs actions by name.
package action

// Request is one action call from the dialogue host.
type Request struct {
	NextAction string         `json:"next_action"`
	SenderID   string         `json:"sender_id"`
	Tracker    TrackerState   `json:"tracker"`
	Domain     map[string]any `json:"domain"`
	Version    string         `json:"version,omitempty"`
}

// TrackerState is the host's conversation state as sent on the wire.
type TrackerState struct {
	SenderID      string         `json:"sender_id"`
	Slots         map[string]any `json:"slots"`
	LatestMessage map[string]any `json:"latest_message"`
	Events        []Event        `json:"events"`
	ActiveLoop    map[string]any `json:"active_loop,omitempty"`
}

// Event types read by this server.
const (
	EventSlot       = "slot"
	EventActiveLoop = "active_loop" // a form started (name set) or ended
)

// Event is a tracker event. Only the fields this server reads or writes
// are modelled; everything else in incoming events is ignored.
type Event struct {
	Event     string   `json:"event"`
	Name      string   `json:"name,omitempty"`
	Value     any      `json:"value"`
	Timestamp *float64 `json:"timestamp"`
}

// SlotSet builds an event setting slot name to value. A nil value clears it.
func SlotSet(name string, value any) Event {
	return Event{Event: EventSlot, Name: name, Value: value}
}

// Message is one response for the host to deliver to the user. Exactly
// one of its fields is set.
type Message struct {
	Text     string `json:"text,omitempty"`
	Custom   any    `json:"custom,omitempty"`
	Response string `json:"response,omitempty"`
}

// Response is the reply to an action call.
type Response struct {
	Events    []Event   `json:"events"`
	Responses []Message `json:"responses"`
}

// ErrorResponse is returned with a non-2xx status.
type ErrorResponse struct {
	Error      string `json:"error"`
	ActionName string `json:"action_name,omitempty"`
}
