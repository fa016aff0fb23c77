package action

// Dispatcher collects the messages an action wants shown to the user.
// It is not safe for concurrent use; each call gets its own.
type Dispatcher struct {
	messages []Message
}

// Text queues a plain text message.
func (d *Dispatcher) Text(text string) {
	d.messages = append(d.messages, Message{Text: text})
}

// Custom queues a structured payload rendered by the chat widget.
func (d *Dispatcher) Custom(payload any) {
	d.messages = append(d.messages, Message{Custom: payload})
}

// Template queues one of the host's response templates by name.
func (d *Dispatcher) Template(name string) {
	d.messages = append(d.messages, Message{Response: name})
}

// Messages returns the queued messages in order.
func (d *Dispatcher) Messages() []Message {
	return d.messages
}
