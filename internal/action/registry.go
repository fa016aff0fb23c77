package action

import (
	"context"
	"fmt"
	"slices"

	"github.com/gangsheet-builders/order-actions/internal/errors"
)

// Action is a custom action the host can call by name.
type Action interface {
	// Name is the action name declared in the host's domain.
	Name() string

	// Run executes the action. Messages go to d; the returned events are
	// applied by the host. An error is reported to the host as a failed
	// call.
	Run(ctx context.Context, d *Dispatcher, t *Tracker, domain map[string]any) ([]Event, error)
}

// Registry holds actions by name.
type Registry struct {
	actions map[string]Action
}

// NewRegistry creates a registry holding actions. A later action replaces
// an earlier one with the same name.
func NewRegistry(actions ...Action) *Registry {
	r := &Registry{actions: make(map[string]Action, len(actions))}
	for _, a := range actions {
		r.Register(a)
	}
	return r
}

// Register adds an action.
func (r *Registry) Register(a Action) {
	r.actions[a.Name()] = a
}

// Get returns the action registered under name.
func (r *Registry) Get(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names returns the registered action names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run executes the action requested by req. It wraps errors.ErrUnknownAction
// when no such action is registered.
func (r *Registry) Run(ctx context.Context, req *Request) (*Response, error) {
	a, ok := r.Get(req.NextAction)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownAction, req.NextAction)
	}

	d := &Dispatcher{}
	events, err := a.Run(ctx, d, NewTracker(req), req.Domain)
	if err != nil {
		return nil, fmt.Errorf("action %s: %w", req.NextAction, err)
	}

	resp := &Response{Events: events, Responses: d.Messages()}
	if resp.Events == nil {
		resp.Events = []Event{}
	}
	if resp.Responses == nil {
		resp.Responses = []Message{}
	}
	return resp, nil
}
