package action

import (
	"context"
	"strings"

	"github.com/gangsheet-builders/order-actions/internal/form"
	"github.com/gangsheet-builders/order-actions/internal/metrics"
	"github.com/gangsheet-builders/order-actions/internal/order"
	"github.com/gangsheet-builders/order-actions/internal/quote"
)

// Action names declared in the host's domain.
const (
	NameGetPrice     = "action_get_price"
	NameValidateForm = "validate_order_form"
	NameSubmitOrder  = "action_submit_order_to_api"
	NameCancelOrder  = "action_cancel_order"
	NameAskSheetSize = "action_ask_sheet_size"
)

// Response templates for the size prompt.
const (
	TemplateAskSizeUV  = "utter_ask_sheet_size_uv"
	TemplateAskSizeDTF = "utter_ask_sheet_size_dtf"
)

// MsgOrderCancelled is sent by the cancel action.
const MsgOrderCancelled = "OK, I've cancelled this order. What can I help you with next?"

// Submitter is the order submission step.
type Submitter interface {
	Submit(ctx context.Context, sub order.Submission) order.Outcome
}

// Deps are what the standard actions need.
type Deps struct {
	Form      *form.Form
	Quotes    *quote.Engine
	Submitter Submitter
	Metrics   *metrics.Metrics // optional
}

// Standard returns the shop's actions.
func Standard(deps Deps) []Action {
	return []Action{
		&GetPrice{quotes: deps.Quotes, metrics: deps.Metrics},
		&ValidateOrderForm{form: deps.Form, metrics: deps.Metrics},
		&SubmitOrder{submitter: deps.Submitter},
		&CancelOrder{metrics: deps.Metrics},
		AskSheetSize{},
	}
}

// slotEvents turns form updates into slot events.
func slotEvents(updates []form.Update) []Event {
	events := make([]Event, 0, len(updates))
	for _, u := range updates {
		events = append(events, SlotSet(u.Field.Slot(), u.Value))
	}
	return events
}

// GetPrice answers price questions from the product and size slots.
type GetPrice struct {
	quotes  *quote.Engine
	metrics *metrics.Metrics
}

func (a *GetPrice) Name() string { return NameGetPrice }

func (a *GetPrice) Run(_ context.Context, d *Dispatcher, t *Tracker, _ map[string]any) ([]Event, error) {
	v := t.Values()
	reply := a.quotes.Quote(v.String(form.FieldProduct), v.String(form.FieldSize))
	if a.metrics != nil {
		a.metrics.RecordQuote(string(reply.Kind))
	}
	if reply.Menu != nil {
		d.Custom(reply.Menu)
		return nil, nil
	}
	d.Text(reply.Text)
	return nil, nil
}

// ValidateOrderForm validates the slots extracted this turn and tells the
// host which field to ask for next.
type ValidateOrderForm struct {
	form    *form.Form
	metrics *metrics.Metrics
}

func (a *ValidateOrderForm) Name() string { return NameValidateForm }

func (a *ValidateOrderForm) Run(_ context.Context, d *Dispatcher, t *Tracker, _ map[string]any) ([]Event, error) {
	var (
		candidates  []form.Candidate
		passThrough []Event
	)
	for _, c := range t.SlotsToValidate() {
		if c.Name == form.RequestedSlot {
			continue
		}
		f, ok := form.FieldForSlot(c.Name)
		if !ok {
			passThrough = append(passThrough, SlotSet(c.Name, c.Value))
			continue
		}
		candidates = append(candidates, form.Candidate{Field: f, Value: c.Value})
	}

	turn := a.form.Process(t.Values(), candidates)
	for _, msg := range turn.Messages {
		d.Text(msg)
	}
	if a.metrics != nil {
		for _, f := range turn.Rejected {
			a.metrics.RecordValidationRejection(f.Slot())
		}
		if turn.Cancelled {
			a.metrics.RecordCancellation()
		}
	}

	events := append(passThrough, slotEvents(turn.Updates)...)
	var requested any
	if turn.Requested != nil {
		requested = turn.Requested.Slot()
	}
	return append(events, SlotSet(form.RequestedSlot, requested)), nil
}

// SubmitOrder sends the completed form to the order system.
type SubmitOrder struct {
	submitter Submitter
}

func (a *SubmitOrder) Name() string { return NameSubmitOrder }

func (a *SubmitOrder) Run(ctx context.Context, d *Dispatcher, t *Tracker, _ map[string]any) ([]Event, error) {
	d.Text(order.AckMessage)
	out := a.submitter.Submit(ctx, order.Submission{
		SenderID: t.SenderID(),
		FormRun:  t.FormRun(),
		Values:   t.Values(),
	})
	for _, msg := range out.Messages {
		d.Text(msg)
	}
	return slotEvents(out.Updates), nil
}

// CancelOrder abandons the order in progress.
type CancelOrder struct {
	metrics *metrics.Metrics
}

func (a *CancelOrder) Name() string { return NameCancelOrder }

func (a *CancelOrder) Run(_ context.Context, d *Dispatcher, _ *Tracker, _ map[string]any) ([]Event, error) {
	d.Text(MsgOrderCancelled)
	if a.metrics != nil {
		a.metrics.RecordCancellation()
	}
	return slotEvents(form.ClearAll()), nil
}

// AskSheetSize prompts with the size list matching the product family.
type AskSheetSize struct{}

func (AskSheetSize) Name() string { return NameAskSheetSize }

func (AskSheetSize) Run(_ context.Context, d *Dispatcher, t *Tracker, _ map[string]any) ([]Event, error) {
	v := t.Values()
	product := strings.ToLower(v.String(form.FieldProduct))
	category := strings.ToLower(v.String(form.FieldCategory))
	if strings.Contains(product, "uv") || strings.Contains(category, "uv") {
		d.Template(TemplateAskSizeUV)
	} else {
		d.Template(TemplateAskSizeDTF)
	}
	return nil, nil
}
