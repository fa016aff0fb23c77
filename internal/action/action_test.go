package action

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gangsheet-builders/order-actions/internal/catalog"
	"github.com/gangsheet-builders/order-actions/internal/errors"
	"github.com/gangsheet-builders/order-actions/internal/form"
	"github.com/gangsheet-builders/order-actions/internal/metrics"
	"github.com/gangsheet-builders/order-actions/internal/order"
	"github.com/gangsheet-builders/order-actions/internal/quote"
)

// stubSubmitter returns a fixed outcome and remembers its input.
type stubSubmitter struct {
	outcome order.Outcome
	got     order.Submission
}

func (s *stubSubmitter) Submit(_ context.Context, sub order.Submission) order.Outcome {
	s.got = sub
	return s.outcome
}

func newTestRegistry(t *testing.T, sub Submitter) (*Registry, *metrics.Metrics) {
	t.Helper()
	c := catalog.Default()
	m := metrics.New(prometheus.NewRegistry())
	if sub == nil {
		sub = &stubSubmitter{}
	}
	return NewRegistry(Standard(Deps{
		Form:      form.New(c),
		Quotes:    quote.NewEngine(c),
		Submitter: sub,
		Metrics:   m,
	})...), m
}

func call(name string, slots map[string]any, events ...Event) *Request {
	if slots == nil {
		slots = map[string]any{}
	}
	return &Request{
		NextAction: name,
		SenderID:   "conv-1",
		Tracker: TrackerState{
			SenderID: "conv-1",
			Slots:    slots,
			Events:   events,
		},
	}
}

func texts(resp *Response) []string {
	var out []string
	for _, m := range resp.Responses {
		if m.Text != "" {
			out = append(out, m.Text)
		}
	}
	return out
}

func clearedForm() []Event {
	var out []Event
	for _, f := range form.AllFields() {
		out = append(out, SlotSet(f.Slot(), nil))
	}
	return out
}

func TestRegistry_Names(t *testing.T) {
	r, _ := newTestRegistry(t, nil)
	assert.Equal(t, []string{
		NameAskSheetSize,
		NameCancelOrder,
		NameGetPrice,
		NameSubmitOrder,
		NameValidateForm,
	}, r.Names())
}

func TestRegistry_UnknownAction(t *testing.T) {
	r, _ := newTestRegistry(t, nil)
	_, err := r.Run(t.Context(), call("action_make_coffee", nil))
	require.Error(t, err)
	assert.True(t, errors.IsUnknownAction(err))
}

type failingAction struct{}

func (failingAction) Name() string { return "action_fail" }
func (failingAction) Run(context.Context, *Dispatcher, *Tracker, map[string]any) ([]Event, error) {
	return nil, stderrors.New("boom")
}

func TestRegistry_ActionError(t *testing.T) {
	r := NewRegistry(failingAction{})
	_, err := r.Run(t.Context(), call("action_fail", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, errors.IsUnknownAction(err))
}

func TestRegistry_EmptyResponseEncodesArrays(t *testing.T) {
	r, _ := newTestRegistry(t, nil)
	resp, err := r.Run(t.Context(), call(NameAskSheetSize, nil))
	require.NoError(t, err)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"events":[],"responses":[{"response":"utter_ask_sheet_size_dtf"}]}`, string(b))
}

func TestSlotSet_JSON(t *testing.T) {
	b, err := json.Marshal(SlotSet("sheet_size", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"slot","name":"sheet_size","value":null,"timestamp":null}`, string(b))
}

func TestGetPrice(t *testing.T) {
	r, m := newTestRegistry(t, nil)

	resp, err := r.Run(t.Context(), call(NameGetPrice, map[string]any{"sheet_size": "22x12"}))
	require.NoError(t, err)
	assert.Empty(t, resp.Events)
	assert.Equal(t, []string{"A **22x12 DTF Gang Sheet** (for fabrics) costs **$5.00**."}, texts(resp))

	resp, err = r.Run(t.Context(), call(NameGetPrice, nil))
	require.NoError(t, err)
	require.Len(t, resp.Responses, 1)
	assert.Empty(t, resp.Responses[0].Text)
	menu, ok := resp.Responses[0].Custom.(*quote.Menu)
	require.True(t, ok)
	assert.Equal(t, "grid", menu.Type)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("size")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("menu")))
}

func TestValidateOrderForm_AcceptsProduct(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	resp, err := r.Run(t.Context(), call(NameValidateForm,
		map[string]any{"product_name": "DTF Sheet"},
		Event{Event: "user"},
		SlotSet("product_name", "DTF Sheet"),
	))
	require.NoError(t, err)

	assert.Empty(t, resp.Responses)
	assert.Equal(t, []Event{
		SlotSet("product_name", "Dtf Custom Gang Sheet"),
		SlotSet("requested_slot", "category"),
	}, resp.Events)
}

func TestValidateOrderForm_RejectsProduct(t *testing.T) {
	r, m := newTestRegistry(t, nil)

	resp, err := r.Run(t.Context(), call(NameValidateForm,
		map[string]any{"product_name": "banana"},
		SlotSet("product_name", "banana"),
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"Sorry, I don't recognize the product 'banana'."}, texts(resp))
	assert.Equal(t, []Event{
		SlotSet("product_name", nil),
		SlotSet("requested_slot", "product_name"),
	}, resp.Events)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationRejectionsTotal.WithLabelValues("product_name")))
}

func TestValidateOrderForm_OnlyTrailingSlotsAreValidated(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	slots := map[string]any{
		"product_name": "Uv Dtf Gang Sheet",
		"quantity":     "3",
	}
	resp, err := r.Run(t.Context(), call(NameValidateForm, slots,
		SlotSet("product_name", "Uv Dtf Gang Sheet"),
		Event{Event: "action", Name: "validate_order_form"},
		SlotSet("quantity", "3"),
		SlotSet("requested_slot", "quantity"),
	))
	require.NoError(t, err)

	assert.Equal(t, []Event{
		SlotSet("quantity", 3.0),
		SlotSet("requested_slot", "category"),
	}, resp.Events)
}

func TestValidateOrderForm_AsksForSizeAfterQuantity(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	slots := map[string]any{
		"product_name": "Uv Dtf Gang Sheet",
		"category":     "uv",
		"quantity":     2.0,
	}
	resp, err := r.Run(t.Context(), call(NameValidateForm, slots, SlotSet("quantity", 2.0)))
	require.NoError(t, err)

	assert.Equal(t, SlotSet("requested_slot", "sheet_size"), resp.Events[len(resp.Events)-1])
}

func TestValidateOrderForm_Cancellation(t *testing.T) {
	r, m := newTestRegistry(t, nil)

	slots := map[string]any{
		"product_name": "Dtf Gang Sheet",
		"quantity":     2.0,
		"sheet_size":   "22x12",
		"user_name":    "stop",
	}
	resp, err := r.Run(t.Context(), call(NameValidateForm, slots, SlotSet("user_name", "stop")))
	require.NoError(t, err)

	assert.Equal(t, []string{"OK, I've cancelled this order."}, texts(resp))
	want := append(clearedForm(), SlotSet("requested_slot", nil))
	assert.Equal(t, want, resp.Events)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FormCancellationsTotal))
}

func TestValidateOrderForm_PassesThroughOtherSlots(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	resp, err := r.Run(t.Context(), call(NameValidateForm,
		map[string]any{"user_email": "a@b.com"},
		SlotSet("language", "en"),
		SlotSet("user_email", "a@b.com"),
	))
	require.NoError(t, err)

	assert.Equal(t, []Event{
		SlotSet("language", "en"),
		SlotSet("user_email", "a@b.com"),
		SlotSet("requested_slot", "product_name"),
	}, resp.Events)
}

func TestValidateOrderForm_Complete(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	slots := map[string]any{
		"product_name": "Dtf + Heat Press",
		"category":     "press",
		"quantity":     30.0,
		"user_name":    "Jane",
		"user_email":   "jane@example.com",
		"carrier":      "UPS",
	}
	resp, err := r.Run(t.Context(), call(NameValidateForm, slots, SlotSet("carrier", "UPS")))
	require.NoError(t, err)

	assert.Equal(t, []Event{
		SlotSet("carrier", "UPS"),
		SlotSet("requested_slot", nil),
	}, resp.Events)
}

func TestSubmitOrder(t *testing.T) {
	sub := &stubSubmitter{outcome: order.Outcome{
		Status:   order.StatusConfirmed,
		Messages: []string{"confirmed #42", "upload /42"},
		Updates:  form.ClearAll(),
	}}
	r, _ := newTestRegistry(t, sub)

	slots := map[string]any{"product_name": "Dtf Gang Sheet", "quantity": 2.0}
	resp, err := r.Run(t.Context(), call(NameSubmitOrder, slots))
	require.NoError(t, err)

	assert.Equal(t, []string{order.AckMessage, "confirmed #42", "upload /42"}, texts(resp))
	assert.Equal(t, clearedForm(), resp.Events)
	assert.Equal(t, "conv-1", sub.got.SenderID)
	assert.Equal(t, "Dtf Gang Sheet", sub.got.Values[form.FieldProduct])
	assert.Empty(t, sub.got.FormRun, "no form was started in this tracker")
}

func TestSubmitOrder_PassesFormRun(t *testing.T) {
	sub := &stubSubmitter{outcome: order.Outcome{Updates: form.ClearAll()}}
	r, _ := newTestRegistry(t, sub)

	started := 1700000000.5
	_, err := r.Run(t.Context(), call(NameSubmitOrder, nil,
		Event{Event: EventActiveLoop, Name: "order_form", Timestamp: &started},
		SlotSet("product_name", "Dtf Gang Sheet"),
	))
	require.NoError(t, err)

	assert.Equal(t, "1700000000.5", sub.got.FormRun)
}

func TestSubmitOrder_UnreachableOrderSystem(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	sub := order.NewSubmitter(order.SubmitterConfig{
		Creator:       order.NewClient(order.ClientConfig{Endpoint: endpoint}),
		UploadBaseURL: "https://shop.example.com/upload-order-file",
		DedupWindow:   time.Minute,
	})
	r, _ := newTestRegistry(t, sub)

	resp, err := r.Run(t.Context(), call(NameSubmitOrder, map[string]any{
		"product_name": "Dtf Gang Sheet",
		"user_email":   "jane@example.com",
	}))
	require.NoError(t, err)

	got := texts(resp)
	require.Len(t, got, 2)
	assert.Equal(t, order.AckMessage, got[0])
	assert.Contains(t, got[1], "can't connect")
	assert.Equal(t, clearedForm(), resp.Events)
}

func TestCancelOrder(t *testing.T) {
	r, _ := newTestRegistry(t, nil)

	resp, err := r.Run(t.Context(), call(NameCancelOrder, map[string]any{"product_name": "Dtf Gang Sheet"}))
	require.NoError(t, err)

	assert.Equal(t, []string{MsgOrderCancelled}, texts(resp))
	assert.Equal(t, clearedForm(), resp.Events)
}

func TestAskSheetSize(t *testing.T) {
	tests := []struct {
		name  string
		slots map[string]any
		want  string
	}{
		{"uv product", map[string]any{"product_name": "Uv Dtf Gang Sheet"}, TemplateAskSizeUV},
		{"uv category", map[string]any{"product_name": "Custom Size Dtf Gang Sheet", "category": "UV Printing"}, TemplateAskSizeUV},
		{"dtf product", map[string]any{"product_name": "Dtf Gang Sheet"}, TemplateAskSizeDTF},
		{"nothing set", nil, TemplateAskSizeDTF},
	}

	r, _ := newTestRegistry(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := r.Run(t.Context(), call(NameAskSheetSize, tt.slots))
			require.NoError(t, err)
			assert.Equal(t, []Message{{Response: tt.want}}, resp.Responses)
			assert.Empty(t, resp.Events)
		})
	}
}
