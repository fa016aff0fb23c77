// Package order submits completed order forms to the shop's order system.
package order

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gangsheet-builders/order-actions/internal/errors"
)

// maxErrorBody caps how much of a failed response is kept for logs.
const maxErrorBody = 512

// Payload is the JSON body the order system expects.
type Payload struct {
	Product        string  `json:"product"`
	Category       string  `json:"category"`
	Quantity       float64 `json:"quantity"`
	Size           string  `json:"size"`
	CustomerName   string  `json:"customer_name"`
	CustomerEmail  string  `json:"customer_email"`
	ShippingMethod string  `json:"shipping_method"`
	SenderID       string  `json:"sender_id"`
}

// Confirmation is what the order system answers on success. OrderID is
// empty when the system did not assign one.
type Confirmation struct {
	OrderID string
}

// Creator creates orders in the order system.
type Creator interface {
	Create(ctx context.Context, p Payload, idempotencyKey string) (Confirmation, error)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	Endpoint string
	Token    string        // optional bearer token
	Timeout  time.Duration // 0 = no client-side timeout

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the order API over HTTP.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient creates an order API client.
func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		httpClient: hc,
	}
}

// Create posts p to the order endpoint. It does not retry.
//
// Errors are classified: a non-2xx answer is an *errors.HTTPStatusError,
// failing to reach the server wraps errors.ErrConnection, running out of
// time wraps errors.ErrTimeout. Anything else is returned as is.
func (c *Client) Create(ctx context.Context, p Payload, idempotencyKey string) (Confirmation, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Confirmation{}, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Confirmation{}, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Confirmation{}, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Confirmation{}, errors.NewHTTPStatusError(c.endpoint, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return decodeConfirmation(resp.Body)
}

func classifyTransportError(err error) error {
	var netErr net.Error
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", errors.ErrTimeout, err)
	case stderrors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %w", errors.ErrTimeout, err)
	case isConnectionFailure(err):
		return fmt.Errorf("%w: %w", errors.ErrConnection, err)
	default:
		return err
	}
}

func isConnectionFailure(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return stderrors.As(err, &opErr) || stderrors.As(err, &dnsErr)
}

// decodeConfirmation reads the optional order_id. An empty body counts as
// a confirmation without an id; a body that is not JSON is an error.
func decodeConfirmation(r io.Reader) (Confirmation, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Confirmation{}, fmt.Errorf("read order response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Confirmation{}, nil
	}

	var out struct {
		OrderID any `json:"order_id"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return Confirmation{}, fmt.Errorf("decode order response: %w", err)
	}
	return Confirmation{OrderID: orderIDString(out.OrderID)}, nil
}

// orderIDString renders an id the way it is shown to the user. Zero,
// false and empty values mean no id.
func orderIDString(v any) string {
	switch x := v.(type) {
	case json.Number:
		if x.String() == "0" {
			return ""
		}
		return x.String()
	case string:
		return strings.TrimSpace(x)
	default:
		return ""
	}
}
