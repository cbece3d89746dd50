package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MikeMC777/ordenes-dashboard/internal/httpx"
)

// Client talks to the remote order API. It does no retrying; every call is
// exactly one HTTP request and every failure comes back as *APIError.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// NewClient builds a Client. A zero timeout means requests wait as long as ctx allows.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FetchAll issues GET /orders.
func (c *Client) FetchAll(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, "fetch_all", http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Order{}
	}
	return out, nil
}

// FetchOne issues GET /orders/{id}.
func (c *Client) FetchOne(ctx context.Context, id int) (*Order, error) {
	var o Order
	if err := c.do(ctx, "fetch_one", http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &o); err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, invalidResponse(http.StatusOK, errMissingID)
	}
	return &o, nil
}

// Replace issues PUT /orders/{id} with the full order representation.
func (c *Client) Replace(ctx context.Context, id int, o Order) (*Order, error) {
	var out Order
	if err := c.do(ctx, "replace", http.MethodPut, fmt.Sprintf("/orders/%d", id), o, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, invalidResponse(http.StatusOK, errMissingID)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	defer func() { httpx.RecordAPICall(op, err == nil) }()

	var body io.Reader
	if in != nil {
		b, mErr := json.Marshal(in)
		if mErr != nil {
			return transportError(mErr)
		}
		body = bytes.NewReader(b)
	}

	req, rErr := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if rErr != nil {
		return transportError(rErr)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, dErr := c.HTTP.Do(req)
	if dErr != nil {
		return transportError(dErr)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return responseError(res)
	}
	if jErr := json.NewDecoder(res.Body).Decode(out); jErr != nil {
		return invalidResponse(res.StatusCode, jErr)
	}
	return nil
}

// errMissingID marks a 2xx body that decoded to no order (null or {}).
var errMissingID = errors.New("order without id")

func invalidResponse(code int, err error) *APIError {
	return &APIError{
		Kind:       KindServer,
		StatusCode: code,
		Message:    "invalid response from order API: " + err.Error(),
		Err:        err,
	}
}
