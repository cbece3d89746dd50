package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// total and price travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists the workflow stages in display order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusDelivered, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID           int             `json:"id"`
	CustomerName string          `json:"customerName"`
	CreatedAt    Timestamp       `json:"createdAt"`
	Status       Status          `json:"status"`
	Note         string          `json:"note,omitempty"`
	Items        []Item          `json:"items"`
	Total        decimal.Decimal `json:"total"` // computed by the server, never recomputed here
}

// Timestamp is an ISO-8601 instant. It decodes RFC 3339, a date-time without
// zone (taken as UTC) or a bare date, and always encodes as RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("createdAt: %q is not an ISO-8601 timestamp", s)
}

type Item struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Clone returns a copy that shares no item storage with o.
func (o Order) Clone() Order {
	cp := o
	if o.Items != nil {
		cp.Items = append([]Item(nil), o.Items...)
	}
	return cp
}

// TotalQuantity sums item quantities.
func (o Order) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the line amount price × quantity.
func (it Item) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
