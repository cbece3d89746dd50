package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	ord "github.com/MikeMC777/ordenes-dashboard/internal/order"
)

type badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// statusBadge never fails: statuses the dashboard does not know get a neutral badge.
func statusBadge(s ord.Status) badge {
	switch s {
	case ord.StatusPending:
		return badge{Label: string(s), Color: "yellow", Icon: "⏳"}
	case ord.StatusProcessing:
		return badge{Label: string(s), Color: "blue", Icon: "🔄"}
	case ord.StatusDelivered:
		return badge{Label: string(s), Color: "green", Icon: "✅"}
	case ord.StatusCancelled:
		return badge{Label: string(s), Color: "red", Icon: "❌"}
	}
	return badge{Label: string(s), Color: "gray", Icon: "📋"}
}

type orderCard struct {
	ID           int             `json:"id"`
	CustomerName string          `json:"customerName"`
	CreatedAt    ord.Timestamp   `json:"createdAt"`
	ItemCount    int             `json:"itemCount"`
	Total        decimal.Decimal `json:"total"`
	Badge        badge           `json:"badge"`
}

type listView struct {
	RequestStatus ord.RequestStatus `json:"requestStatus"`
	Error         string            `json:"error,omitempty"`
	Retry         bool              `json:"retry"`
	Filter        ord.Filter        `json:"filter"`
	Count         int               `json:"count"`
	Orders        []orderCard       `json:"orders"`
	EmptyMessage  string            `json:"emptyMessage,omitempty"`
}

func newListView(st ord.State) listView {
	v := listView{
		RequestStatus: st.RequestStatus,
		Filter:        st.Filter,
		Orders:        []orderCard{},
	}
	if st.RequestStatus == ord.RequestFailed {
		v.Error = st.LastError
		v.Retry = true
		return v
	}
	if st.RequestStatus == ord.RequestLoading {
		return v
	}

	for _, o := range ord.VisibleOrders(st) {
		v.Orders = append(v.Orders, orderCard{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			CreatedAt:    o.CreatedAt,
			ItemCount:    len(o.Items),
			Total:        o.Total,
			Badge:        statusBadge(o.Status),
		})
	}
	v.Count = len(v.Orders)
	if v.Count == 0 {
		if st.Filter == ord.FilterAll {
			v.EmptyMessage = "There are no orders yet."
		} else {
			v.EmptyMessage = fmt.Sprintf("No orders with status %q.", st.Filter)
		}
	}
	return v
}

type line struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type statusOption struct {
	Value      ord.Status `json:"value"`
	Current    bool       `json:"current"`
	Selectable bool       `json:"selectable"`
}

type orderDetail struct {
	ID            int             `json:"id"`
	CustomerName  string          `json:"customerName"`
	CreatedAt     ord.Timestamp   `json:"createdAt"`
	Note          string          `json:"note,omitempty"`
	Badge         badge           `json:"badge"`
	Lines         []line          `json:"lines"`
	TotalQuantity int             `json:"totalQuantity"`
	DistinctItems int             `json:"distinctItems"`
	Total         decimal.Decimal `json:"total"`
	StatusOptions []statusOption  `json:"statusOptions"`
}

type detailView struct {
	RequestStatus ord.RequestStatus `json:"requestStatus"`
	Error         string            `json:"error,omitempty"`
	Retry         bool              `json:"retry"`
	Updating      bool              `json:"updating"`
	Updated       bool              `json:"updated,omitempty"`
	Order         *orderDetail      `json:"order,omitempty"`
}

// newOrderDetail renders o. While an update is in flight no option is selectable,
// and the current status is never selectable.
func newOrderDetail(o ord.Order, updating bool) *orderDetail {
	d := &orderDetail{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CreatedAt:     o.CreatedAt,
		Note:          o.Note,
		Badge:         statusBadge(o.Status),
		Lines:         make([]line, 0, len(o.Items)),
		TotalQuantity: o.TotalQuantity(),
		DistinctItems: len(o.Items),
		Total:         o.Total,
	}
	for _, it := range o.Items {
		d.Lines = append(d.Lines, line{Name: it.Name, Quantity: it.Quantity, Price: it.Price, Subtotal: it.Subtotal()})
	}
	for _, s := range ord.Statuses {
		d.StatusOptions = append(d.StatusOptions, statusOption{
			Value:      s,
			Current:    s == o.Status,
			Selectable: s != o.Status && !updating,
		})
	}
	return d
}
