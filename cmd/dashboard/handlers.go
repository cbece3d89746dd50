package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	ord "github.com/MikeMC777/ordenes-dashboard/internal/order"
)

// updateGuard tracks which orders have a status update in flight.
type updateGuard struct {
	mu       sync.Mutex
	inFlight map[int]bool
}

func newUpdateGuard() *updateGuard {
	return &updateGuard{inFlight: make(map[int]bool)}
}

// begin reports false if an update for id is already running.
func (g *updateGuard) begin(id int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[id] {
		return false
	}
	g.inFlight[id] = true
	return true
}

func (g *updateGuard) end(id int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, id)
}

func (g *updateGuard) active(id int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight[id]
}

func listStatus(st ord.State) int {
	if st.RequestStatus == ord.RequestFailed {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func orderID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return id, true
}

// listOrdersHandler renders the filtered list. The first visit triggers the
// initial load; later visits render what the store already holds.
func listOrdersHandler(store *ord.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if q, ok := c.GetQuery("status"); ok {
			if err := store.SetFilter(ord.Filter(q)); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		if store.State().RequestStatus == ord.RequestIdle {
			if err := store.LoadAll(c.Request.Context()); err != nil {
				log.Printf("[orders] initial load failed: %v", err)
			}
		}
		st := store.State()
		c.JSON(listStatus(st), newListView(st))
	}
}

// reloadOrdersHandler is the retry control of the list view.
func reloadOrdersHandler(store *ord.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.LoadAll(c.Request.Context()); err != nil {
			log.Printf("[orders] reload failed: %v", err)
		}
		st := store.State()
		c.JSON(listStatus(st), newListView(st))
	}
}

func setFilterHandler(store *ord.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.SetFilterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if err := store.SetFilter(req.Filter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		st := store.State()
		c.JSON(listStatus(st), newListView(st))
	}
}

// getOrderHandler loads the order on every visit, which also serves as retry.
func getOrderHandler(store *ord.Store, guard *updateGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}

		err := store.LoadOne(c.Request.Context(), id)
		st := store.State()
		v := detailView{RequestStatus: st.RequestStatus, Updating: guard.active(id)}

		switch {
		case err != nil:
			v.RequestStatus = ord.RequestFailed
			v.Error = ord.Message(err)
			v.Retry = true
			code := http.StatusBadGateway
			if errors.Is(err, ord.ErrNotFound) {
				code = http.StatusNotFound
			}
			c.JSON(code, v)
		case st.SelectedOrder == nil || st.SelectedOrder.ID != id:
			// another detail load finished after ours and took the selected slot
			v.Error = fmt.Sprintf("order %d was replaced by a concurrent load; retry", id)
			v.Retry = true
			c.JSON(http.StatusConflict, v)
		default:
			v.Order = newOrderDetail(*st.SelectedOrder, v.Updating)
			c.JSON(http.StatusOK, v)
		}
	}
}

// knownStatus looks for id in the selected slot first, then in the list.
func knownStatus(st ord.State, id int) (ord.Status, bool) {
	if st.SelectedOrder != nil && st.SelectedOrder.ID == id {
		return st.SelectedOrder.Status, true
	}
	for _, o := range st.Orders {
		if o.ID == id {
			return o.Status, true
		}
	}
	return "", false
}

// updateStatusHandler is the status control of the detail view. It refuses
// while another update of the same order runs and when nothing would change.
func updateStatusHandler(store *ord.Store, guard *updateGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		var req ord.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": ord.ErrInvalidStatus.Error()})
			return
		}
		if cur, ok := knownStatus(store.State(), id); ok && cur == req.Status {
			c.JSON(http.StatusConflict, gin.H{"error": "order already has status " + string(req.Status)})
			return
		}
		if !guard.begin(id) {
			c.JSON(http.StatusConflict, gin.H{"error": "an update for this order is already in progress"})
			return
		}
		defer guard.end(id)

		updated, err := store.UpdateStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			log.Printf("[orders] could not update status id=%d: %v", id, err)
			code := http.StatusBadGateway
			if errors.Is(err, ord.ErrNotFound) {
				code = http.StatusNotFound
			}
			c.JSON(code, gin.H{"error": ord.Message(err)})
			return
		}

		c.JSON(http.StatusOK, detailView{
			RequestStatus: store.State().RequestStatus,
			Updated:       true,
			Order:         newOrderDetail(*updated, false),
		})
	}
}
