package order

import (
	"context"
	"fmt"
	"sync"
)

type RequestStatus string

const (
	RequestIdle      RequestStatus = "idle"
	RequestLoading   RequestStatus = "loading"
	RequestSucceeded RequestStatus = "succeeded"
	RequestFailed    RequestStatus = "failed"
)

type Filter string

// FilterAll disables status filtering; every other filter is a Status value.
const FilterAll Filter = "all"

// ParseFilter accepts "all" or one of the four statuses.
func ParseFilter(s string) (Filter, error) {
	if Filter(s) == FilterAll || Status(s).Valid() {
		return Filter(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
}

// API is the subset of Client the store needs.
type API interface {
	FetchAll(ctx context.Context) ([]Order, error)
	FetchOne(ctx context.Context, id int) (*Order, error)
	Replace(ctx context.Context, id int, o Order) (*Order, error)
}

// State is a snapshot of the store. Listeners and callers get their own copy.
type State struct {
	Orders        []Order
	SelectedOrder *Order
	RequestStatus RequestStatus
	LastError     string
	Filter        Filter
}

func (st State) clone() State {
	cp := st
	if st.Orders != nil {
		cp.Orders = make([]Order, len(st.Orders))
		for i, o := range st.Orders {
			cp.Orders[i] = o.Clone()
		}
	}
	if st.SelectedOrder != nil {
		sel := st.SelectedOrder.Clone()
		cp.SelectedOrder = &sel
	}
	return cp
}

type listener struct {
	id int
	fn func(State)
}

// Store holds the orders fetched so far, the selected order, the shared
// request status, the last error and the active filter.
//
// Loads share one RequestStatus: when two loads overlap, both write and the
// one that resolves last wins. Listeners are invoked outside the lock, after
// every transition, in subscription order.
type Store struct {
	api API

	mu        sync.Mutex
	state     State
	listeners []listener
	nextID    int
}

func NewStore(api API) *Store {
	return &Store{
		api: api,
		state: State{
			Orders:        []Order{},
			RequestStatus: RequestIdle,
			Filter:        FilterAll,
		},
	}
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// VisibleOrders applies the active filter to the current orders.
func (s *Store) VisibleOrders() []Order {
	return VisibleOrders(s.State())
}

// Subscribe registers fn for change notifications and returns a func that removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) mutate(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	fns := make([]func(State), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.mu.Unlock()

	for _, f := range fns {
		f(snap.clone())
	}
}

// LoadAll replaces the whole order collection with GET /orders.
func (s *Store) LoadAll(ctx context.Context) error {
	s.mutate(func(st *State) { st.RequestStatus = RequestLoading })

	orders, err := s.api.FetchAll(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	fresh := make([]Order, len(orders))
	for i, o := range orders {
		fresh[i] = o.Clone()
	}
	s.mutate(func(st *State) {
		st.Orders = fresh
		st.RequestStatus = RequestSucceeded
	})
	return nil
}

// LoadOne fetches a single order into the selected slot. The collection is left alone.
func (s *Store) LoadOne(ctx context.Context, id int) error {
	s.mutate(func(st *State) { st.RequestStatus = RequestLoading })

	o, err := s.api.FetchOne(ctx, id)
	if err != nil {
		s.fail(err)
		return err
	}

	sel := o.Clone()
	s.mutate(func(st *State) {
		st.SelectedOrder = &sel
		st.RequestStatus = RequestSucceeded
	})
	return nil
}

func (s *Store) fail(err error) {
	msg := Message(err)
	s.mutate(func(st *State) {
		st.RequestStatus = RequestFailed
		st.LastError = msg
	})
}

// UpdateStatus moves order id to status. The API replaces whole resources on
// PUT, so the current record is fetched first and written back with only the
// status changed. On success the server's copy is reconciled into the
// collection (never appended) and into the selected slot when ids match.
// Failures are returned to the caller; RequestStatus and LastError stay as they were.
func (s *Store) UpdateStatus(ctx context.Context, id int, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	current, err := s.api.FetchOne(ctx, id)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	next.Status = status

	updated, err := s.api.Replace(ctx, id, next)
	if err != nil {
		return nil, err
	}

	u := updated.Clone()
	s.mutate(func(st *State) {
		for i := range st.Orders {
			if st.Orders[i].ID == u.ID {
				st.Orders[i] = u.Clone()
				break
			}
		}
		if st.SelectedOrder != nil && st.SelectedOrder.ID == u.ID {
			sel := u.Clone()
			st.SelectedOrder = &sel
		}
	})
	return &u, nil
}

// SetFilter changes the active filter. Values other than "all" and the four
// statuses are rejected and leave the state untouched.
func (s *Store) SetFilter(f Filter) error {
	if _, err := ParseFilter(string(f)); err != nil {
		return err
	}
	s.mu.Lock()
	same := s.state.Filter == f
	s.mu.Unlock()
	if same {
		return nil
	}
	s.mutate(func(st *State) { st.Filter = f })
	return nil
}
