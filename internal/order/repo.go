package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository backs the order API fixture server.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id int) (*Order, error)
	// Replace overwrites every client-owned field of the stored order with o.
	// CreatedAt is server-assigned and is copied back into o, never overwritten.
	Replace(ctx context.Context, o *Order) error
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
  id            SERIAL PRIMARY KEY,
  customer_name TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  status        TEXT        NOT NULL,
  note          TEXT,
  total         NUMERIC(14,2) NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS order_items (
  order_id INT     NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  position INT     NOT NULL,
  name     TEXT    NOT NULL,
  quantity INT     NOT NULL CHECK (quantity > 0),
  price    NUMERIC(14,2) NOT NULL,
  PRIMARY KEY (order_id, position)
);`

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Migrate creates the tables if they are missing.
func (r *PGRepo) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, schema)
	return err
}

func (r *PGRepo) List(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, customer_name, created_at, status, COALESCE(note, ''), total::text
		FROM orders ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	index := map[int]int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(out)
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.db.Query(ctx, `
		SELECT order_id, name, quantity, price::text
		FROM order_items ORDER BY order_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer items.Close()
	for items.Next() {
		var orderID int
		it, err := scanItem(items, &orderID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, items.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id int) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, customer_name, created_at, status, COALESCE(note, ''), total::text
		FROM orders WHERE id=$1
	`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT order_id, name, quantity, price::text
		FROM order_items WHERE order_id=$1 ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID int
		it, err := scanItem(rows, &orderID)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

func (r *PGRepo) Replace(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET customer_name = $2, status = $3, note = NULLIF($4, ''), total = $5
		WHERE id = $1
		RETURNING created_at
	`, o.ID, o.CustomerName, string(o.Status), o.Note, o.Total.String()).Scan(&o.CreatedAt.Time)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
		return err
	}
	for i, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, position, name, quantity, price)
			VALUES ($1,$2,$3,$4,$5)
		`, o.ID, i, it.Name, it.Quantity, it.Price.String()); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o      Order
		status string
		total  string
	)
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CreatedAt.Time, &status, &o.Note, &total); err != nil {
		return nil, err
	}
	o.Status = Status(status)
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("order %d total: %w", o.ID, err)
	}
	o.Total = d
	o.Items = []Item{}
	return &o, nil
}

func scanItem(row pgx.Row, orderID *int) (Item, error) {
	var (
		it    Item
		price string
	)
	if err := row.Scan(orderID, &it.Name, &it.Quantity, &price); err != nil {
		return Item{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Item{}, fmt.Errorf("item %q price: %w", it.Name, err)
	}
	it.Price = d
	return it, nil
}

// MemRepo is an in-memory Repository, ordered by id.
type MemRepo struct {
	mu     sync.RWMutex
	orders map[int]Order
}

func NewMemRepo(seed []Order) *MemRepo {
	r := &MemRepo{orders: make(map[int]Order, len(seed))}
	for _, o := range seed {
		r.orders[o.ID] = o.Clone()
	}
	return r
}

func (r *MemRepo) List(ctx context.Context) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemRepo) GetByID(ctx context.Context, id int) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o.Clone()
	return &cp, nil
}

func (r *MemRepo) Replace(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.orders[o.ID]
	if !ok {
		return ErrNotFound
	}
	o.CreatedAt = cur.CreatedAt
	if o.Items == nil {
		o.Items = []Item{}
	}
	r.orders[o.ID] = o.Clone()
	return nil
}

// LoadSeedFile reads orders from a json-server style file ({"orders":[...]})
// or from a bare JSON array.
func LoadSeedFile(path string) ([]Order, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var db struct {
		Orders []Order `json:"orders"`
	}
	if err := json.Unmarshal(raw, &db); err == nil && db.Orders != nil {
		return db.Orders, nil
	}
	var list []Order
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return list, nil
}
