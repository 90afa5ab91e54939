package memory

import (
	"context"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/order"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders []order.Order
	nextID int
}

func NewOrderRepository(seed ...order.Order) *OrderRepository {
	r := &OrderRepository{orders: make([]order.Order, 0, len(seed)), nextID: 1}
	for _, o := range seed {
		r.orders = append(r.orders, cloneOrder(o))
		if o.ID >= r.nextID {
			r.nextID = o.ID + 1
		}
	}
	return r
}

func cloneOrder(o order.Order) order.Order {
	if o.Notes != nil {
		n := *o.Notes
		o.Notes = &n
	}
	return o
}

func (r *OrderRepository) List(ctx context.Context, limit, offset int) (*order.Page, error) {
	if limit <= 0 || offset < 0 {
		return nil, order.ErrInvalidPagination
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	page := &order.Page{Orders: []*order.Order{}, Total: len(r.orders), Limit: limit, Offset: offset}
	if offset >= len(r.orders) {
		return page, nil
	}
	end := min(offset+limit, len(r.orders))
	for _, o := range r.orders[offset:end] {
		c := cloneOrder(o)
		page.Orders = append(page.Orders, &c)
	}
	return page, nil
}

func (r *OrderRepository) Search(ctx context.Context, dr order.DateRange) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*order.Order{}
	for _, o := range r.orders {
		if dr.Contains(o.CreatedAt) {
			c := cloneOrder(o)
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		c := cloneOrder(r.orders[i])
		return &c, nil
	}
	return nil, order.ErrOrderNotFound
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, cloneOrder(*o))
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(o.ID)
	if i < 0 {
		return order.ErrOrderNotFound
	}
	r.orders[i] = cloneOrder(*o)
	return nil
}

// Delete enforces the pending-only rule under the write lock so the check
// and the removal see the same state.
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return order.ErrOrderNotFound
	}
	if !r.orders[i].Deletable() {
		return order.ErrDeletionForbidden
	}
	r.orders = append(r.orders[:i], r.orders[i+1:]...)
	return nil
}

func (r *OrderRepository) indexOf(id int) int {
	for i := range r.orders {
		if r.orders[i].ID == id {
			return i
		}
	}
	return -1
}
