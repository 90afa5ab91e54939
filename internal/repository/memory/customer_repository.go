package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/customer"
)

type CustomerRepository struct {
	mu        sync.RWMutex
	customers []customer.Customer
	nextSeq   int
}

func NewCustomerRepository(seed ...customer.Customer) *CustomerRepository {
	r := &CustomerRepository{customers: make([]customer.Customer, 0, len(seed))}
	r.customers = append(r.customers, seed...)
	r.nextSeq = len(seed) + 1
	return r
}

func (r *CustomerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*customer.Customer, 0, len(r.customers))
	for i := range r.customers {
		c := r.customers[i]
		out = append(out, &c)
	}
	return out, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.customers {
		if r.customers[i].ID == id {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, customer.ErrCustomerNotFound
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.customers {
		if strings.EqualFold(r.customers[i].Email, email) {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, customer.ErrCustomerNotFound
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(c.Email, "") {
		return customer.ErrEmailTaken
	}
	c.ID = fmt.Sprintf("%s%03d", customer.IDPrefix, r.nextSeq)
	r.nextSeq++
	r.customers = append(r.customers, *c)
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(c.Email, c.ID) {
		return customer.ErrEmailTaken
	}
	for i := range r.customers {
		if r.customers[i].ID == c.ID {
			r.customers[i] = *c
			return nil
		}
	}
	return customer.ErrCustomerNotFound
}

func (r *CustomerRepository) emailTaken(email, excludeID string) bool {
	for i := range r.customers {
		if r.customers[i].ID != excludeID && strings.EqualFold(r.customers[i].Email, email) {
			return true
		}
	}
	return false
}
