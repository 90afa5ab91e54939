package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/product"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products []product.Product
	nextSeq  int
}

func NewProductRepository(seed ...product.Product) *ProductRepository {
	r := &ProductRepository{products: make([]product.Product, 0, len(seed))}
	r.products = append(r.products, seed...)
	r.nextSeq = len(seed) + 1
	return r
}

func (r *ProductRepository) List(ctx context.Context) ([]*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*product.Product, 0, len(r.products))
	for i := range r.products {
		p := r.products[i]
		out = append(out, &p)
	}
	return out, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, product.ErrProductNotFound
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = fmt.Sprintf("%s%03d", product.IDPrefix, r.nextSeq)
	r.nextSeq++
	r.products = append(r.products, *p)
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = *p
			return nil
		}
	}
	return product.ErrProductNotFound
}

func (r *ProductRepository) Search(ctx context.Context, q product.SearchQuery) ([]*product.Product, error) {
	if q.Empty() {
		return nil, product.ErrMissingSearchParams
	}
	query := strings.ToLower(q.Query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*product.Product{}
	for i := range r.products {
		p := r.products[i]
		switch {
		case query != "" && strings.Contains(strings.ToLower(p.Name), query):
		case q.Category != "" && strings.EqualFold(p.Category, q.Category):
		default:
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}
