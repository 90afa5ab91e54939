package product

import "context"

type Repository interface {
	List(ctx context.Context) ([]*Product, error)

	// GetByID returns ErrProductNotFound if no product matches.
	GetByID(ctx context.Context, id string) (*Product, error)

	// Create assigns the next PRD-NNN identifier.
	Create(ctx context.Context, p *Product) error

	Update(ctx context.Context, p *Product) error

	Search(ctx context.Context, q SearchQuery) ([]*Product, error)
}
