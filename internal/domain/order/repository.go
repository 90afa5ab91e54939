package order

import "context"

type Repository interface {
	// List returns the orders in insertion order starting at offset.
	List(ctx context.Context, limit, offset int) (*Page, error)

	Search(ctx context.Context, r DateRange) ([]*Order, error)

	// GetByID returns ErrOrderNotFound if no order matches.
	GetByID(ctx context.Context, id int) (*Order, error)

	// Create assigns the next integer id.
	Create(ctx context.Context, o *Order) error

	Update(ctx context.Context, o *Order) error

	Delete(ctx context.Context, id int) error
}
