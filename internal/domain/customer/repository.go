package customer

import "context"

type Repository interface {
	List(ctx context.Context) ([]*Customer, error)

	// GetByID returns ErrCustomerNotFound if no customer matches.
	GetByID(ctx context.Context, id string) (*Customer, error)

	// GetByEmail compares case-insensitively.
	GetByEmail(ctx context.Context, email string) (*Customer, error)

	// Create assigns the next CUST-NNN identifier.
	Create(ctx context.Context, c *Customer) error

	Update(ctx context.Context, c *Customer) error
}
