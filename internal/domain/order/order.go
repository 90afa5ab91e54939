package order

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// StatusNames lists the accepted status values in lifecycle order.
func StatusNames() []string {
	return []string{
		string(StatusPending),
		string(StatusProcessing),
		string(StatusShipped),
		string(StatusDelivered),
		string(StatusCancelled),
	}
}

type Order struct {
	ID            int       `json:"id"`
	ProductID     string    `json:"product_id"`
	Quantity      int       `json:"quantity"`
	CustomerEmail string    `json:"customer_email"`
	Status        Status    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Deletable reports whether the order may be removed. Only pending orders
// can be deleted.
func (o *Order) Deletable() bool {
	return o.Status == StatusPending
}

type CreateOrderCommand struct {
	ProductID     string
	Quantity      int
	CustomerEmail string
}

type UpdateOrderCommand struct {
	Status     *Status
	Notes      *string
	ClearNotes bool
}

func (o *Order) Apply(cmd UpdateOrderCommand) {
	if cmd.Status != nil {
		o.Status = *cmd.Status
	}
	if cmd.ClearNotes {
		o.Notes = nil
	} else if cmd.Notes != nil {
		n := *cmd.Notes
		o.Notes = &n
	}
}

type Page struct {
	Orders []*Order
	Total  int
	Limit  int
	Offset int
}

// DateRange filters on the calendar date of CreatedAt (UTC), both ends
// inclusive. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	day := t.UTC().Truncate(24 * time.Hour)
	if r.From != nil && day.Before(r.From.UTC().Truncate(24*time.Hour)) {
		return false
	}
	if r.To != nil && day.After(r.To.UTC().Truncate(24*time.Hour)) {
		return false
	}
	return true
}
