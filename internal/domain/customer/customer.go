package customer

import "strings"

const IDPrefix = "CUST-"

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateCustomerCommand struct {
	Name  string
	Email string
	Phone string
}

type UpdateCustomerCommand struct {
	Name  *string
	Email *string
	Phone *string
}

// New builds an unsaved customer. The repository assigns the ID.
func New(cmd CreateCustomerCommand) *Customer {
	return &Customer{Name: cmd.Name, Email: NormalizeEmail(cmd.Email), Phone: cmd.Phone}
}

func (c *Customer) Apply(cmd UpdateCustomerCommand) {
	if cmd.Name != nil {
		c.Name = *cmd.Name
	}
	if cmd.Email != nil {
		c.Email = NormalizeEmail(*cmd.Email)
	}
	if cmd.Phone != nil {
		c.Phone = *cmd.Phone
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
