package product

const IDPrefix = "PRD-"

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
}

type CreateProductCommand struct {
	Name        string
	Price       float64
	Category    string
	Stock       int
	Description string
}

type UpdateProductCommand struct {
	Name        *string
	Price       *float64
	Category    *string
	Stock       *int
	Description *string
}

func New(cmd CreateProductCommand) *Product {
	return &Product{
		Name:        cmd.Name,
		Price:       cmd.Price,
		Category:    cmd.Category,
		Stock:       cmd.Stock,
		Description: cmd.Description,
	}
}

func (p *Product) Apply(cmd UpdateProductCommand) {
	if cmd.Name != nil {
		p.Name = *cmd.Name
	}
	if cmd.Price != nil {
		p.Price = *cmd.Price
	}
	if cmd.Category != nil {
		p.Category = *cmd.Category
	}
	if cmd.Stock != nil {
		p.Stock = *cmd.Stock
	}
	if cmd.Description != nil {
		p.Description = *cmd.Description
	}
}

// SearchQuery matches a product when its name contains Query or its category
// equals Category, both case-insensitively.
type SearchQuery struct {
	Query    string
	Category string
}

func (q SearchQuery) Empty() bool {
	return q.Query == "" && q.Category == ""
}
