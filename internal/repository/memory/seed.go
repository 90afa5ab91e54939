package memory

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/customer"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/order"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/product"
)

// Fixture data loaded at startup so the mock stores are never empty.

func SeedCustomers() []customer.Customer {
	return []customer.Customer{
		{ID: "CUST-001", Name: "John Doe", Email: "john@example.com", Phone: "+1234567890"},
		{ID: "CUST-002", Name: "Jane Smith", Email: "jane@example.com", Phone: "+0987654321"},
	}
}

func SeedProducts() []product.Product {
	return []product.Product{
		{ID: "PRD-001", Name: "Laptop", Price: 999.99, Category: "Electronics", Stock: 50, Description: "High-performance laptop"},
		{ID: "PRD-002", Name: "Mouse", Price: 29.99, Category: "Electronics", Stock: 100, Description: "Wireless mouse"},
	}
}

func SeedOrders() []order.Order {
	return []order.Order{
		{
			ID: 1, ProductID: "PRD-001", Quantity: 2, CustomerEmail: "john@example.com",
			Status: order.StatusPending, CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, ProductID: "PRD-002", Quantity: 1, CustomerEmail: "jane@example.com",
			Status: order.StatusDelivered, CreatedAt: time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC),
		},
	}
}
