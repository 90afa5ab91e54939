package postgres

import "github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"

// Models lists every table owned by this package, in dependency order.
func Models() []any {
	return []any{
		&operatorRow{},
		&skillRow{},
		&domain.AuditLog{},
	}
}
