package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/repository/memory"
)

type recordingAuditor struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (a *recordingAuditor) LogAsync(_ context.Context, e AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *recordingAuditor) recorded() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AuditEntry(nil), a.entries...)
}

var testActor = domain.Actor{Subject: "user-1", IPAddress: "10.0.0.1", RequestID: "req-1"}

// requireValidation unwraps a *ValidationError and checks its status and
// primary code.
func requireValidation(t *testing.T, err error, status int, code string) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	assert.Equal(t, status, verr.Issues.Status())
	primary, ok := verr.Issues.Primary()
	require.True(t, ok)
	assert.Equal(t, code, primary.Code)
	return verr
}

func newStores() (*memory.OperatorRepository, *memory.CustomerRepository, *memory.OrderRepository, *memory.ProductRepository) {
	return memory.NewOperatorRepository(),
		memory.NewCustomerRepository(memory.SeedCustomers()...),
		memory.NewOrderRepository(memory.SeedOrders()...),
		memory.NewProductRepository(memory.SeedProducts()...)
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
