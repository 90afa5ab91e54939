package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	fail    bool
	block   chan struct{}
}

func (r *memAuditRepo) Create(_ context.Context, e *domain.AuditLog) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("db down")
	}
	r.entries = append(r.entries, e)
	return nil
}

func TestAuditService_PersistsOnShutdown(t *testing.T) {
	repo := &memAuditRepo{}
	svc := NewAuditService(repo, zap.NewNop(), metrics.NewCollector("test", prometheus.NewRegistry()))

	for i := 0; i < 5; i++ {
		svc.LogAsync(context.Background(), AuditEntry{
			Actor:        testActor,
			Action:       domain.ActionUpdate,
			ResourceType: domain.ResourceOrder,
			ResourceID:   "1",
		})
	}
	require.NoError(t, svc.Shutdown(context.Background()))

	require.Len(t, repo.entries, 5)
	e := repo.entries[0]
	assert.Equal(t, "user-1", e.Subject)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, domain.ResourceOrder, e.ResourceType)
	assert.NotZero(t, e.OccurredAt)
}

func TestAuditService_DropsWhenBufferFull(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &memAuditRepo{block: make(chan struct{})}
	svc := newAuditService(repo, zap.New(core), nil, 1)

	entry := AuditEntry{Actor: testActor, Action: domain.ActionCreate, ResourceType: domain.ResourceProduct}
	// One entry is held by the blocked worker, one fills the buffer.
	for i := 0; i < 5; i++ {
		svc.LogAsync(context.Background(), entry)
	}
	close(repo.block)
	require.NoError(t, svc.Shutdown(context.Background()))

	assert.GreaterOrEqual(t, logs.FilterMessage("audit log buffer full, dropping entry").Len(), 3)
	assert.LessOrEqual(t, len(repo.entries), 2)
}

func TestAuditService_LogsPersistFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	svc := NewAuditService(&memAuditRepo{fail: true}, zap.New(core), nil)

	svc.LogAsync(context.Background(), AuditEntry{Actor: testActor, Action: domain.ActionDelete, ResourceType: domain.ResourceOperator})
	require.NoError(t, svc.Shutdown(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("failed to persist audit log").Len())
}

func TestAuditService_DropsAfterShutdown(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &memAuditRepo{}
	svc := NewAuditService(repo, zap.New(core), nil)
	require.NoError(t, svc.Shutdown(context.Background()))
	require.NoError(t, svc.Shutdown(context.Background()))

	svc.LogAsync(context.Background(), AuditEntry{Actor: testActor, Action: domain.ActionCreate, ResourceType: domain.ResourceCustomer})

	assert.Equal(t, 1, logs.FilterMessage("audit service stopped, dropping entry").Len())
	assert.Empty(t, repo.entries)
}

func TestAuditService_ShutdownHonoursDeadline(t *testing.T) {
	repo := &memAuditRepo{block: make(chan struct{})}
	svc := newAuditService(repo, zap.NewNop(), nil, 4)
	svc.LogAsync(context.Background(), AuditEntry{Actor: testActor, Action: domain.ActionUpdate, ResourceType: domain.ResourceOrder})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.Shutdown(ctx), context.Canceled)

	close(repo.block)
}
