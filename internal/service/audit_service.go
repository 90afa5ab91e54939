package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

type AuditEntry struct {
	Actor        domain.Actor
	Action       domain.AuditAction
	ResourceType domain.ResourceType
	ResourceID   string
}

func (e AuditEntry) record(at time.Time) *domain.AuditLog {
	return &domain.AuditLog{
		ID:           uuid.New(),
		OccurredAt:   at,
		Subject:      e.Actor.Subject,
		IPAddress:    e.Actor.IPAddress,
		RequestID:    e.Actor.RequestID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
	}
}

// Auditor is implemented by AuditService. Services depend on the interface
// so tests can record entries synchronously.
type Auditor interface {
	LogAsync(ctx context.Context, entry AuditEntry)
}

const (
	auditQueueSize = 10_000
	persistTimeout = 5 * time.Second
)

// AuditService persists audit entries on a single background worker so
// request handlers never wait on the audit store.
type AuditService struct {
	repo    AuditRepository
	log     *zap.Logger
	metrics *metrics.Collector

	mu      sync.RWMutex
	stopped bool
	queue   chan *domain.AuditLog
	drained chan struct{}
}

func NewAuditService(repo AuditRepository, log *zap.Logger, m *metrics.Collector) *AuditService {
	return newAuditService(repo, log, m, auditQueueSize)
}

func newAuditService(repo AuditRepository, log *zap.Logger, m *metrics.Collector, size int) *AuditService {
	s := &AuditService{
		repo:    repo,
		log:     log,
		metrics: m,
		queue:   make(chan *domain.AuditLog, size),
		drained: make(chan struct{}),
	}
	go s.run()
	return s
}

// LogAsync queues entry without blocking. Entries that arrive while the
// queue is full, or after Shutdown, are dropped with a warning.
func (s *AuditService) LogAsync(_ context.Context, entry AuditEntry) {
	rec := entry.record(time.Now().UTC())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		s.drop(entry, "audit service stopped, dropping entry")
		return
	}
	select {
	case s.queue <- rec:
	default:
		s.drop(entry, "audit log buffer full, dropping entry")
	}
}

func (s *AuditService) drop(entry AuditEntry, msg string) {
	if s.metrics != nil {
		s.metrics.AuditBufferDropped.Inc()
	}
	s.log.Warn(msg,
		zap.String("action", string(entry.Action)),
		zap.String("resource", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
	)
}

// Shutdown stops intake and waits for queued entries to be written or for
// ctx to end, whichever comes first. It is safe to call more than once.
func (s *AuditService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.drained:
		return nil
	case <-ctx.Done():
		s.log.Warn("audit queue not drained before shutdown deadline", zap.Int("pending", len(s.queue)))
		return ctx.Err()
	}
}

func (s *AuditService) run() {
	defer close(s.drained)
	for rec := range s.queue {
		s.persist(rec)
	}
}

func (s *AuditService) persist(rec *domain.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, rec); err != nil {
		s.log.Error("failed to persist audit log",
			zap.String("resource", string(rec.ResourceType)),
			zap.String("resource_id", rec.ResourceID),
			zap.Error(err),
		)
		return
	}
	if s.metrics != nil {
		s.metrics.AuditEntriesTotal.Inc()
	}
}
