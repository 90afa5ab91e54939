package memory

import (
	"context"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
)

const defaultAuditCapacity = 1000

// AuditRepository retains the most recent audit entries in a ring buffer.
type AuditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditLog
	next    int
	full    bool
}

func NewAuditRepository(capacity int) *AuditRepository {
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	return &AuditRepository{entries: make([]domain.AuditLog, capacity)}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = *entry
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// Recent returns retained entries, oldest first.
func (r *AuditRepository) Recent() []domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		return append([]domain.AuditLog(nil), r.entries[:r.next]...)
	}
	out := make([]domain.AuditLog, 0, len(r.entries))
	out = append(out, r.entries[r.next:]...)
	return append(out, r.entries[:r.next]...)
}
