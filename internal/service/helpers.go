package service

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/validation"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

func utcNow() time.Time {
	return time.Now().UTC()
}

// stringField returns the string value of a present, non-null key.
func stringField(rec validation.Record, name string) *string {
	f := rec.Field(name)
	if !f.Present {
		return nil
	}
	s, ok := f.String()
	if !ok {
		return nil
	}
	return &s
}

func intField(rec validation.Record, name string) *int {
	f := rec.Field(name)
	if !f.Present {
		return nil
	}
	n, ok := validation.ParseInt(f.Value)
	if !ok {
		return nil
	}
	v := int(n)
	return &v
}

func floatField(rec validation.Record, name string) *float64 {
	f := rec.Field(name)
	if !f.Present {
		return nil
	}
	n, ok := validation.ParseNumber(f.Value)
	if !ok {
		return nil
	}
	return &n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// recorder bundles the side effects every successful mutation produces.
type recorder struct {
	audit   Auditor
	metrics *metrics.Collector
}

func (r recorder) mutated(ctx context.Context, actor domain.Actor, action domain.AuditAction, resource domain.ResourceType, id string) {
	if r.metrics != nil {
		r.metrics.ResourceMutationsTotal.WithLabelValues(string(resource), string(action)).Inc()
	}
	if r.audit != nil {
		r.audit.LogAsync(ctx, AuditEntry{Actor: actor, Action: action, ResourceType: resource, ResourceID: id})
	}
}
