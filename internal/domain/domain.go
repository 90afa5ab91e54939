package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

type ResourceType string

const (
	ResourceOperator ResourceType = "operator"
	ResourceCustomer ResourceType = "customer"
	ResourceOrder    ResourceType = "order"
	ResourceProduct  ResourceType = "product"
)

// AuditLog records who changed which resource. Subject is the identity
// taken from the bearer token.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index"`

	Subject   string `gorm:"column:subject;type:varchar(255);not null;index"`
	IPAddress string `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6

	Action       AuditAction  `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType ResourceType `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string       `gorm:"column:resource_id;type:varchar(64);index"`

	RequestID string `gorm:"column:request_id;type:varchar(64);index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Actor identifies the authenticated caller behind a mutation.
type Actor struct {
	Subject   string
	IPAddress string
	RequestID string
}
