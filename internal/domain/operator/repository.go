package operator

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// List returns all readable operators, newest first. Rows that fail to
	// parse are skipped.
	List(ctx context.Context) ([]*Operator, error)

	// GetByID returns ErrOperatorNotFound if no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Operator, error)

	// GetByEmail compares case-insensitively.
	GetByEmail(ctx context.Context, email string) (*Operator, error)

	// Create returns ErrEmailTaken on a unique violation.
	Create(ctx context.Context, op *Operator) error

	Update(ctx context.Context, op *Operator) error

	// Delete removes the operator and its skills in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

type SkillRepository interface {
	ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]*Skill, error)
	Add(ctx context.Context, s *Skill) error
}
