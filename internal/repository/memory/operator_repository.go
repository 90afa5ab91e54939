package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/operator"
)

// OperatorRepository keeps operators and their skills in process. It backs
// the server when no database is configured.
type OperatorRepository struct {
	mu        sync.RWMutex
	operators map[uuid.UUID]operator.Operator
	skills    map[uuid.UUID][]operator.Skill
}

func NewOperatorRepository() *OperatorRepository {
	return &OperatorRepository{
		operators: make(map[uuid.UUID]operator.Operator),
		skills:    make(map[uuid.UUID][]operator.Skill),
	}
}

func cloneOperator(op operator.Operator) *operator.Operator {
	if op.Phone != nil {
		p := *op.Phone
		op.Phone = &p
	}
	return &op
}

func (r *OperatorRepository) List(ctx context.Context) ([]*operator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*operator.Operator, 0, len(r.operators))
	for _, op := range r.operators {
		out = append(out, cloneOperator(op))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *OperatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*operator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.operators[id]
	if !ok {
		return nil, operator.ErrOperatorNotFound
	}
	return cloneOperator(op), nil
}

func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, op := range r.operators {
		if strings.EqualFold(op.Email, email) {
			return cloneOperator(op), nil
		}
	}
	return nil, operator.ErrOperatorNotFound
}

func (r *OperatorRepository) Create(ctx context.Context, op *operator.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(op.Email, uuid.Nil) {
		return operator.ErrEmailTaken
	}
	r.operators[op.ID] = *cloneOperator(*op)
	return nil
}

func (r *OperatorRepository) Update(ctx context.Context, op *operator.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.operators[op.ID]; !ok {
		return operator.ErrOperatorNotFound
	}
	if r.emailTaken(op.Email, op.ID) {
		return operator.ErrEmailTaken
	}
	r.operators[op.ID] = *cloneOperator(*op)
	return nil
}

func (r *OperatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.operators[id]; !ok {
		return operator.ErrOperatorNotFound
	}
	delete(r.operators, id)
	delete(r.skills, id)
	return nil
}

func (r *OperatorRepository) emailTaken(email string, excludeID uuid.UUID) bool {
	for id, op := range r.operators {
		if id != excludeID && strings.EqualFold(op.Email, email) {
			return true
		}
	}
	return false
}

// ListByOperator returns skills newest first.
func (r *OperatorRepository) ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]*operator.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.skills[operatorID]
	out := make([]*operator.Skill, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		s := src[i]
		out = append(out, &s)
	}
	return out, nil
}

func (r *OperatorRepository) Add(ctx context.Context, s *operator.Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.operators[s.OperatorID]; !ok {
		return operator.ErrOperatorNotFound
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Level == "" {
		s.Level = operator.DefaultSkillLevel
	}
	r.skills[s.OperatorID] = append(r.skills[s.OperatorID], *s)
	return nil
}
