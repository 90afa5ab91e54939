package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/operator"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/validation"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

const (
	OperatorIDHint = "Operator ID must be a valid UUID (e.g., '550e8400-e29b-41d4-a716-446655440000')"

	operatorResource = "operator"
)

var operatorFields = []string{"name", "email", "phone"}

type OperatorService struct {
	repo   operator.Repository
	skills operator.SkillRepository
	rec    recorder
	log    *zap.Logger
	now    func() time.Time
}

func NewOperatorService(repo operator.Repository, skills operator.SkillRepository, audit Auditor, log *zap.Logger, m *metrics.Collector) *OperatorService {
	return &OperatorService{
		repo:   repo,
		skills: skills,
		rec:    recorder{audit: audit, metrics: m},
		log:    log,
		now:    utcNow,
	}
}

func validateOperator(rec validation.Record, isUpdate bool) validation.Errors {
	var errs validation.Errors
	errs = append(errs, validation.Name(rec, "name", !isUpdate)...)
	errs = append(errs, validation.Email(rec, "email", !isUpdate)...)
	errs = append(errs, validation.Phone(rec, "phone", false)...)
	errs = append(errs, validation.AllowedFields(rec, operatorFields...)...)
	return errs
}

func ParseOperatorID(raw string) (uuid.UUID, error) {
	id, errs := validation.UUID(raw, "operator ID")
	if len(errs) > 0 {
		return uuid.Nil, newValidationError(operatorResource, errs, OperatorIDHint)
	}
	return id, nil
}

func (s *OperatorService) List(ctx context.Context) ([]*operator.Operator, error) {
	ops, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list operators", zap.Error(err))
		return nil, fmt.Errorf("listing operators: %w", err)
	}
	return ops, nil
}

func (s *OperatorService) Get(ctx context.Context, rawID string) (*operator.Operator, error) {
	id, err := ParseOperatorID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *OperatorService) Create(ctx context.Context, actor domain.Actor, rec validation.Record) (*operator.Operator, error) {
	rec = validation.Sanitize(rec)
	if errs := validateOperator(rec, false); len(errs) > 0 {
		return nil, newValidationError(operatorResource, errs, "Please fix the following issues with your request")
	}

	cmd := operator.CreateOperatorCommand{
		Name:  deref(stringField(rec, "name")),
		Email: deref(stringField(rec, "email")),
	}
	if p := stringField(rec, "phone"); p != nil && *p != "" {
		cmd.Phone = p
	}

	if err := s.ensureEmailFree(ctx, cmd.Email, uuid.Nil); err != nil {
		return nil, err
	}

	op := operator.New(cmd, s.now())
	if err := s.repo.Create(ctx, op); err != nil {
		if errors.Is(err, operator.ErrEmailTaken) {
			return nil, err
		}
		s.log.Error("failed to create operator", zap.Error(err))
		return nil, fmt.Errorf("creating operator: %w", err)
	}

	s.log.Info("operator created", zap.String("operator_id", op.ID.String()), zap.String("subject", actor.Subject))
	s.rec.mutated(ctx, actor, domain.ActionCreate, domain.ResourceOperator, op.ID.String())
	return op, nil
}

// Update applies a partial update. Existence is checked before the payload
// is validated.
func (s *OperatorService) Update(ctx context.Context, actor domain.Actor, rawID string, rec validation.Record) (*operator.Operator, error) {
	id, err := ParseOperatorID(rawID)
	if err != nil {
		return nil, err
	}

	op, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec = validation.Sanitize(rec)
	if errs := validateOperator(rec, true); len(errs) > 0 {
		return nil, newValidationError(operatorResource, errs, "Please fix the following issues with your update request")
	}

	cmd := operator.UpdateOperatorCommand{
		Name:  stringField(rec, "name"),
		Email: stringField(rec, "email"),
	}
	if f := rec.Field("phone"); f.Present {
		if p := stringField(rec, "phone"); p != nil && *p != "" {
			cmd.Phone = p
		} else {
			cmd.ClearPhone = true
		}
	}

	if cmd.Email != nil {
		if err := s.ensureEmailFree(ctx, *cmd.Email, op.ID); err != nil {
			return nil, err
		}
	}

	op.Apply(cmd, s.now())
	if err := s.repo.Update(ctx, op); err != nil {
		if errors.Is(err, operator.ErrEmailTaken) || errors.Is(err, operator.ErrOperatorNotFound) {
			return nil, err
		}
		s.log.Error("failed to update operator", zap.String("operator_id", op.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("updating operator: %w", err)
	}

	s.rec.mutated(ctx, actor, domain.ActionUpdate, domain.ResourceOperator, op.ID.String())
	return op, nil
}

func (s *OperatorService) Delete(ctx context.Context, actor domain.Actor, rawID string) error {
	id, err := ParseOperatorID(rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, operator.ErrOperatorNotFound) {
			return err
		}
		s.log.Error("failed to delete operator", zap.String("operator_id", id.String()), zap.Error(err))
		return fmt.Errorf("deleting operator: %w", err)
	}

	s.rec.mutated(ctx, actor, domain.ActionDelete, domain.ResourceOperator, id.String())
	return nil
}

func (s *OperatorService) Skills(ctx context.Context, rawID string) (uuid.UUID, []*operator.Skill, error) {
	id, err := ParseOperatorID(rawID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return uuid.Nil, nil, err
	}

	skills, err := s.skills.ListByOperator(ctx, id)
	if err != nil {
		s.log.Error("failed to list skills", zap.String("operator_id", id.String()), zap.Error(err))
		return uuid.Nil, nil, fmt.Errorf("listing skills: %w", err)
	}
	return id, skills, nil
}

// ensureEmailFree fails with ErrEmailTaken when another operator already
// uses email, compared case-insensitively.
func (s *OperatorService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, operator.ErrOperatorNotFound):
		return nil
	case err != nil:
		s.log.Error("failed to check email uniqueness", zap.Error(err))
		return fmt.Errorf("checking email uniqueness: %w", err)
	case existing.ID != self:
		return operator.ErrEmailTaken
	}
	return nil
}
