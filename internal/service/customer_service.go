package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/customer"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/validation"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

const (
	CustomerIDHint = "Customer ID format is CUST-XXX (e.g., CUST-001)"

	customerResource = "customer"
)

type CustomerService struct {
	repo customer.Repository
	rec  recorder
	log  *zap.Logger
}

func NewCustomerService(repo customer.Repository, audit Auditor, log *zap.Logger, m *metrics.Collector) *CustomerService {
	return &CustomerService{repo: repo, rec: recorder{audit: audit, metrics: m}, log: log}
}

// validateCustomer requires all three fields on create. On update a supplied
// field must still be non-empty.
func validateCustomer(rec validation.Record, isUpdate bool) validation.Errors {
	var errs validation.Errors
	errs = append(errs, validation.Name(rec, "name", !isUpdate)...)
	errs = append(errs, validation.Email(rec, "email", !isUpdate)...)
	errs = append(errs, validation.Phone(rec, "phone", !isUpdate || rec.Has("phone"))...)
	return errs
}

func parseCustomerID(raw string) (string, error) {
	if !validation.IsPrefixedID(raw, customer.IDPrefix) {
		return "", invalid(customerResource, "id", "INVALID_CUSTOMER_ID_FORMAT",
			"customer ID must start with '"+customer.IDPrefix+"'", CustomerIDHint)
	}
	return raw, nil
}

func (s *CustomerService) Get(ctx context.Context, rawID string) (*customer.Customer, error) {
	id, err := parseCustomerID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, actor domain.Actor, rec validation.Record) (*customer.Customer, error) {
	rec = validation.Sanitize(rec)
	if errs := validateCustomer(rec, false); len(errs) > 0 {
		return nil, newValidationError(customerResource, errs, "All required fields (name, email, phone) must be provided and non-empty")
	}

	c := customer.New(customer.CreateCustomerCommand{
		Name:  deref(stringField(rec, "name")),
		Email: deref(stringField(rec, "email")),
		Phone: deref(stringField(rec, "phone")),
	})

	if err := s.ensureEmailFree(ctx, c.Email, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, customer.ErrEmailTaken) {
			return nil, err
		}
		s.log.Error("failed to create customer", zap.Error(err))
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	s.rec.mutated(ctx, actor, domain.ActionCreate, domain.ResourceCustomer, c.ID)
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, actor domain.Actor, rawID string, rec validation.Record) (*customer.Customer, error) {
	id, err := parseCustomerID(rawID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec = validation.Sanitize(rec)
	if errs := validateCustomer(rec, true); len(errs) > 0 {
		return nil, newValidationError(customerResource, errs, "Please fix the following issues with your update request")
	}

	cmd := customer.UpdateCustomerCommand{
		Name:  stringField(rec, "name"),
		Email: stringField(rec, "email"),
		Phone: stringField(rec, "phone"),
	}
	if cmd.Email != nil {
		if err := s.ensureEmailFree(ctx, *cmd.Email, c.ID); err != nil {
			return nil, err
		}
	}

	c.Apply(cmd)
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, customer.ErrEmailTaken) || errors.Is(err, customer.ErrCustomerNotFound) {
			return nil, err
		}
		s.log.Error("failed to update customer", zap.String("customer_id", c.ID), zap.Error(err))
		return nil, fmt.Errorf("updating customer: %w", err)
	}

	s.rec.mutated(ctx, actor, domain.ActionUpdate, domain.ResourceCustomer, c.ID)
	return c, nil
}

func (s *CustomerService) ensureEmailFree(ctx context.Context, email, self string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, customer.ErrCustomerNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("checking email uniqueness: %w", err)
	case existing.ID != self:
		return customer.ErrEmailTaken
	}
	return nil
}
