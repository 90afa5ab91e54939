package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/product"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/validation"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

const (
	ProductIDHint = "Product ID format is PRD-XXX (e.g., PRD-001)"

	productResource = "product"
)

type ProductService struct {
	repo product.Repository
	rec  recorder
	log  *zap.Logger
}

func NewProductService(repo product.Repository, audit Auditor, log *zap.Logger, m *metrics.Collector) *ProductService {
	return &ProductService{repo: repo, rec: recorder{audit: audit, metrics: m}, log: log}
}

func validateProduct(rec validation.Record, isUpdate bool) validation.Errors {
	var errs validation.Errors
	errs = append(errs, validation.Name(rec, "name", !isUpdate)...)
	errs = append(errs, validation.Price(rec, "price", !isUpdate)...)
	errs = append(errs, validation.NonEmptyString(rec, "category", !isUpdate)...)
	errs = append(errs, validation.Stock(rec, "stock", !isUpdate)...)
	errs = append(errs, validation.OptionalString(rec, "description")...)
	return errs
}

func parseProductID(raw string) (string, error) {
	if !validation.IsPrefixedID(raw, product.IDPrefix) {
		return "", invalid(productResource, "id", "INVALID_PRODUCT_ID_FORMAT",
			"product ID must start with '"+product.IDPrefix+"'", ProductIDHint)
	}
	return raw, nil
}

func (s *ProductService) Create(ctx context.Context, actor domain.Actor, rec validation.Record) (*product.Product, error) {
	rec = validation.Sanitize(rec)
	if errs := validateProduct(rec, false); len(errs) > 0 {
		return nil, newValidationError(productResource, errs, "Provide name, a positive price, category and a non-negative integer stock")
	}

	p := product.New(product.CreateProductCommand{
		Name:        deref(stringField(rec, "name")),
		Price:       *floatField(rec, "price"),
		Category:    deref(stringField(rec, "category")),
		Stock:       *intField(rec, "stock"),
		Description: deref(stringField(rec, "description")),
	})
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create product", zap.Error(err))
		return nil, fmt.Errorf("creating product: %w", err)
	}

	s.rec.mutated(ctx, actor, domain.ActionCreate, domain.ResourceProduct, p.ID)
	return p, nil
}

// Update validates every supplied field before anything is changed.
func (s *ProductService) Update(ctx context.Context, actor domain.Actor, rawID string, rec validation.Record) (*product.Product, error) {
	id, err := parseProductID(rawID)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec = validation.Sanitize(rec)
	if errs := validateProduct(rec, true); len(errs) > 0 {
		return nil, newValidationError(productResource, errs, "Please fix the following issues with your update request")
	}

	cmd := product.UpdateProductCommand{
		Name:     stringField(rec, "name"),
		Price:    floatField(rec, "price"),
		Category: stringField(rec, "category"),
		Stock:    intField(rec, "stock"),
	}
	if f := rec.Field("description"); f.Present {
		d := deref(stringField(rec, "description"))
		cmd.Description = &d
	}

	p.Apply(cmd)
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, err
		}
		s.log.Error("failed to update product", zap.String("product_id", p.ID), zap.Error(err))
		return nil, fmt.Errorf("updating product: %w", err)
	}

	s.rec.mutated(ctx, actor, domain.ActionUpdate, domain.ResourceProduct, p.ID)
	return p, nil
}

// Search matches on a name substring or an exact category. At least one of
// the two must be non-empty.
func (s *ProductService) Search(ctx context.Context, q product.SearchQuery) ([]*product.Product, error) {
	q.Query = strings.TrimSpace(q.Query)
	q.Category = strings.TrimSpace(q.Category)
	if q.Empty() {
		return nil, product.ErrMissingSearchParams
	}
	return s.repo.Search(ctx, q)
}
