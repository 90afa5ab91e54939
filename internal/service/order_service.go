package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/order"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/product"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/validation"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

const (
	DefaultOrderLimit = 10

	orderResource = "order"
)

type OrderService struct {
	repo     order.Repository
	products product.Repository
	rec      recorder
	log      *zap.Logger
	now      func() time.Time
}

func NewOrderService(repo order.Repository, products product.Repository, audit Auditor, log *zap.Logger, m *metrics.Collector) *OrderService {
	return &OrderService{
		repo:     repo,
		products: products,
		rec:      recorder{audit: audit, metrics: m},
		log:      log,
		now:      utcNow,
	}
}

func validateOrderCreate(rec validation.Record) validation.Errors {
	var errs validation.Errors
	errs = append(errs, validation.ProductRef(rec, "product_id", true)...)
	errs = append(errs, validation.Quantity(rec, "quantity", true)...)
	errs = append(errs, validation.Email(rec, "customer_email", true)...)
	return errs
}

func validateOrderUpdate(rec validation.Record) validation.Errors {
	var errs validation.Errors
	errs = append(errs, validation.Enum(rec, "status", "INVALID_ORDER_STATUS", order.StatusNames()...)...)
	errs = append(errs, validation.OptionalString(rec, "notes")...)
	return errs
}

func ParseOrderID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(orderResource, "id", "INVALID_ORDER_ID_FORMAT",
			"order ID must be an integer", "Use the numeric order ID (e.g., /orders/1)")
	}
	return id, nil
}

func (s *OrderService) Create(ctx context.Context, actor domain.Actor, rec validation.Record) (*order.Order, error) {
	rec = validation.Sanitize(rec)
	if errs := validateOrderCreate(rec); len(errs) > 0 {
		return nil, newValidationError(orderResource, errs, "Provide product_id (PRD-XXX), a positive integer quantity and a valid customer_email")
	}

	cmd := order.CreateOrderCommand{
		ProductID:     deref(stringField(rec, "product_id")),
		Quantity:      *intField(rec, "quantity"),
		CustomerEmail: deref(stringField(rec, "customer_email")),
	}

	if _, err := s.products.GetByID(ctx, cmd.ProductID); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("checking product: %w", err)
	}

	o := &order.Order{
		ProductID:     cmd.ProductID,
		Quantity:      cmd.Quantity,
		CustomerEmail: cmd.CustomerEmail,
		Status:        order.StatusPending,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		s.log.Error("failed to create order", zap.Error(err))
		return nil, fmt.Errorf("creating order: %w", err)
	}

	s.rec.mutated(ctx, actor, domain.ActionCreate, domain.ResourceOrder, strconv.Itoa(o.ID))
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, rawID string) (*order.Order, error) {
	id, err := ParseOrderID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List pages through orders. Empty parameters take the defaults
// limit=10 and offset=0.
func (s *OrderService) List(ctx context.Context, rawLimit, rawOffset string) (*order.Page, error) {
	limit, offset, errs := parsePagination(rawLimit, rawOffset)
	if len(errs) > 0 {
		return nil, newValidationError(orderResource, errs, "Use integer query parameters, e.g. /orders?limit=10&offset=0")
	}
	return s.repo.List(ctx, limit, offset)
}

func parsePagination(rawLimit, rawOffset string) (int, int, validation.Errors) {
	limit, offset := DefaultOrderLimit, 0
	var err error

	if rawLimit != "" {
		if limit, err = strconv.Atoi(rawLimit); err != nil {
			return 0, 0, validation.Errors{validation.Invalid("limit", "INVALID_PAGINATION_PARAMS", "limit and offset must be valid integer numbers")}
		}
	}
	if rawOffset != "" {
		if offset, err = strconv.Atoi(rawOffset); err != nil {
			return 0, 0, validation.Errors{validation.Invalid("offset", "INVALID_PAGINATION_PARAMS", "limit and offset must be valid integer numbers")}
		}
	}

	var errs validation.Errors
	if limit <= 0 {
		errs = append(errs, validation.Invalid("limit", "INVALID_LIMIT_VALUE", "limit must be a positive integer greater than 0"))
	}
	if offset < 0 {
		errs = append(errs, validation.Invalid("offset", "INVALID_OFFSET_VALUE", "offset must be a non-negative integer (0 or greater)"))
	}
	return limit, offset, errs
}

// Search filters orders whose creation date lies within [dateFrom, dateTo].
func (s *OrderService) Search(ctx context.Context, dateFrom, dateTo string) ([]*order.Order, error) {
	var (
		dr   order.DateRange
		errs validation.Errors
	)
	if dateFrom = strings.TrimSpace(dateFrom); dateFrom != "" {
		if t, ok := validation.ParseDate(dateFrom); ok {
			dr.From = &t
		} else {
			errs = append(errs, validation.Invalid("date_from", "INVALID_DATE_FROM_FORMAT", "date_from must be in YYYY-MM-DD format"))
		}
	}
	if dateTo = strings.TrimSpace(dateTo); dateTo != "" {
		if t, ok := validation.ParseDate(dateTo); ok {
			dr.To = &t
		} else {
			errs = append(errs, validation.Invalid("date_to", "INVALID_DATE_TO_FORMAT", "date_to must be in YYYY-MM-DD format"))
		}
	}
	if len(errs) == 0 && dr.From != nil && dr.To != nil && dr.From.After(*dr.To) {
		errs = append(errs, validation.Invalid("date_from", "INVALID_DATE_RANGE", order.ErrInvalidDateRange.Error()))
	}
	if len(errs) > 0 {
		return nil, newValidationError(orderResource, errs, "Dates use the YYYY-MM-DD format, e.g. 2024-12-31")
	}

	return s.repo.Search(ctx, dr)
}

func (s *OrderService) Update(ctx context.Context, actor domain.Actor, rawID string, rec validation.Record) (*order.Order, error) {
	id, err := ParseOrderID(rawID)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec = validation.Sanitize(rec)
	if errs := validateOrderUpdate(rec); len(errs) > 0 {
		return nil, newValidationError(orderResource, errs, "Updatable fields are status and notes")
	}

	var cmd order.UpdateOrderCommand
	if st := stringField(rec, "status"); st != nil {
		status := order.Status(*st)
		cmd.Status = &status
	}
	if f := rec.Field("notes"); f.Present {
		if f.IsNull() {
			cmd.ClearNotes = true
		} else {
			cmd.Notes = stringField(rec, "notes")
		}
	}

	o.Apply(cmd)
	if err := s.repo.Update(ctx, o); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil, err
		}
		s.log.Error("failed to update order", zap.Int("order_id", o.ID), zap.Error(err))
		return nil, fmt.Errorf("updating order: %w", err)
	}

	s.rec.mutated(ctx, actor, domain.ActionUpdate, domain.ResourceOrder, strconv.Itoa(o.ID))
	return o, nil
}

// Delete removes a pending order. Any other status yields
// ErrDeletionForbidden and leaves the store untouched.
func (s *OrderService) Delete(ctx context.Context, actor domain.Actor, rawID string) error {
	id, err := ParseOrderID(rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) || errors.Is(err, order.ErrDeletionForbidden) {
			return err
		}
		s.log.Error("failed to delete order", zap.Int("order_id", id), zap.Error(err))
		return fmt.Errorf("deleting order: %w", err)
	}

	s.rec.mutated(ctx, actor, domain.ActionDelete, domain.ResourceOrder, strconv.Itoa(id))
	return nil
}
