package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/order"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/product"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/validation"
)

func newOrderService() *OrderService {
	_, _, orders, products := newStores()
	svc := NewOrderService(orders, products, &recordingAuditor{}, nopLogger(), nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestOrderService_Create(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	o, err := svc.Create(ctx, testActor, validation.Record{
		"product_id":     "PRD-002",
		"quantity":       json.Number("3"),
		"customer_email": "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, o.ID)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, 3, o.Quantity)
	assert.Equal(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), o.CreatedAt)
}

func TestOrderService_CreateValidation(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	_, err := svc.Create(ctx, testActor, validation.Record{"product_id": "BAD", "quantity": json.Number("1"), "customer_email": "a@b.co"})
	requireValidation(t, err, http.StatusBadRequest, "INVALID_PRODUCT_ID_FORMAT")

	_, err = svc.Create(ctx, testActor, validation.Record{"product_id": "PRD-001", "quantity": json.Number("0"), "customer_email": "a@b.co"})
	requireValidation(t, err, http.StatusUnprocessableEntity, "INVALID_QUANTITY_VALUE")

	_, err = svc.Create(ctx, testActor, validation.Record{"product_id": "PRD-999", "quantity": json.Number("1"), "customer_email": "a@b.co"})
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestOrderService_List(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	page, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOrderLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Len(t, page.Orders, 2)

	_, err = svc.List(ctx, "ten", "")
	requireValidation(t, err, http.StatusBadRequest, "INVALID_PAGINATION_PARAMS")

	_, err = svc.List(ctx, "0", "")
	requireValidation(t, err, http.StatusBadRequest, "INVALID_LIMIT_VALUE")

	_, err = svc.List(ctx, "5", "-1")
	requireValidation(t, err, http.StatusBadRequest, "INVALID_OFFSET_VALUE")
}

func TestOrderService_Search(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	found, err := svc.Search(ctx, "2024-01-02", "2024-01-02")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 2, found[0].ID)

	found, err = svc.Search(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = svc.Search(ctx, "01/02/2024", "")
	requireValidation(t, err, http.StatusBadRequest, "INVALID_DATE_FROM_FORMAT")

	_, err = svc.Search(ctx, "2024-02-01", "2024-01-01")
	requireValidation(t, err, http.StatusBadRequest, "INVALID_DATE_RANGE")
}

func TestOrderService_Update(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	o, err := svc.Update(ctx, testActor, "1", validation.Record{"status": "shipped", "notes": "left at door"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, o.Status)
	require.NotNil(t, o.Notes)

	o, err = svc.Update(ctx, testActor, "1", validation.Record{"notes": nil})
	require.NoError(t, err)
	assert.Nil(t, o.Notes)
	assert.Equal(t, order.StatusShipped, o.Status)

	_, err = svc.Update(ctx, testActor, "1", validation.Record{"status": "lost"})
	verr := requireValidation(t, err, http.StatusBadRequest, "INVALID_ORDER_STATUS")
	assert.Equal(t, []string{"status must be one of: pending, processing, shipped, delivered, cancelled"}, verr.Issues.Messages())

	_, err = svc.Update(ctx, testActor, "abc", validation.Record{"status": "shipped"})
	requireValidation(t, err, http.StatusBadRequest, "INVALID_ORDER_ID_FORMAT")

	_, err = svc.Update(ctx, testActor, "99", validation.Record{"status": "shipped"})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestOrderService_DeleteOnlyPending(t *testing.T) {
	svc := newOrderService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, testActor, "2"), order.ErrDeletionForbidden)
	_, err := svc.Get(ctx, "2")
	require.NoError(t, err, "a forbidden delete leaves the order in place")

	require.NoError(t, svc.Delete(ctx, testActor, "1"))
	_, err = svc.Get(ctx, "1")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
