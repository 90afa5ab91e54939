package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/apierror"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/customer"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/operator"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/order"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/product"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/service"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/validation"
)

type APIResponse[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// bindRecord reads the request body as a JSON object. It writes the error
// response itself and returns false when the body is unusable.
func (h *Handler) bindRecord(c *gin.Context) (validation.Record, bool) {
	if c.ContentType() != gin.MIMEJSON {
		h.builder.Build("Invalid content type", http.StatusBadRequest,
			apierror.WithCode("INVALID_CONTENT_TYPE"),
			apierror.WithMessage("Content-Type must be application/json"),
			apierror.WithHint("Set the 'Content-Type: application/json' header"),
		).Respond(c)
		return nil, false
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	rec, err := validation.Decode(body)
	if err == nil {
		return rec, true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, validation.ErrEmptyBody):
		h.builder.Build("No data provided", http.StatusBadRequest,
			apierror.WithCode("MISSING_REQUEST_BODY"),
			apierror.WithMessage("Request body must contain valid JSON data"),
		).Respond(c)
	case errors.As(err, &tooLarge):
		h.builder.Build("Request body too large", http.StatusRequestEntityTooLarge,
			apierror.WithCode("REQUEST_TOO_LARGE"),
			apierror.WithMessage(fmt.Sprintf("Request body must not exceed %d bytes", tooLarge.Limit)),
		).Respond(c)
	default:
		h.builder.Build("Invalid JSON", http.StatusBadRequest,
			apierror.WithCode("INVALID_JSON"),
			apierror.WithMessage("Request body must be a valid JSON object"),
			apierror.WithDetails(err.Error()),
		).Respond(c)
	}
	return nil, false
}

type notFound struct {
	message string
	code    string
	hint    string
}

func notFoundFor(err error, id string) (notFound, bool) {
	switch {
	case errors.Is(err, operator.ErrOperatorNotFound):
		return notFound{"Operator not found", "OPERATOR_NOT_FOUND",
			fmt.Sprintf("No operator exists with ID '%s'", id)}, true
	case errors.Is(err, customer.ErrCustomerNotFound):
		return notFound{"Customer not found", "CUSTOMER_NOT_FOUND",
			fmt.Sprintf("No customer exists with ID '%s'", id)}, true
	case errors.Is(err, order.ErrOrderNotFound):
		return notFound{"Order not found", "ORDER_NOT_FOUND",
			fmt.Sprintf("No order exists with ID '%s'", id)}, true
	case errors.Is(err, product.ErrProductNotFound):
		return notFound{"Product not found", "PRODUCT_NOT_FOUND",
			"Check the product ID; use /api/v1/products/search to look products up"}, true
	}
	return notFound{}, false
}

// respondServiceError maps service results onto the error response builder.
// Anything unrecognised is logged and returned as a generic 500.
func (h *Handler) respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		if h.metrics != nil {
			if primary, ok := verr.Issues.Primary(); ok {
				h.metrics.ValidationFailures.WithLabelValues(verr.Resource, primary.Code).Inc()
			}
		}
		h.builder.Validation(verr.Issues, verr.Hint).Respond(c)
		return
	}

	if nf, ok := notFoundFor(err, c.Param("id")); ok {
		h.builder.Build(nf.message, http.StatusNotFound,
			apierror.WithCode(nf.code),
			apierror.WithHint(nf.hint),
		).Respond(c)
		return
	}

	switch {
	case errors.Is(err, operator.ErrEmailTaken),
		errors.Is(err, customer.ErrEmailTaken):
		h.builder.Build("Email already exists", http.StatusConflict,
			apierror.WithCode("EMAIL_ALREADY_EXISTS"),
			apierror.WithHint("Use a different email address; emails are compared case-insensitively"),
		).Respond(c)

	case errors.Is(err, order.ErrDeletionForbidden):
		h.builder.Build("Order cannot be deleted", http.StatusForbidden,
			apierror.WithCode("ORDER_DELETION_FORBIDDEN"),
			apierror.WithMessage("Only orders with status 'pending' can be deleted"),
			apierror.WithHint("Cancel the order by updating its status instead"),
		).Respond(c)

	case errors.Is(err, product.ErrMissingSearchParams):
		h.builder.Build("Missing search parameters", http.StatusBadRequest,
			apierror.WithCode("MISSING_SEARCH_PARAMETERS"),
			apierror.WithMessage("At least one search parameter (q or category) must be provided and non-empty"),
			apierror.WithHint("e.g. /api/v1/products/search?q=laptop or ?category=Electronics"),
		).Respond(c)

	default:
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.RequestID(c)),
			zap.Error(err),
		)
		h.builder.Internal("Internal server error", err).Respond(c)
	}
}
