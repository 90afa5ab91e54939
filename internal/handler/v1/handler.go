package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/apierror"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/service"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

const defaultMaxBodyBytes = 1 << 20

type Services struct {
	Operators *service.OperatorService
	Customers *service.CustomerService
	Orders    *service.OrderService
	Products  *service.ProductService
}

type Handler struct {
	svc          Services
	builder      *apierror.Builder
	log          *zap.Logger
	metrics      *metrics.Collector
	maxBodyBytes int64
}

func New(svc Services, builder *apierror.Builder, log *zap.Logger, m *metrics.Collector, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{svc: svc, builder: builder, log: log, metrics: m, maxBodyBytes: maxBodyBytes}
}

// Register mounts the v1 routes. protect is applied to every endpoint that
// requires a bearer token.
func (h *Handler) Register(api *gin.RouterGroup, protect gin.HandlerFunc) {
	ops := api.Group("/operators")
	{
		ops.GET("", h.ListOperators)
		ops.GET("/:id", h.GetOperator)
		ops.GET("/:id/skills", h.ListOperatorSkills)
		ops.POST("", protect, h.CreateOperator)
		ops.PUT("/:id", protect, h.UpdateOperator)
		ops.DELETE("/:id", protect, h.DeleteOperator)
	}

	customers := api.Group("/customers", protect)
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
	}

	orders := api.Group("/orders", protect)
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/search", h.SearchOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
		orders.DELETE("/:id", h.DeleteOrder)
	}

	products := api.Group("/products", protect)
	{
		products.POST("", h.CreateProduct)
		products.GET("/search", h.SearchProducts)
		products.PATCH("/:id", h.UpdateProduct)
	}
}
