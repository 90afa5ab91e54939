package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/order"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/middleware"
)

type OrderPageResponse struct {
	Orders []*order.Order `json:"orders"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type OrderSearchResponse struct {
	Orders []*order.Order `json:"orders"`
	Total  int            `json:"total"`
}

func (h *Handler) CreateOrder(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	o, err := h.svc.Orders.Create(c.Request.Context(), middleware.Actor(c), rec)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondCreated(c, o)
}

func (h *Handler) ListOrders(c *gin.Context) {
	page, err := h.svc.Orders.List(c.Request.Context(), c.Query("limit"), c.Query("offset"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, OrderPageResponse{Orders: page.Orders, Total: page.Total, Limit: page.Limit, Offset: page.Offset})
}

func (h *Handler) SearchOrders(c *gin.Context) {
	orders, err := h.svc.Orders.Search(c.Request.Context(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, OrderSearchResponse{Orders: orders, Total: len(orders)})
}

func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.svc.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, o)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	o, err := h.svc.Orders.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), rec)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, o)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.svc.Orders.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondMessage(c, "Order deleted successfully")
}
