package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/middleware"
)

func (h *Handler) CreateCustomer(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	cust, err := h.svc.Customers.Create(c.Request.Context(), middleware.Actor(c), rec)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondCreated(c, cust)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	cust, err := h.svc.Customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, cust)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	cust, err := h.svc.Customers.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), rec)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, cust)
}
