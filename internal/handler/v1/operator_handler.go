package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/operator"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/middleware"
)

type SkillsResponse struct {
	Data       []*operator.Skill `json:"data"`
	Count      int               `json:"count"`
	OperatorID uuid.UUID         `json:"operator_id"`
}

func (h *Handler) ListOperators(c *gin.Context) {
	ops, err := h.svc.Operators.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, ListResponse[*operator.Operator]{Data: ops, Count: len(ops)})
}

func (h *Handler) GetOperator(c *gin.Context) {
	op, err := h.svc.Operators.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, op)
}

func (h *Handler) CreateOperator(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	op, err := h.svc.Operators.Create(c.Request.Context(), middleware.Actor(c), rec)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondCreated(c, APIResponse[*operator.Operator]{Message: "Operator created successfully", Data: op})
}

func (h *Handler) UpdateOperator(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	op, err := h.svc.Operators.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), rec)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, APIResponse[*operator.Operator]{Message: "Operator updated successfully", Data: op})
}

func (h *Handler) DeleteOperator(c *gin.Context) {
	if err := h.svc.Operators.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondMessage(c, "Operator deleted successfully")
}

func (h *Handler) ListOperatorSkills(c *gin.Context) {
	id, skills, err := h.svc.Operators.Skills(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, SkillsResponse{Data: skills, Count: len(skills), OperatorID: id})
}
