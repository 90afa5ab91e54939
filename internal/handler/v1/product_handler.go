package v1

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/product"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/middleware"
)

type SearchParameters struct {
	Query    *string `json:"query"`
	Category *string `json:"category"`
}

type ProductSearchResponse struct {
	Products         []*product.Product `json:"products"`
	SearchParameters SearchParameters   `json:"search_parameters"`
	TotalResults     int                `json:"total_results"`
}

func (h *Handler) CreateProduct(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	p, err := h.svc.Products.Create(c.Request.Context(), middleware.Actor(c), rec)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	p, err := h.svc.Products.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), rec)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) SearchProducts(c *gin.Context) {
	q := product.SearchQuery{
		Query:    strings.TrimSpace(c.Query("q")),
		Category: strings.TrimSpace(c.Query("category")),
	}
	found, err := h.svc.Products.Search(c.Request.Context(), q)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, ProductSearchResponse{
		Products:         found,
		SearchParameters: SearchParameters{Query: nonEmpty(q.Query), Category: nonEmpty(q.Category)},
		TotalResults:     len(found),
	})
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
