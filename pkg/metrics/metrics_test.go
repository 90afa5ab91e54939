package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func scrape(c *Collector) string {
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestCollector_CountersAreExposed(t *testing.T) {
	c := NewCollector("storefront", prometheus.NewRegistry())

	c.AuthFailuresTotal.WithLabelValues("expired").Inc()
	c.ValidationFailures.WithLabelValues("product", "INVALID_PRICE_VALUE").Add(2)

	body := scrape(c)
	assert.Contains(t, body, `storefront_auth_failures_total{reason="expired"} 1`)
	assert.Contains(t, body, `storefront_validation_failures_total{code="INVALID_PRICE_VALUE",resource="product"} 2`)
}

func TestNewCollector_SeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector("storefront", prometheus.NewRegistry())
		NewCollector("storefront", prometheus.NewRegistry())
	})
}
