package shopify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes, labeled on the request counter.
const (
	outcomeSuccess         = "success"
	outcomeConnectionError = "connection_error"
	outcomeThrottled       = "throttled"
	outcomeEntityLocked    = "entity_locked"
	outcomeFailed          = "failed"
)

// Metrics counts Admin API requests per shop and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics registers the client's counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "shopify_graphql_requests_total",
			Help: "Shopify Admin GraphQL requests by shop and outcome.",
		}, []string{"shop", "outcome"}),
	}
}

func (m *Metrics) observe(shop, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(shop, outcome).Inc()
}
