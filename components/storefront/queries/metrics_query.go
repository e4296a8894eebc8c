package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

type metricsService interface {
	Metrics() storefront.Metrics
}

// MetricsQuery fetches the derived metrics for the current snapshot.
type MetricsQuery struct {
	service metricsService
}

// NewMetricsQuery builds the query.
func NewMetricsQuery(service metricsService) *MetricsQuery {
	return &MetricsQuery{service: service}
}

var _ gocommand.Querier[struct{}, storefront.Metrics] = (*MetricsQuery)(nil)

// Query returns the metrics computed from the current snapshot.
func (q *MetricsQuery) Query(ctx context.Context, _ struct{}) (storefront.Metrics, error) {
	return q.service.Metrics(), nil
}
