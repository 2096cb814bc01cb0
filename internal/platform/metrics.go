package platform

import (
	"context"
	"net/http"

	errmsg "github.com/webskin/iiot-go-cli/internal/errors"
	"github.com/webskin/iiot-go-cli/internal/paging"
)

// ============================================================================
// METRIC OPERATIONS
// ============================================================================

// ListMetrics lists a page of metric definitions
func ListMetrics[T any](c *Client, ctx context.Context, opts *ListOptions, mapper Mapper[T]) (paging.Page[T], error) {
	page, err := c.fetchPage(ctx, c.servicePath(serviceMetrics), opts, errmsg.MsgFailedToListMetrics)
	if err != nil {
		return paging.Page[T]{}, err
	}
	return mapPage(page, mapper)
}

// QueryMetric fetches datapoints of a metric over a time range.
// Use ParseMetricSeries for a typed result.
func QueryMetric[T any](c *Client, ctx context.Context, metricID string, query MetricQuery, mapper Mapper[T]) (T, error) {
	var zero T
	body, err := toWire(query)
	if err != nil {
		return zero, err
	}

	obj, err := c.fetchObject(ctx, http.MethodPost, c.servicePath(serviceMetrics, metricID, "query"), nil, body, errmsg.MsgFailedToQueryMetric)
	if err != nil {
		return zero, err
	}
	return mapObject(obj, mapper)
}
