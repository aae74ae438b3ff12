// package database provides clients for persisting and pruning
// request metrics recorded by the bundle proxy service
package database

import "context"

type MetricsDatabase interface {
	SaveRequestMetric(ctx context.Context, metric *RequestMetric) error
	DeleteRequestMetricsOlderThanNDays(ctx context.Context, days int) (int64, error)
	HealthCheck() error
}
