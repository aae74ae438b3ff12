package noop

import (
	"context"

	"github.com/assetgate/bundle-proxy-service/clients/database"
)

// Noop is a database client that does nothing, used
// when metric persistence is disabled
type Noop struct{}

var _ database.MetricsDatabase = (*Noop)(nil)

func New() *Noop {
	return &Noop{}
}

func (n *Noop) SaveRequestMetric(ctx context.Context, metric *database.RequestMetric) error {
	return nil
}

func (n *Noop) DeleteRequestMetricsOlderThanNDays(ctx context.Context, days int) (int64, error) {
	return 0, nil
}

func (n *Noop) HealthCheck() error {
	return nil
}
