// package routines provides configuration and logic
// for running background routines such as pruning
// of historical request metrics
package routines

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/assetgate/bundle-proxy-service/clients/database"
	"github.com/assetgate/bundle-proxy-service/logging"
)

// MetricPruningRoutineConfig wraps values used
// for creating a new metric pruning routine
type MetricPruningRoutineConfig struct {
	Interval   time.Duration
	StartDelay time.Duration
	DaysToKeep int
	Database   database.MetricsDatabase
	Logger     logging.ServiceLogger
}

// MetricPruningRoutine can be used to
// run a background routine on a configurable interval
// to prune request metrics older than the retention window
type MetricPruningRoutine struct {
	id         string
	interval   time.Duration
	startDelay time.Duration
	daysToKeep int
	database.MetricsDatabase
	logging.ServiceLogger
}

// Run runs the metric pruning routine, returning an error channel
// which any errors encountered during running will be sent on
func (mpr *MetricPruningRoutine) Run() (<-chan error, error) {
	errorChannel := make(chan error)

	time.Sleep(mpr.startDelay)

	timer := time.Tick(mpr.interval)

	go func() {
		for tick := range timer {
			mpr.Trace().Msg(fmt.Sprintf("%s tick at %+v", mpr.id, tick))

			deleted, err := mpr.DeleteRequestMetricsOlderThanNDays(context.Background(), mpr.daysToKeep)
			if err != nil {
				errorChannel <- err
				continue
			}

			mpr.Debug().Msg(fmt.Sprintf("%s pruned %d request metrics older than %d days", mpr.id, deleted, mpr.daysToKeep))
		}
	}()

	return errorChannel, nil
}

// NewMetricPruningRoutine creates a new metric pruning routine
// using the provided config, returning the routine and error (if any)
func NewMetricPruningRoutine(config MetricPruningRoutineConfig) (*MetricPruningRoutine, error) {
	return &MetricPruningRoutine{
		id:              uuid.New().String(),
		interval:        config.Interval,
		startDelay:      config.StartDelay,
		daysToKeep:      config.DaysToKeep,
		MetricsDatabase: config.Database,
		ServiceLogger:   config.Logger,
	}, nil
}
