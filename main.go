// package main reads & validates configuration for the bundle proxy service
// and if the config is valid starts and monitors an instance of the service
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/assetgate/bundle-proxy-service/config"
	"github.com/assetgate/bundle-proxy-service/logging"
	"github.com/assetgate/bundle-proxy-service/routines"
	"github.com/assetgate/bundle-proxy-service/service"
)

var (
	serviceConfig config.Config
	serviceLogger logging.ServiceLogger
)

func init() {
	serviceConfig = config.ReadConfig()

	err := config.Validate(serviceConfig)

	if err != nil {
		panic(err)
	}

	serviceLogger, err = logging.New(serviceConfig.LogLevel)

	if err != nil {
		panic(err)
	}
}

func main() {
	serviceLogger.Debug().Msg(fmt.Sprintf("initial config: %+v", serviceConfig))

	service, err := service.New(context.Background(), serviceConfig, &serviceLogger)

	if err != nil {
		serviceLogger.Panic().Msg(fmt.Sprintf("%v", errors.Unwrap(err)))
	}

	if serviceConfig.MetricDatabaseEnabled && serviceConfig.MetricPruningEnabled {
		pruningRoutine, err := routines.NewMetricPruningRoutine(routines.MetricPruningRoutineConfig{
			Interval:   serviceConfig.MetricPruningRoutineInterval,
			StartDelay: serviceConfig.MetricPruningRoutineDelayFirstRun,
			DaysToKeep: serviceConfig.MetricPruningDaysToKeep,
			Database:   service.Database,
			Logger:     serviceLogger,
		})

		if err != nil {
			serviceLogger.Panic().Msg(fmt.Sprintf("error %v creating metric pruning routine", err))
		}

		go func() {
			routineErrs, err := pruningRoutine.Run()

			if err != nil {
				serviceLogger.Error().Err(err).Msg("error starting metric pruning routine")
				return
			}

			for routineErr := range routineErrs {
				serviceLogger.Error().Err(routineErr).Msg("error during metric pruning")
			}
		}()
	}

	service.Run()
}
