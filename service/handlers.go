package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// createHealthcheckHandler creates a health check handler function that
// will respond 200 ok if the bundle proxy service is able to connect to
// its dependencies and functioning as expected
func createHealthcheckHandler(service *BundleProxyService) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var combinedErrors error

		service.Debug().Msg("/healthcheck called")

		err := service.Database.HealthCheck()
		if err != nil {
			combinedErrors = errors.Join(combinedErrors, fmt.Errorf("bundle proxy service unable to connect to database"))
		}

		if service.Cache != nil {
			err := service.Cache.Healthcheck(context.Background())
			if err != nil {
				service.Error().
					Err(err).
					Msg("cache healthcheck failed")

				combinedErrors = errors.Join(combinedErrors, fmt.Errorf("bundle proxy service unable to connect to cache: %v", err))
			}
		}

		if combinedErrors != nil {
			w.WriteHeader(http.StatusInternalServerError)

			w.Write([]byte(combinedErrors.Error()))

			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("bundle proxy service is healthy"))
	}
}

// createServicecheckHandler creates a service check handler function
// that will respond 200 ok if the bundle proxy service is running
func createServicecheckHandler(service *BundleProxyService) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		service.Debug().Msg("/servicecheck called")

		w.WriteHeader(http.StatusOK)

		w.Write([]byte("bundle proxy service is in service"))
	}
}
