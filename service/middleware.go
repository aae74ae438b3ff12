package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/negroni"

	"github.com/assetgate/bundle-proxy-service/clients/database"
	"github.com/assetgate/bundle-proxy-service/logging"
)

const (
	RequestIDContextKey = "X-BUNDLE-PROXY-REQUEST-ID"
	MetricContextKey    = "X-BUNDLE-PROXY-REQUEST-METRIC"
)

// metricRecord is placed in the request context by the metric
// middleware and filled in by the dispatcher as it learns about the
// request, bundling details flow back up to the middleware through it.
type metricRecord struct {
	RequestedBundle   bool
	BundleMemberCount int
}

func metricRecordFromContext(ctx context.Context) *metricRecord {
	record, ok := ctx.Value(MetricContextKey).(*metricRecord)
	if !ok {
		return nil
	}
	return record
}

// createRequestLoggingMiddleware returns a handler that assigns each
// request a uuid, logs it, and makes the id available to downstream
// handlers via the request context.
func createRequestLoggingMiddleware(next http.Handler, serviceLogger *logging.ServiceLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		serviceLogger.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Str("host", r.Host).
			Msg("handling request")

		requestIDContext := context.WithValue(r.Context(), RequestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(requestIDContext))
	}
}

// createMetricMiddleware returns a handler that times the request,
// captures the response status, and records a request metric out of
// band of the request-response cycle.
func createMetricMiddleware(next http.Handler, db database.MetricsDatabase, serviceLogger *logging.ServiceLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestAt := time.Now()

		record := &metricRecord{}
		metricContext := context.WithValue(r.Context(), MetricContextKey, record)

		// set up response writer for capturing the response status
		// after the response has been written
		lrw := negroni.NewResponseWriter(w)

		next.ServeHTTP(lrw, r.WithContext(metricContext))

		requestRoundtrip := time.Since(requestAt)

		requestID, _ := r.Context().Value(RequestIDContextKey).(string)

		status := lrw.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metric := &database.RequestMetric{
			RequestID:                   requestID,
			Method:                      r.Method,
			ModulePath:                  r.URL.Path,
			RequestedBundle:             record.RequestedBundle,
			BundleMemberCount:           record.BundleMemberCount,
			ResponseStatus:              status,
			ResponseLatencyMilliseconds: float64(requestRoundtrip.Microseconds()) / 1000,
			UserAgent:                   r.UserAgent(),
			RequestTime:                 requestAt,
		}

		go func() {
			if err := db.SaveRequestMetric(context.Background(), metric); err != nil {
				serviceLogger.Error().Err(err).Msg("error saving request metric")
			}
		}()
	}
}
