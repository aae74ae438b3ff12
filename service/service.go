// package service provides functions and methods
// for creating and running the api of the bundle proxy service
package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/assetgate/bundle-proxy-service/assoc"
	"github.com/assetgate/bundle-proxy-service/clients/backend"
	"github.com/assetgate/bundle-proxy-service/clients/cache"
	"github.com/assetgate/bundle-proxy-service/clients/database"
	"github.com/assetgate/bundle-proxy-service/clients/database/noop"
	"github.com/assetgate/bundle-proxy-service/clients/manifest"
	"github.com/assetgate/bundle-proxy-service/config"
	"github.com/assetgate/bundle-proxy-service/logging"
)

// BundleProxyService represents an instance of the bundle proxy service API
type BundleProxyService struct {
	server *http.Server

	Database   database.MetricsDatabase
	Cache      cache.Cache
	Associator assoc.Associator

	*logging.ServiceLogger
}

// New returns a new BundleProxyService with the specified config and
// error (if any). The association table is built exactly once here and
// is read-only for the service's lifetime.
func New(ctx context.Context, cfg config.Config, serviceLogger *logging.ServiceLogger) (BundleProxyService, error) {
	var documentCache cache.Cache
	if cfg.ManifestCacheEnabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Address:  cfg.RedisEndpointURL,
			Password: cfg.RedisPassword,
			DB:       0,
		}, serviceLogger)
		if err != nil {
			return BundleProxyService{}, fmt.Errorf("error %w creating manifest cache client", err)
		}
		documentCache = redisCache
	}

	associator, err := createAssociator(ctx, cfg, documentCache, serviceLogger)
	if err != nil {
		return BundleProxyService{}, fmt.Errorf("error %w creating associator", err)
	}

	db, err := createMetricsDatabase(ctx, cfg, serviceLogger)
	if err != nil {
		return BundleProxyService{}, fmt.Errorf("error %w creating metrics database client", err)
	}

	backendClient := backend.NewHTTPClient(cfg.BackendHTTPTimeout, serviceLogger)

	service := BundleProxyService{
		Database:      db,
		Cache:         documentCache,
		Associator:    associator,
		ServiceLogger: serviceLogger,
	}

	dispatcher := NewDispatcher(cfg, associator, backendClient, nil, serviceLogger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthcheck", createHealthcheckHandler(&service))
	mux.HandleFunc("/servicecheck", createServicecheckHandler(&service))
	mux.Handle("/", createRequestLoggingMiddleware(
		createMetricMiddleware(dispatcher, db, serviceLogger),
		serviceLogger,
	))

	service.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ProxyServicePort),
		Handler: mux,
	}

	return service, nil
}

// createAssociator builds the association policy for the configured
// association source: a fetched manifest, a local associations file,
// or the three way filename convention when neither is configured.
func createAssociator(ctx context.Context, cfg config.Config, documentCache cache.Cache, serviceLogger *logging.ServiceLogger) (assoc.Associator, error) {
	switch {
	case cfg.AssociationManifestURL != "":
		serviceLogger.Debug().Msg(fmt.Sprintf("fetching association manifest from %s", cfg.AssociationManifestURL))

		client := manifest.NewClient(cfg.AssociationManifestURL, cfg.BackendHTTPTimeout, documentCache, cfg.ManifestCacheTTL, serviceLogger)

		table, err := client.FetchTable(ctx)
		if err != nil {
			return nil, err
		}

		return assoc.NewStatic(table, nil), nil
	case cfg.AssociationsFilePath != "":
		serviceLogger.Debug().Msg(fmt.Sprintf("loading associations from %s", cfg.AssociationsFilePath))

		table, err := config.LoadAssociationsFile(cfg.AssociationsFilePath)
		if err != nil {
			return nil, err
		}

		return assoc.NewStatic(table, nil), nil
	default:
		serviceLogger.Debug().Msg("no association table configured, bundling by filename convention")

		return assoc.Simple{}, nil
	}
}

// createMetricsDatabase connects to postgres when metric persistence is
// enabled, ensuring the metrics schema exists, and otherwise returns a
// client that does nothing.
func createMetricsDatabase(ctx context.Context, cfg config.Config, serviceLogger *logging.ServiceLogger) (database.MetricsDatabase, error) {
	if !cfg.MetricDatabaseEnabled {
		return noop.New(), nil
	}

	client, err := database.NewPostgresClient(database.PostgresDatabaseConfig{
		DatabaseName:        cfg.DatabaseName,
		DatabaseEndpointURL: cfg.DatabaseEndpointURL,
		DatabaseUsername:    cfg.DatabaseUsername,
		DatabasePassword:    cfg.DatabasePassword,
		ReadTimeoutSeconds:  cfg.DatabaseReadTimeoutSeconds,
		SSLEnabled:          cfg.DatabaseSSLEnabled,
		QueryLoggingEnabled: cfg.DatabaseQueryLoggingEnabled,
		Logger:              serviceLogger,
	})
	if err != nil {
		return nil, err
	}

	if err := client.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

// Run runs the bundle proxy service, returning error (if any) in the
// event the service stops
func (p *BundleProxyService) Run() error {
	return p.server.ListenAndServe()
}
