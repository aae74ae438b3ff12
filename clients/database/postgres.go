package database

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/assetgate/bundle-proxy-service/logging"
)

// PostgresDatabaseConfig contains values for creating a
// new connection to a postgres database
type PostgresDatabaseConfig struct {
	DatabaseName        string
	DatabaseEndpointURL string
	DatabaseUsername    string
	DatabasePassword    string
	ReadTimeoutSeconds  int64
	SSLEnabled          bool
	QueryLoggingEnabled bool
	Logger              *logging.ServiceLogger
}

// PostgresClient wraps a connection to a postgres database
type PostgresClient struct {
	*bun.DB
	*logging.ServiceLogger
}

var _ MetricsDatabase = (*PostgresClient)(nil)

// NewPostgresClient returns a new connection to the specified
// postgres database and error (if any)
func NewPostgresClient(config PostgresDatabaseConfig) (*PostgresClient, error) {
	var pgOptions *pgdriver.Connector

	if config.SSLEnabled {
		pgOptions =
			pgdriver.NewConnector(
				pgdriver.WithAddr(config.DatabaseEndpointURL),
				pgdriver.WithUser(config.DatabaseUsername),
				pgdriver.WithTLSConfig(&tls.Config{InsecureSkipVerify: false}),
				pgdriver.WithPassword(config.DatabasePassword),
				pgdriver.WithDatabase(config.DatabaseName),
				pgdriver.WithReadTimeout(time.Second*time.Duration(config.ReadTimeoutSeconds)),
			)
	} else {
		pgOptions = pgdriver.NewConnector(
			pgdriver.WithAddr(config.DatabaseEndpointURL),
			pgdriver.WithUser(config.DatabaseUsername),
			pgdriver.WithInsecure(true),
			pgdriver.WithPassword(config.DatabasePassword),
			pgdriver.WithDatabase(config.DatabaseName),
			pgdriver.WithReadTimeout(time.Second*time.Duration(config.ReadTimeoutSeconds)),
		)
	}

	config.Logger.Debug().Msg(fmt.Sprintf("creating database client with options %+v", pgOptions.Config()))

	sqldb := sql.OpenDB(pgOptions)

	db := bun.NewDB(sqldb, pgdialect.New())

	if config.QueryLoggingEnabled {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	return &PostgresClient{
		DB:            db,
		ServiceLogger: config.Logger,
	}, nil
}

// EnsureSchema creates the request metrics table if it does
// not already exist
func (pg *PostgresClient) EnsureSchema(ctx context.Context) error {
	_, err := pg.NewCreateTable().
		Model((*RequestMetric)(nil)).
		IfNotExists().
		Exec(ctx)

	return err
}

// SaveRequestMetric saves a single request metric
func (pg *PostgresClient) SaveRequestMetric(ctx context.Context, metric *RequestMetric) error {
	_, err := pg.NewInsert().
		Model(metric).
		Exec(ctx)

	return err
}

// DeleteRequestMetricsOlderThanNDays deletes request metrics older
// than the given retention window, returning the number of rows
// deleted and error (if any)
func (pg *PostgresClient) DeleteRequestMetricsOlderThanNDays(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	result, err := pg.NewDelete().
		Model((*RequestMetric)(nil)).
		Where("request_time < ?", cutoff).
		Exec(ctx)

	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// HealthCheck returns an error if the database can not
// be connected to and queried, nil otherwise
func (pg *PostgresClient) HealthCheck() error {
	_, err := pg.Query(`SELECT 1;`)
	return err
}
