// package config provides functions and values
// for reading and validating bundle proxy service configuration
package config

import (
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config wraps values used to configure
// an instance of the bundle proxy service
type Config struct {
	LogLevel string

	ProxyServicePort string

	// URL prefix under which absolute module paths are served
	RootPathPrefix string
	// URL prefix under which relative (library) module paths are served
	LibraryPathPrefix string

	RootBackendBaseURLRaw    string
	RootBackendBaseURL       *url.URL
	LibraryBackendBaseURLRaw string
	LibraryBackendBaseURL    *url.URL

	// optional absolute base for canonical redirects;
	// when empty redirect targets are computed relative to the request path
	RedirectBaseURLRaw string

	// at most one of these may be set; when neither is set
	// the service falls back to convention based bundling
	AssociationManifestURL string
	AssociationsFilePath   string

	BackendHTTPTimeout time.Duration

	ManifestCacheEnabled bool
	ManifestCacheTTL     time.Duration
	RedisEndpointURL     string
	RedisPassword        string

	MetricDatabaseEnabled       bool
	DatabaseName                string
	DatabaseEndpointURL         string
	DatabaseUsername            string
	DatabasePassword            string
	DatabaseSSLEnabled          bool
	DatabaseQueryLoggingEnabled bool
	DatabaseReadTimeoutSeconds  int64

	MetricPruningEnabled              bool
	MetricPruningDaysToKeep           int
	MetricPruningRoutineInterval      time.Duration
	MetricPruningRoutineDelayFirstRun time.Duration
}

const (
	LOG_LEVEL_ENVIRONMENT_KEY = "LOG_LEVEL"
	DEFAULT_LOG_LEVEL         = "INFO"

	BUNDLE_PROXY_SERVICE_PORT_ENVIRONMENT_KEY = "BUNDLE_PROXY_SERVICE_PORT"
	DEFAULT_BUNDLE_PROXY_SERVICE_PORT         = "7778"

	ROOT_PATH_PREFIX_ENVIRONMENT_KEY = "ROOT_PATH_PREFIX"
	DEFAULT_ROOT_PATH_PREFIX         = "/root/"

	LIBRARY_PATH_PREFIX_ENVIRONMENT_KEY = "LIBRARY_PATH_PREFIX"
	DEFAULT_LIBRARY_PATH_PREFIX         = "/lib/"

	ROOT_BACKEND_BASE_URL_ENVIRONMENT_KEY    = "ROOT_BACKEND_BASE_URL"
	LIBRARY_BACKEND_BASE_URL_ENVIRONMENT_KEY = "LIBRARY_BACKEND_BASE_URL"

	REDIRECT_BASE_URL_ENVIRONMENT_KEY = "REDIRECT_BASE_URL"

	ASSOCIATION_MANIFEST_URL_ENVIRONMENT_KEY = "MANIFEST_URL"
	ASSOCIATIONS_FILE_PATH_ENVIRONMENT_KEY   = "ASSOCIATIONS_FILE_PATH"

	BACKEND_HTTP_TIMEOUT_SECONDS_ENVIRONMENT_KEY = "BACKEND_HTTP_TIMEOUT_SECONDS"
	DEFAULT_BACKEND_HTTP_TIMEOUT_SECONDS         = 30

	MANIFEST_CACHE_ENABLED_ENVIRONMENT_KEY     = "MANIFEST_CACHE_ENABLED"
	MANIFEST_CACHE_TTL_SECONDS_ENVIRONMENT_KEY = "MANIFEST_CACHE_TTL_SECONDS"
	DEFAULT_MANIFEST_CACHE_TTL_SECONDS         = 600

	REDIS_ENDPOINT_URL_ENVIRONMENT_KEY = "REDIS_ENDPOINT_URL"
	REDIS_PASSWORD_ENVIRONMENT_KEY     = "REDIS_PASSWORD"

	METRIC_DATABASE_ENABLED_ENVIRONMENT_KEY        = "METRIC_DATABASE_ENABLED"
	DATABASE_NAME_ENVIRONMENT_KEY                  = "DATABASE_NAME"
	DATABASE_ENDPOINT_URL_ENVIRONMENT_KEY          = "DATABASE_ENDPOINT_URL"
	DATABASE_USERNAME_ENVIRONMENT_KEY              = "DATABASE_USERNAME"
	DATABASE_PASSWORD_ENVIRONMENT_KEY              = "DATABASE_PASSWORD"
	DATABASE_SSL_ENABLED_ENVIRONMENT_KEY           = "DATABASE_SSL_ENABLED"
	DATABASE_QUERY_LOGGING_ENABLED_ENVIRONMENT_KEY = "DATABASE_QUERY_LOGGING_ENABLED"
	DATABASE_READ_TIMEOUT_SECONDS_ENVIRONMENT_KEY  = "DATABASE_READ_TIMEOUT_SECONDS"
	DEFAULT_DATABASE_READ_TIMEOUT_SECONDS          = 60

	METRIC_PRUNING_ENABLED_ENVIRONMENT_KEY                         = "METRIC_PRUNING_ENABLED"
	METRIC_PRUNING_DAYS_TO_KEEP_ENVIRONMENT_KEY                    = "METRIC_PRUNING_DAYS_TO_KEEP"
	DEFAULT_METRIC_PRUNING_DAYS_TO_KEEP                            = 30
	METRIC_PRUNING_ROUTINE_INTERVAL_SECONDS_ENVIRONMENT_KEY        = "METRIC_PRUNING_ROUTINE_INTERVAL_SECONDS"
	DEFAULT_METRIC_PRUNING_ROUTINE_INTERVAL_SECONDS                = 86400
	METRIC_PRUNING_ROUTINE_DELAY_FIRST_RUN_SECONDS_ENVIRONMENT_KEY = "METRIC_PRUNING_ROUTINE_DELAY_FIRST_RUN_SECONDS"
	DEFAULT_METRIC_PRUNING_ROUTINE_DELAY_FIRST_RUN_SECONDS         = 10
)

// EnvOrDefault fetches an environment variable value, or if not set returns the fallback value
func EnvOrDefault(key string, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// EnvOrDefaultBool fetches a boolean environment variable value, or if not set returns the fallback value
func EnvOrDefaultBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return fallback
		}
		return parsed
	}
	return fallback
}

// EnvOrDefaultInt fetches an integer environment variable value, or if not set returns the fallback value
func EnvOrDefaultInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fallback
		}
		return parsed
	}
	return fallback
}

// ReadConfig attempts to parse service config from environment values
// the returned config may be invalid and should be validated via the `Validate`
// function of the Config package before use
func ReadConfig() Config {
	rootBackendBaseURLRaw := os.Getenv(ROOT_BACKEND_BASE_URL_ENVIRONMENT_KEY)
	libraryBackendBaseURLRaw := os.Getenv(LIBRARY_BACKEND_BASE_URL_ENVIRONMENT_KEY)

	// parse errors surface during Validate which re-parses the raw values
	rootBackendBaseURL, _ := url.Parse(rootBackendBaseURLRaw)
	libraryBackendBaseURL, _ := url.Parse(libraryBackendBaseURLRaw)

	return Config{
		LogLevel: EnvOrDefault(LOG_LEVEL_ENVIRONMENT_KEY, DEFAULT_LOG_LEVEL),

		ProxyServicePort: EnvOrDefault(BUNDLE_PROXY_SERVICE_PORT_ENVIRONMENT_KEY, DEFAULT_BUNDLE_PROXY_SERVICE_PORT),

		RootPathPrefix:    EnvOrDefault(ROOT_PATH_PREFIX_ENVIRONMENT_KEY, DEFAULT_ROOT_PATH_PREFIX),
		LibraryPathPrefix: EnvOrDefault(LIBRARY_PATH_PREFIX_ENVIRONMENT_KEY, DEFAULT_LIBRARY_PATH_PREFIX),

		RootBackendBaseURLRaw:    rootBackendBaseURLRaw,
		RootBackendBaseURL:       rootBackendBaseURL,
		LibraryBackendBaseURLRaw: libraryBackendBaseURLRaw,
		LibraryBackendBaseURL:    libraryBackendBaseURL,

		RedirectBaseURLRaw: os.Getenv(REDIRECT_BASE_URL_ENVIRONMENT_KEY),

		AssociationManifestURL: os.Getenv(ASSOCIATION_MANIFEST_URL_ENVIRONMENT_KEY),
		AssociationsFilePath:   os.Getenv(ASSOCIATIONS_FILE_PATH_ENVIRONMENT_KEY),

		BackendHTTPTimeout: time.Duration(EnvOrDefaultInt(BACKEND_HTTP_TIMEOUT_SECONDS_ENVIRONMENT_KEY, DEFAULT_BACKEND_HTTP_TIMEOUT_SECONDS)) * time.Second,

		ManifestCacheEnabled: EnvOrDefaultBool(MANIFEST_CACHE_ENABLED_ENVIRONMENT_KEY, false),
		ManifestCacheTTL:     time.Duration(EnvOrDefaultInt(MANIFEST_CACHE_TTL_SECONDS_ENVIRONMENT_KEY, DEFAULT_MANIFEST_CACHE_TTL_SECONDS)) * time.Second,
		RedisEndpointURL:     os.Getenv(REDIS_ENDPOINT_URL_ENVIRONMENT_KEY),
		RedisPassword:        os.Getenv(REDIS_PASSWORD_ENVIRONMENT_KEY),

		MetricDatabaseEnabled:       EnvOrDefaultBool(METRIC_DATABASE_ENABLED_ENVIRONMENT_KEY, false),
		DatabaseName:                os.Getenv(DATABASE_NAME_ENVIRONMENT_KEY),
		DatabaseEndpointURL:         os.Getenv(DATABASE_ENDPOINT_URL_ENVIRONMENT_KEY),
		DatabaseUsername:            os.Getenv(DATABASE_USERNAME_ENVIRONMENT_KEY),
		DatabasePassword:            os.Getenv(DATABASE_PASSWORD_ENVIRONMENT_KEY),
		DatabaseSSLEnabled:          EnvOrDefaultBool(DATABASE_SSL_ENABLED_ENVIRONMENT_KEY, false),
		DatabaseQueryLoggingEnabled: EnvOrDefaultBool(DATABASE_QUERY_LOGGING_ENABLED_ENVIRONMENT_KEY, false),
		DatabaseReadTimeoutSeconds:  int64(EnvOrDefaultInt(DATABASE_READ_TIMEOUT_SECONDS_ENVIRONMENT_KEY, DEFAULT_DATABASE_READ_TIMEOUT_SECONDS)),

		MetricPruningEnabled:              EnvOrDefaultBool(METRIC_PRUNING_ENABLED_ENVIRONMENT_KEY, false),
		MetricPruningDaysToKeep:           EnvOrDefaultInt(METRIC_PRUNING_DAYS_TO_KEEP_ENVIRONMENT_KEY, DEFAULT_METRIC_PRUNING_DAYS_TO_KEEP),
		MetricPruningRoutineInterval:      time.Duration(EnvOrDefaultInt(METRIC_PRUNING_ROUTINE_INTERVAL_SECONDS_ENVIRONMENT_KEY, DEFAULT_METRIC_PRUNING_ROUTINE_INTERVAL_SECONDS)) * time.Second,
		MetricPruningRoutineDelayFirstRun: time.Duration(EnvOrDefaultInt(METRIC_PRUNING_ROUTINE_DELAY_FIRST_RUN_SECONDS_ENVIRONMENT_KEY, DEFAULT_METRIC_PRUNING_ROUTINE_DELAY_FIRST_RUN_SECONDS)) * time.Second,
	}
}
