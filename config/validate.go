package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ValidLogLevels = [4]string{"TRACE", "DEBUG", "INFO", "ERROR"}
)

// Validate validates the provided config
// returning a list of errors that can be unwrapped with `errors.Unwrap`
// or nil if the config is valid
func Validate(config Config) error {
	var validLogLevel bool
	var allErrs error

	for _, validLevel := range ValidLogLevels {
		if config.LogLevel == validLevel {
			validLogLevel = true
			break
		}
	}

	if !validLogLevel {
		allErrs = fmt.Errorf("invalid %s specified %s, supported values are %v", LOG_LEVEL_ENVIRONMENT_KEY, config.LogLevel, ValidLogLevels)
	}

	_, err := strconv.Atoi(config.ProxyServicePort)

	if err != nil {
		allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s specified %s", BUNDLE_PROXY_SERVICE_PORT_ENVIRONMENT_KEY, config.ProxyServicePort))
	}

	allErrs = errors.Join(allErrs, validatePathPrefixes(config))

	if config.RootBackendBaseURL == nil || !config.RootBackendBaseURL.IsAbs() {
		allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s specified %s, must be an absolute url", ROOT_BACKEND_BASE_URL_ENVIRONMENT_KEY, config.RootBackendBaseURLRaw))
	}

	if config.LibraryBackendBaseURL == nil || !config.LibraryBackendBaseURL.IsAbs() {
		allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s specified %s, must be an absolute url", LIBRARY_BACKEND_BASE_URL_ENVIRONMENT_KEY, config.LibraryBackendBaseURLRaw))
	}

	if config.AssociationManifestURL != "" && config.AssociationsFilePath != "" {
		allErrs = errors.Join(allErrs, fmt.Errorf("only one of %s and %s may be specified", ASSOCIATION_MANIFEST_URL_ENVIRONMENT_KEY, ASSOCIATIONS_FILE_PATH_ENVIRONMENT_KEY))
	}

	if config.ManifestCacheEnabled && config.RedisEndpointURL == "" {
		allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s specified %s, must not be empty when %s is true", REDIS_ENDPOINT_URL_ENVIRONMENT_KEY, config.RedisEndpointURL, MANIFEST_CACHE_ENABLED_ENVIRONMENT_KEY))
	}

	if config.MetricDatabaseEnabled {
		if config.DatabaseName == "" {
			allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s specified %s, must not be empty when %s is true", DATABASE_NAME_ENVIRONMENT_KEY, config.DatabaseName, METRIC_DATABASE_ENABLED_ENVIRONMENT_KEY))
		}
		if config.DatabaseEndpointURL == "" {
			allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s specified %s, must not be empty when %s is true", DATABASE_ENDPOINT_URL_ENVIRONMENT_KEY, config.DatabaseEndpointURL, METRIC_DATABASE_ENABLED_ENVIRONMENT_KEY))
		}
		if config.DatabaseUsername == "" {
			allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s specified %s, must not be empty when %s is true", DATABASE_USERNAME_ENVIRONMENT_KEY, config.DatabaseUsername, METRIC_DATABASE_ENABLED_ENVIRONMENT_KEY))
		}
	}

	if config.MetricPruningEnabled && config.MetricPruningDaysToKeep < 1 {
		allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s specified %d, must be greater than or equal to 1", METRIC_PRUNING_DAYS_TO_KEEP_ENVIRONMENT_KEY, config.MetricPruningDaysToKeep))
	}

	return allErrs
}

// validatePathPrefixes checks that the root and library url prefixes
// are well formed and that neither prefix nests under the other,
// ambiguous prefixes make module path resolution order dependent
// and are rejected outright
func validatePathPrefixes(config Config) error {
	var allErrs error

	for key, prefix := range map[string]string{
		ROOT_PATH_PREFIX_ENVIRONMENT_KEY:    config.RootPathPrefix,
		LIBRARY_PATH_PREFIX_ENVIRONMENT_KEY: config.LibraryPathPrefix,
	} {
		if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
			allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s specified %s, must begin and end with a forward slash", key, prefix))
		}
	}

	if strings.HasPrefix(config.RootPathPrefix, config.LibraryPathPrefix) || strings.HasPrefix(config.LibraryPathPrefix, config.RootPathPrefix) {
		allErrs = errors.Join(allErrs, fmt.Errorf("invalid %s %s and %s %s, neither prefix may nest under the other", ROOT_PATH_PREFIX_ENVIRONMENT_KEY, config.RootPathPrefix, LIBRARY_PATH_PREFIX_ENVIRONMENT_KEY, config.LibraryPathPrefix))
	}

	return allErrs
}
