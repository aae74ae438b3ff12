// package manifest retrieves the association manifest document the
// bundle proxy service builds its association table from, retrying
// with exponential backoff and optionally keeping the last good copy
// in a cache so a restart can survive a manifest host outage
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/assetgate/bundle-proxy-service/assoc"
	"github.com/assetgate/bundle-proxy-service/clients/cache"
	"github.com/assetgate/bundle-proxy-service/logging"
)

const fetchMaxRetries = 5

// Document is the wire representation of an association manifest.
type Document struct {
	Bundles map[string][]string `json:"bundles" yaml:"bundles"`
	Aliases map[string]string   `json:"aliases" yaml:"aliases"`
}

// Definitions converts the document's bundle map into ordered bundle
// definitions, sorted by bundle name so table construction is
// deterministic across loads.
func (d Document) Definitions() []assoc.BundleDefinition {
	names := make([]string, 0, len(d.Bundles))
	for name := range d.Bundles {
		names = append(names, name)
	}
	sort.Strings(names)

	definitions := make([]assoc.BundleDefinition, 0, len(names))
	for _, name := range names {
		definitions = append(definitions, assoc.BundleDefinition{
			Name:    name,
			Members: d.Bundles[name],
		})
	}

	return definitions
}

// Table builds the association table described by the document.
func (d Document) Table() (*assoc.Table, error) {
	return assoc.NewTable(d.Definitions(), d.Aliases)
}

// Client fetches association manifest documents over HTTP.
type Client struct {
	manifestURL   string
	httpClient    *http.Client
	documentCache cache.Cache
	cacheTTL      time.Duration
	*logging.ServiceLogger
}

// NewClient creates a manifest Client for the given manifest URL.
// documentCache may be nil, in which case fetched documents are not
// cached.
func NewClient(manifestURL string, timeout time.Duration, documentCache cache.Cache, cacheTTL time.Duration, logger *logging.ServiceLogger) *Client {
	return &Client{
		manifestURL: manifestURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		documentCache: documentCache,
		cacheTTL:      cacheTTL,
		ServiceLogger: logger,
	}
}

// FetchTable fetches the manifest document and builds an association
// table from it, retrying the fetch with exponential backoff and
// falling back to the cached copy (when a cache is configured) if the
// manifest host stays unreachable.
func (c *Client) FetchTable(ctx context.Context) (*assoc.Table, error) {
	raw, err := c.fetchDocument(ctx)

	if err != nil && c.documentCache != nil {
		c.Error().Err(err).Msg("manifest fetch failed, attempting cached copy")

		cached, cacheErr := c.documentCache.Get(ctx, c.cacheKey())
		if cacheErr != nil {
			return nil, fmt.Errorf("manifest fetch failed (%s) and no cached copy was usable (%s)", err, cacheErr)
		}

		raw = cached
		err = nil
	}

	if err != nil {
		return nil, err
	}

	var document Document
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("error %s parsing manifest document from %s", err, c.manifestURL)
	}

	if c.documentCache != nil {
		if err := c.documentCache.Set(ctx, c.cacheKey(), raw, c.cacheTTL); err != nil {
			c.Error().Err(err).Msg("error caching manifest document")
		}
	}

	return document.Table()
}

func (c *Client) fetchDocument(ctx context.Context) ([]byte, error) {
	var raw []byte

	fetch := func() error {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.manifestURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		response, err := c.httpClient.Do(request)
		if err != nil {
			return err
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			return fmt.Errorf("manifest request to %s returned status %d", c.manifestURL, response.StatusCode)
		}

		raw, err = io.ReadAll(response.Body)
		return err
	}

	retryPolicy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchMaxRetries), ctx)

	if err := backoff.Retry(fetch, retryPolicy); err != nil {
		return nil, err
	}

	return raw, nil
}

func (c *Client) cacheKey() string {
	return "manifest:" + c.manifestURL
}
