// package backend provides the fetch collaborator used by the bundle
// proxy service to issue HEAD and GET requests against backend
// resource URIs
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/assetgate/bundle-proxy-service/logging"
)

// Response wraps the parts of a backend response the service consumes.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client is an interface for fetching backend resources. An HTTP error
// status is a valid Response, only transport level failures return an
// error, and those propagate out of request handling uninterpreted.
type Client interface {
	Head(ctx context.Context, resourceURI string, requestHeader http.Header) (*Response, error)
	Get(ctx context.Context, resourceURI string, requestHeader http.Header) (*Response, error)
}

// conditionalRequestHeaders are the only client request headers
// forwarded to the backend, the backend answers 304 on their basis.
var conditionalRequestHeaders = []string{
	"If-Modified-Since",
	"If-None-Match",
}

// HTTPClient is the default Client implementation over net/http.
type HTTPClient struct {
	client *http.Client
	*logging.ServiceLogger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTPClient with the specified request
// timeout.
func NewHTTPClient(timeout time.Duration, logger *logging.ServiceLogger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		ServiceLogger: logger,
	}
}

// Head implements Client.
func (c *HTTPClient) Head(ctx context.Context, resourceURI string, requestHeader http.Header) (*Response, error) {
	return c.do(ctx, http.MethodHead, resourceURI, requestHeader)
}

// Get implements Client.
func (c *HTTPClient) Get(ctx context.Context, resourceURI string, requestHeader http.Header) (*Response, error) {
	return c.do(ctx, http.MethodGet, resourceURI, requestHeader)
}

func (c *HTTPClient) do(ctx context.Context, method string, resourceURI string, requestHeader http.Header) (*Response, error) {
	request, err := http.NewRequestWithContext(ctx, method, resourceURI, nil)
	if err != nil {
		return nil, fmt.Errorf("error %s creating %s request for %s", err, method, resourceURI)
	}

	for _, name := range conditionalRequestHeaders {
		if value := requestHeader.Get(name); value != "" {
			request.Header.Set(name, value)
		}
	}

	c.Trace().Msg(fmt.Sprintf("fetching %s %s", method, resourceURI))

	response, err := c.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	c.Trace().Msg(fmt.Sprintf("fetched %s %s status %d with %d body bytes", method, resourceURI, response.StatusCode, len(body)))

	return &Response{
		Status: response.StatusCode,
		Header: response.Header,
		Body:   body,
	}, nil
}
