package service

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/assetgate/bundle-proxy-service/clients/backend"
)

// fetchFunc is either the Head or Get method of a backend client.
type fetchFunc func(ctx context.Context, resourceURI string, requestHeader http.Header) (*backend.Response, error)

// fetchAll issues one backend fetch per resource uri concurrently and
// waits for all of them, returning responses indexed identically to
// the input so index i refers to the same bundle member across the
// HEAD and GET phases of a request. The first transport failure
// cancels the outstanding sibling fetches and fails the whole batch,
// HTTP error statuses are not failures.
func fetchAll(ctx context.Context, fetch fetchFunc, resourceURIs []string, requestHeader http.Header) ([]*backend.Response, error) {
	responses := make([]*backend.Response, len(resourceURIs))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, resourceURI := range resourceURIs {
		i, resourceURI := i, resourceURI

		group.Go(func() error {
			response, err := fetch(groupCtx, resourceURI, requestHeader)
			if err != nil {
				return err
			}

			responses[i] = response
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return responses, nil
}
