package service

import "errors"

var (
	// ErrMalformedURL indicates the request url could not be parsed at all.
	ErrMalformedURL = errors.New("request url is malformed")
	// ErrUnresolvedPath indicates the request path matched neither the
	// root nor the library namespace prefix.
	ErrUnresolvedPath = errors.New("request path does not resolve to a module path")
	// ErrUnsupportedMethod indicates a method other than GET or HEAD.
	ErrUnsupportedMethod = errors.New("method must be GET or HEAD")
)
