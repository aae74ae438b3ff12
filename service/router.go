package service

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Router classifies incoming request urls into module paths under the
// root or library namespace. Absolute module paths (leading slash)
// belong to the root namespace, relative ones to the library namespace.
type Router struct {
	rootPrefix    string
	libraryPrefix string
}

// NewRouter creates a Router for the given namespace url prefixes.
// Both prefixes must begin and end with a slash and must not nest,
// config.Validate enforces this before the service starts.
func NewRouter(rootPrefix, libraryPrefix string) Router {
	return Router{
		rootPrefix:    rootPrefix,
		libraryPrefix: libraryPrefix,
	}
}

// ResolveModulePath parses and normalizes the raw request uri,
// returning the module path it addresses and the normalized request
// path. A parse failure returns ErrMalformedURL, a path under neither
// namespace prefix returns ErrUnresolvedPath.
func (rt Router) ResolveModulePath(requestURI string) (modulePath string, requestPath string, err error) {
	parsed, parseErr := url.ParseRequestURI(requestURI)
	if parseErr != nil {
		return "", "", fmt.Errorf("%w: %s", ErrMalformedURL, parseErr)
	}

	// collapse `.`, `..`, and empty segments with posix rules
	cleaned := path.Clean(parsed.Path)

	switch {
	case strings.HasPrefix(cleaned, rt.rootPrefix):
		// keep the prefix's trailing slash as the module path's leading slash
		return cleaned[len(rt.rootPrefix)-1:], cleaned, nil
	case strings.HasPrefix(cleaned, rt.libraryPrefix):
		return cleaned[len(rt.libraryPrefix):], cleaned, nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnresolvedPath, cleaned)
	}
}

// ValidateMethod checks the request method against the two supported
// methods.
func ValidateMethod(method string) error {
	if method != http.MethodGet && method != http.MethodHead {
		return fmt.Errorf("%w: got %s", ErrUnsupportedMethod, method)
	}
	return nil
}

// NamespacePath re-prefixes a module path with the url prefix of the
// namespace it belongs to.
func (rt Router) NamespacePath(modulePath string) string {
	if strings.HasPrefix(modulePath, "/") {
		return rt.rootPrefix + modulePath[1:]
	}
	return rt.libraryPrefix + modulePath
}
