package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/assetgate/bundle-proxy-service/assoc"
	"github.com/assetgate/bundle-proxy-service/bundle"
	"github.com/assetgate/bundle-proxy-service/clients/backend"
	"github.com/assetgate/bundle-proxy-service/conditional"
	"github.com/assetgate/bundle-proxy-service/config"
	"github.com/assetgate/bundle-proxy-service/logging"
)

const (
	bundleContentType = "application/javascript; charset=utf-8"
	directContentType = "application/javascript"

	allowedMethods = "HEAD, GET"
)

// Dispatcher turns a classified module request into exactly one
// status/header/body response: a transparent direct proxy of a single
// module, or a packaged bundle of every module associated with it when
// the request carries a callback query parameter.
type Dispatcher struct {
	router     Router
	associator assoc.Associator
	backend    backend.Client

	rootBackendBase    string
	libraryBackendBase string
	redirectBase       string

	// next handles requests under neither namespace prefix,
	// nil means they answer not found
	next http.Handler

	*logging.ServiceLogger
}

var _ http.Handler = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher over an immutable configuration,
// associator, and backend fetch client. All three are read-only during
// request handling, concurrent requests share them without locking.
func NewDispatcher(cfg config.Config, associator assoc.Associator, backendClient backend.Client, next http.Handler, serviceLogger *logging.ServiceLogger) *Dispatcher {
	return &Dispatcher{
		router:             NewRouter(cfg.RootPathPrefix, cfg.LibraryPathPrefix),
		associator:         associator,
		backend:            backendClient,
		rootBackendBase:    strings.TrimSuffix(cfg.RootBackendBaseURLRaw, "/"),
		libraryBackendBase: strings.TrimSuffix(cfg.LibraryBackendBaseURLRaw, "/"),
		redirectBase:       cfg.RedirectBaseURLRaw,
		next:               next,
		ServiceLogger:      serviceLogger,
	}
}

// resourceURI maps a module path to its backend resource uri via the
// namespace prefix transformation, exactly one uri per module path.
func (d *Dispatcher) resourceURI(modulePath string) string {
	if strings.HasPrefix(modulePath, "/") {
		return d.rootBackendBase + modulePath
	}
	return d.libraryBackendBase + "/" + modulePath
}

// ServeHTTP implements the request state machine: parse url, resolve
// module path, validate method, then direct proxy or the bundle path.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	modulePath, requestPath, err := d.router.ResolveModulePath(r.RequestURI)
	if errors.Is(err, ErrMalformedURL) {
		d.Debug().Err(err).Msg("rejecting unparseable request url")
		http.Error(w, "unparseable request url", http.StatusUnprocessableEntity)
		return
	}
	if errors.Is(err, ErrUnresolvedPath) {
		if d.next != nil {
			d.next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if err := ValidateMethod(r.Method); err != nil {
		w.Header().Set("Allow", allowedMethods)
		http.Error(w, err.Error(), http.StatusMethodNotAllowed)
		return
	}

	if !r.URL.Query().Has("callback") {
		err = d.serveDirect(w, r, modulePath)
	} else {
		err = d.serveBundle(w, r, modulePath, requestPath)
	}

	if err != nil {
		d.fail(w, r, err)
	}
}

// fail terminates a request whose handling failed outright. Backend
// transport failures surface as bad gateway, an alias cycle is a
// configuration error and surfaces as internal error.
func (d *Dispatcher) fail(w http.ResponseWriter, r *http.Request, err error) {
	d.Error().Err(err).Str("url", r.URL.String()).Msg("request handling failed")

	if errors.Is(err, assoc.ErrAliasCycle) {
		http.Error(w, "module association configuration error", http.StatusInternalServerError)
		return
	}

	http.Error(w, "bad gateway", http.StatusBadGateway)
}

// serveDirect proxies a single module request transparently.
func (d *Dispatcher) serveDirect(w http.ResponseWriter, r *http.Request, modulePath string) error {
	response, err := d.backend.Get(r.Context(), d.resourceURI(modulePath), r.Header)
	if err != nil {
		return err
	}

	switch response.Status {
	case http.StatusOK:
		copyHeader(w.Header(), conditional.FilterWhitelisted(response.Header))
		w.Header().Set("Content-Type", directContentType)
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			w.Write(response.Body)
		}
	case http.StatusNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	default:
		header := conditional.FilterWhitelisted(response.Header)
		header.Del("Content-Type")
		copyHeader(w.Header(), header)

		status := response.Status
		if conditional.NotModified(r.Header, response.Header) {
			status = http.StatusNotModified
		}
		w.WriteHeader(status)
	}

	return nil
}

// serveBundle serves every module associated with the requested one in
// a single packaged response, after canonicalizing the requested path
// and evaluating the bundle's merged conditional-cache state.
func (d *Dispatcher) serveBundle(w http.ResponseWriter, r *http.Request, modulePath string, requestPath string) error {
	callback := r.URL.Query().Get("callback")
	if err := bundle.ValidateCallback(callback); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	preferred, err := d.associator.PreferredPath(modulePath)
	if err != nil {
		return err
	}

	if preferred != modulePath {
		location := d.redirectLocation(requestPath, preferred, r.URL.RawQuery)

		w.Header().Set("Location", location)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusTemporaryRedirect)
		fmt.Fprintf(w, "temporarily moved to %s\n", location)
		return nil
	}

	members, err := d.associator.AssociatedModulePaths(modulePath)
	if err != nil {
		return err
	}

	if record := metricRecordFromContext(r.Context()); record != nil {
		record.RequestedBundle = true
		record.BundleMemberCount = len(members)
	}

	resourceURIs := make([]string, len(members))
	for i, member := range members {
		resourceURIs[i] = d.resourceURI(member)
	}

	headResponses, err := fetchAll(r.Context(), d.backend.Head, resourceURIs, r.Header)
	if err != nil {
		return err
	}

	statuses := make([]int, len(headResponses))
	headerSets := make([]http.Header, len(headResponses))
	headUnsupported := false
	for i, response := range headResponses {
		statuses[i] = response.Status
		headerSets[i] = response.Header
		if response.Status == http.StatusMethodNotAllowed {
			headUnsupported = true
		}
	}

	mergedStatus := conditional.MergeStatuses(statuses)
	mergedHeader := conditional.MergeHeaders(headerSets)

	// the bundle as a whole is unmodified, no body regardless of method
	if mergedStatus == http.StatusNotModified || conditional.NotModified(r.Header, mergedHeader) {
		copyHeader(w.Header(), mergedHeader)
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	// HEAD answered from the HEAD fan-out alone, as long as every
	// member produced a real status and those statuses agree
	if r.Method == http.MethodHead && mergedStatus != 0 && !headUnsupported {
		copyHeader(w.Header(), mergedHeader)
		w.Header().Set("Content-Type", bundleContentType)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(mergedStatus)
		return nil
	}

	// bodies are fetched unconditionally, a member answering 304 to a
	// forwarded validator would have no body to package
	getResponses, err := fetchAll(r.Context(), d.backend.Get, resourceURIs, nil)
	if err != nil {
		return err
	}

	getHeaderSets := make([]http.Header, len(getResponses))
	bodies := make([][]byte, len(getResponses))
	for i, response := range getResponses {
		getHeaderSets[i] = response.Header
		// non-200 members become null markers in the packaged payload
		if response.Status == http.StatusOK {
			bodies[i] = response.Body
		}
	}

	copyHeader(w.Header(), conditional.MergeHeaders(getHeaderSets))
	w.Header().Set("Content-Type", bundleContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return nil
	}

	w.Write(bundle.Package(callback, members, bodies))
	return nil
}

// copyHeader adds every value in src to dst.
func copyHeader(dst http.Header, src http.Header) {
	for name, values := range src {
		for _, value := range values {
			dst.Add(name, value)
		}
	}
}
