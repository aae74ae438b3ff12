package conditional

import "net/http"

// NotModified reports whether the request's validators indicate the
// response is unchanged: either the entity tags match exactly, or the
// response's Last-Modified parses and is no newer than the request's
// If-Modified-Since.
func NotModified(requestHeader, responseHeader http.Header) bool {
	requestETag := requestHeader.Get("If-None-Match")
	if requestETag != "" && requestETag == responseHeader.Get("Etag") {
		return true
	}

	modifiedSince := requestHeader.Get("If-Modified-Since")
	lastModified := responseHeader.Get("Last-Modified")
	if modifiedSince == "" || lastModified == "" {
		return false
	}

	sinceTime, err := http.ParseTime(modifiedSince)
	if err != nil {
		return false
	}

	modifiedTime, err := http.ParseTime(lastModified)
	if err != nil {
		return false
	}

	return !modifiedTime.After(sinceTime)
}
