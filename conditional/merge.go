// package conditional evaluates http conditional request semantics for
// the bundle proxy service: merging the caching headers of a bundle's
// member responses into one conjunctive header set and deciding whether
// a request's validators indicate the merged response is unmodified
package conditional

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// WhitelistedHeaders are the backend response headers the service
// passes through to clients, everything else is dropped.
var WhitelistedHeaders = []string{
	"Date",
	"Last-Modified",
	"Expires",
	"Cache-Control",
	"Content-Type",
}

// FilterWhitelisted returns a copy of header containing only the
// whitelisted response headers.
func FilterWhitelisted(header http.Header) http.Header {
	filtered := http.Header{}

	for _, name := range WhitelistedHeaders {
		if value := header.Get(name); value != "" {
			filtered.Set(name, value)
		}
	}

	return filtered
}

// MergeStatuses reduces the statuses of a bundle's member responses to
// one aggregate status. Statuses that disagree merge to 0, the
// indeterminate status, which callers must treat as "fetch required".
func MergeStatuses(statuses []int) int {
	if len(statuses) == 0 {
		return 0
	}

	merged := statuses[0]
	for _, status := range statuses[1:] {
		if status != merged {
			return 0
		}
	}

	return merged
}

// MergeHeaders computes the conjunctive header set across a bundle's
// member responses:
//   - Date and Last-Modified take the latest member value
//   - Expires takes the earliest member value
//   - Cache-Control takes the smallest member max-age
//   - ETag merges to a weak validator over every member's tag
//
// A header is present in the merge only when every member supplies a
// parseable value for it, partially parseable headers are dropped
// entirely. Content-Type is never merged, bundle responses carry their
// own. The merge is order independent for every merged header except
// ETag, whose member order is significant.
func MergeHeaders(headerSets []http.Header) http.Header {
	merged := http.Header{}

	if len(headerSets) == 0 {
		return merged
	}

	if value, ok := mergeTimeHeader(headerSets, "Date", latest); ok {
		merged.Set("Date", value)
	}
	if value, ok := mergeTimeHeader(headerSets, "Last-Modified", latest); ok {
		merged.Set("Last-Modified", value)
	}
	if value, ok := mergeTimeHeader(headerSets, "Expires", earliest); ok {
		merged.Set("Expires", value)
	}

	if maxAge, ok := mergeMaxAge(headerSets); ok {
		merged.Set("Cache-Control", fmt.Sprintf("max-age=%d", maxAge))
	}

	if etag, ok := mergeETags(headerSets); ok {
		merged.Set("Etag", etag)
	}

	return merged
}

type timePreference int

const (
	latest timePreference = iota
	earliest
)

// mergeTimeHeader merges an http date header across all header sets,
// keeping the member's verbatim value rather than reformatting it.
// The merge is undefined unless every member supplies a parseable value.
func mergeTimeHeader(headerSets []http.Header, name string, prefer timePreference) (string, bool) {
	winner := ""
	winnerTime := int64(0)

	for _, headers := range headerSets {
		value := headers.Get(name)
		if value == "" {
			return "", false
		}

		parsed, err := http.ParseTime(value)
		if err != nil {
			return "", false
		}

		unix := parsed.Unix()
		if winner == "" ||
			(prefer == latest && unix > winnerTime) ||
			(prefer == earliest && unix < winnerTime) {
			winner = value
			winnerTime = unix
		}
	}

	return winner, true
}

// mergeMaxAge extracts the max-age cache-control directive from every
// member and returns the smallest, undefined unless every member
// supplies one.
func mergeMaxAge(headerSets []http.Header) (int, bool) {
	smallest := 0

	for i, headers := range headerSets {
		maxAge, ok := parseMaxAge(headers.Get("Cache-Control"))
		if !ok {
			return 0, false
		}

		if i == 0 || maxAge < smallest {
			smallest = maxAge
		}
	}

	return smallest, true
}

// parseMaxAge extracts the max-age directive value from a cache-control
// header value.
func parseMaxAge(cacheControl string) (int, bool) {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)

		value, found := strings.CutPrefix(strings.ToLower(directive), "max-age=")
		if !found {
			continue
		}

		maxAge, err := strconv.Atoi(value)
		if err != nil {
			return 0, false
		}

		return maxAge, true
	}

	return 0, false
}

// mergeETags combines every member's entity tag into one weak
// validator so that a change to any member changes the merged tag,
// undefined unless every member supplies a tag.
func mergeETags(headerSets []http.Header) (string, bool) {
	var combined strings.Builder

	for _, headers := range headerSets {
		etag := headers.Get("Etag")
		if etag == "" {
			return "", false
		}

		etag = strings.TrimPrefix(etag, "W/")
		combined.WriteString(strings.Trim(etag, `"`))
	}

	return `W/"` + combined.String() + `"`, true
}
