package conditional_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetgate/bundle-proxy-service/conditional"
)

func mkHeader(pairs map[string]string) http.Header {
	header := http.Header{}
	for name, value := range pairs {
		header.Set(name, value)
	}
	return header
}

func TestUnitTestMergeHeadersConjunctiveRules(t *testing.T) {
	older := mkHeader(map[string]string{
		"Date":          "Mon, 02 Jan 2023 15:04:05 GMT",
		"Last-Modified": "Sun, 01 Jan 2023 00:00:00 GMT",
		"Expires":       "Wed, 04 Jan 2023 00:00:00 GMT",
		"Cache-Control": "public, max-age=600",
		"Etag":          `"aaa"`,
	})
	newer := mkHeader(map[string]string{
		"Date":          "Tue, 03 Jan 2023 15:04:05 GMT",
		"Last-Modified": "Mon, 02 Jan 2023 00:00:00 GMT",
		"Expires":       "Thu, 05 Jan 2023 00:00:00 GMT",
		"Cache-Control": "max-age=60",
		"Etag":          `W/"bbb"`,
	})

	merged := conditional.MergeHeaders([]http.Header{older, newer})

	require.Equal(t, "Tue, 03 Jan 2023 15:04:05 GMT", merged.Get("Date"))
	require.Equal(t, "Mon, 02 Jan 2023 00:00:00 GMT", merged.Get("Last-Modified"))
	require.Equal(t, "Wed, 04 Jan 2023 00:00:00 GMT", merged.Get("Expires"))
	require.Equal(t, "max-age=60", merged.Get("Cache-Control"))
	require.Equal(t, `W/"aaabbb"`, merged.Get("Etag"))
}

func TestUnitTestMergeHeadersIsOrderIndependent(t *testing.T) {
	h1 := mkHeader(map[string]string{
		"Date":          "Mon, 02 Jan 2023 15:04:05 GMT",
		"Last-Modified": "Sun, 01 Jan 2023 00:00:00 GMT",
		"Expires":       "Wed, 04 Jan 2023 00:00:00 GMT",
		"Cache-Control": "max-age=600",
	})
	h2 := mkHeader(map[string]string{
		"Date":          "Tue, 03 Jan 2023 15:04:05 GMT",
		"Last-Modified": "Mon, 02 Jan 2023 00:00:00 GMT",
		"Expires":       "Thu, 05 Jan 2023 00:00:00 GMT",
		"Cache-Control": "max-age=60",
	})

	forward := conditional.MergeHeaders([]http.Header{h1, h2})
	reverse := conditional.MergeHeaders([]http.Header{h2, h1})

	require.Equal(t, forward, reverse)
}

func TestUnitTestMergeHeadersDropsPartiallyParseableHeaders(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		sets    []http.Header
		dropped string
	}{
		{
			desc: "missing date on one member drops date",
			sets: []http.Header{
				mkHeader(map[string]string{"Date": "Mon, 02 Jan 2023 15:04:05 GMT"}),
				mkHeader(map[string]string{}),
			},
			dropped: "Date",
		},
		{
			desc: "unparseable last-modified on one member drops last-modified",
			sets: []http.Header{
				mkHeader(map[string]string{"Last-Modified": "Mon, 02 Jan 2023 15:04:05 GMT"}),
				mkHeader(map[string]string{"Last-Modified": "sometime yesterday"}),
			},
			dropped: "Last-Modified",
		},
		{
			desc: "cache-control without max-age drops cache-control",
			sets: []http.Header{
				mkHeader(map[string]string{"Cache-Control": "max-age=60"}),
				mkHeader(map[string]string{"Cache-Control": "no-store"}),
			},
			dropped: "Cache-Control",
		},
		{
			desc: "missing etag on one member drops etag",
			sets: []http.Header{
				mkHeader(map[string]string{"Etag": `"aaa"`}),
				mkHeader(map[string]string{}),
			},
			dropped: "Etag",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			merged := conditional.MergeHeaders(tc.sets)
			require.Empty(t, merged.Get(tc.dropped))
		})
	}
}

func TestUnitTestMergeHeadersNeverMergesContentType(t *testing.T) {
	merged := conditional.MergeHeaders([]http.Header{
		mkHeader(map[string]string{"Content-Type": "application/javascript"}),
		mkHeader(map[string]string{"Content-Type": "application/javascript"}),
	})

	require.Empty(t, merged.Get("Content-Type"))
}

func TestUnitTestMergeStatuses(t *testing.T) {
	for _, tc := range []struct {
		desc     string
		statuses []int
		merged   int
	}{
		{
			desc:     "all members agree",
			statuses: []int{304, 304, 304},
			merged:   304,
		},
		{
			desc:     "disagreement is indeterminate",
			statuses: []int{200, 304, 200},
			merged:   0,
		},
		{
			desc:     "no members is indeterminate",
			statuses: []int{},
			merged:   0,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.merged, conditional.MergeStatuses(tc.statuses))
		})
	}
}

func TestUnitTestNotModified(t *testing.T) {
	for _, tc := range []struct {
		desc        string
		request     http.Header
		response    http.Header
		notModified bool
	}{
		{
			desc:        "etags match exactly",
			request:     mkHeader(map[string]string{"If-None-Match": `"aaa"`}),
			response:    mkHeader(map[string]string{"Etag": `"aaa"`}),
			notModified: true,
		},
		{
			desc:        "etags differ",
			request:     mkHeader(map[string]string{"If-None-Match": `"aaa"`}),
			response:    mkHeader(map[string]string{"Etag": `"bbb"`}),
			notModified: false,
		},
		{
			desc:        "last modified before if-modified-since",
			request:     mkHeader(map[string]string{"If-Modified-Since": "Tue, 03 Jan 2023 00:00:00 GMT"}),
			response:    mkHeader(map[string]string{"Last-Modified": "Mon, 02 Jan 2023 00:00:00 GMT"}),
			notModified: true,
		},
		{
			desc:        "last modified equal to if-modified-since",
			request:     mkHeader(map[string]string{"If-Modified-Since": "Mon, 02 Jan 2023 00:00:00 GMT"}),
			response:    mkHeader(map[string]string{"Last-Modified": "Mon, 02 Jan 2023 00:00:00 GMT"}),
			notModified: true,
		},
		{
			desc:        "last modified after if-modified-since",
			request:     mkHeader(map[string]string{"If-Modified-Since": "Mon, 02 Jan 2023 00:00:00 GMT"}),
			response:    mkHeader(map[string]string{"Last-Modified": "Tue, 03 Jan 2023 00:00:00 GMT"}),
			notModified: false,
		},
		{
			desc:        "unparseable last modified",
			request:     mkHeader(map[string]string{"If-Modified-Since": "Mon, 02 Jan 2023 00:00:00 GMT"}),
			response:    mkHeader(map[string]string{"Last-Modified": "sometime"}),
			notModified: false,
		},
		{
			desc:        "no validators at all",
			request:     mkHeader(map[string]string{}),
			response:    mkHeader(map[string]string{"Last-Modified": "Mon, 02 Jan 2023 00:00:00 GMT"}),
			notModified: false,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.notModified, conditional.NotModified(tc.request, tc.response))
		})
	}
}
