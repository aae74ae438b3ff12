package bundle_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetgate/bundle-proxy-service/bundle"
)

func TestUnitTestValidateCallback(t *testing.T) {
	for _, tc := range []struct {
		desc     string
		callback string
		err      error
	}{
		{
			desc:     "plain identifier",
			callback: "define",
			err:      nil,
		},
		{
			desc:     "nested property expression",
			callback: "ns.define",
			err:      nil,
		},
		{
			desc:     "subscript expression",
			callback: `window["define"]`,
			err:      nil,
		},
		{
			desc:     "empty callback",
			callback: "",
			err:      bundle.ErrCallbackMissing,
		},
		{
			desc:     "markup is rejected",
			callback: "<script>alert(1)</script>",
			err:      bundle.ErrCallbackInvalid,
		},
		{
			desc:     "whitespace is rejected",
			callback: "ns define",
			err:      bundle.ErrCallbackInvalid,
		},
		{
			desc:     "semicolons are rejected",
			callback: "define;evil",
			err:      bundle.ErrCallbackInvalid,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			err := bundle.ValidateCallback(tc.callback)
			if tc.err == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestUnitTestEscapeKey(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		path    string
		escaped string
	}{
		{
			desc:    "alphanumerics and exceptions pass through",
			path:    "/pad/editor-v2_1.js",
			escaped: "/pad/editor-v2_1.js",
		},
		{
			desc:    "angle brackets are escaped",
			path:    "/a<b>.js",
			escaped: `/a\u003cb\u003e.js`,
		},
		{
			desc:    "quotes and spaces are escaped",
			path:    `/a "b".js`,
			escaped: `/a\u0020\u0022b\u0022.js`,
		},
		{
			desc:    "non bmp runes escape as surrogate pairs",
			path:    "/a\U0001F600.js",
			escaped: `/a\ud83d\ude00.js`,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.escaped, bundle.EscapeKey(tc.path))
		})
	}

	// a slash survives escaping but never forms markup
	require.NotContains(t, bundle.EscapeKey("/a<script>.js"), "<")
}

func TestUnitTestPackagePreservesOrderAndNullFills(t *testing.T) {
	members := []string{"/pad.js", "/pad/editor.js", "/pad/toolbar.js"}
	// member 2's fetch returned 404
	bodies := [][]byte{
		[]byte("exports.pad = true;"),
		nil,
		[]byte("exports.toolbar = true;"),
	}

	payload := string(bundle.Package("require.define", members, bodies))

	require.True(t, strings.HasPrefix(payload, "require.define({"))
	require.True(t, strings.HasSuffix(payload, "});\n"))

	require.Contains(t, payload, `"/pad/editor.js": null`)
	require.Contains(t, payload, "function _pad_js(require, exports, module)")
	require.Contains(t, payload, "exports.pad = true;")
	require.Contains(t, payload, "exports.toolbar = true;")

	// member order in the payload matches the associator order
	first := strings.Index(payload, `"/pad.js"`)
	second := strings.Index(payload, `"/pad/editor.js"`)
	third := strings.Index(payload, `"/pad/toolbar.js"`)
	require.True(t, first < second && second < third,
		fmt.Sprintf("expected ordered keys, got offsets %d %d %d", first, second, third))
}
