package service_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetgate/bundle-proxy-service/service"
)

func TestUnitTestResolveModulePath(t *testing.T) {
	router := service.NewRouter("/root/", "/lib/")

	for _, tc := range []struct {
		desc        string
		requestURI  string
		modulePath  string
		requestPath string
		err         error
	}{
		{
			desc:        "root namespace produces an absolute module path",
			requestURI:  "/root/pad.js",
			modulePath:  "/pad.js",
			requestPath: "/root/pad.js",
		},
		{
			desc:        "library namespace produces a relative module path",
			requestURI:  "/lib/jquery.js",
			modulePath:  "jquery.js",
			requestPath: "/lib/jquery.js",
		},
		{
			desc:        "dot segments are collapsed before prefix matching",
			requestURI:  "/root/a/../b.js",
			modulePath:  "/b.js",
			requestPath: "/root/b.js",
		},
		{
			desc:        "query string is not part of the module path",
			requestURI:  "/root/pad.js?callback=require.define",
			modulePath:  "/pad.js",
			requestPath: "/root/pad.js",
		},
		{
			desc:       "path under neither prefix is unresolved",
			requestURI: "/other/pad.js",
			err:        service.ErrUnresolvedPath,
		},
		{
			desc:       "invalid percent encoding is malformed",
			requestURI: "/root/%zz",
			err:        service.ErrMalformedURL,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			modulePath, requestPath, err := router.ResolveModulePath(tc.requestURI)

			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.modulePath, modulePath)
			require.Equal(t, tc.requestPath, requestPath)
		})
	}
}

func TestUnitTestValidateMethod(t *testing.T) {
	require.NoError(t, service.ValidateMethod(http.MethodGet))
	require.NoError(t, service.ValidateMethod(http.MethodHead))
	require.ErrorIs(t, service.ValidateMethod(http.MethodPost), service.ErrUnsupportedMethod)
	require.ErrorIs(t, service.ValidateMethod(http.MethodDelete), service.ErrUnsupportedMethod)
}

func TestUnitTestNamespacePath(t *testing.T) {
	router := service.NewRouter("/root/", "/lib/")

	require.Equal(t, "/root/pad.js", router.NamespacePath("/pad.js"))
	require.Equal(t, "/lib/jquery.js", router.NamespacePath("jquery.js"))
}
