package assoc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetgate/bundle-proxy-service/assoc"
)

func TestUnitTestSimpleAssociatorDerivesThreeWayBundle(t *testing.T) {
	associator := assoc.Simple{}

	for _, tc := range []struct {
		desc    string
		path    string
		members []string
	}{
		{
			desc:    "plain js suffix",
			path:    "/pad.js",
			members: []string{"/pad", "/pad.js", "/pad/index.js"},
		},
		{
			desc:    "index js suffix",
			path:    "/pad/index.js",
			members: []string{"/pad", "/pad.js", "/pad/index.js"},
		},
		{
			desc:    "no suffix",
			path:    "/pad",
			members: []string{"/pad", "/pad.js", "/pad/index.js"},
		},
		{
			desc:    "relative library path",
			path:    "jquery.js",
			members: []string{"jquery", "jquery.js", "jquery/index.js"},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			preferred, err := associator.PreferredPath(tc.path)
			require.NoError(t, err)
			require.Equal(t, tc.path, preferred)

			members, err := associator.AssociatedModulePaths(tc.path)
			require.NoError(t, err)
			require.Equal(t, tc.members, members)
		})
	}
}
