package assoc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetgate/bundle-proxy-service/assoc"
)

var defaultBundles = []assoc.BundleDefinition{
	{
		Name:    "/pad.js",
		Members: []string{"/pad.js", "/pad/editor.js", "/pad/toolbar.js"},
	},
	{
		Name:    "timeslider.js",
		Members: []string{"timeslider.js", "timeslider/slider.js"},
	},
}

func mkStatic(t *testing.T, bundles []assoc.BundleDefinition, aliases map[string]string) *assoc.Static {
	t.Helper()

	table, err := assoc.NewTable(bundles, aliases)
	require.NoError(t, err)

	return assoc.NewStatic(table, nil)
}

func TestUnitTestNewTableRejectsDuplicateBundleDefinitions(t *testing.T) {
	duplicated := append(defaultBundles, assoc.BundleDefinition{
		Name:    "/pad.js",
		Members: []string{"/pad.js"},
	})

	_, err := assoc.NewTable(duplicated, nil)
	require.ErrorIs(t, err, assoc.ErrDuplicateBundle)
}

func TestUnitTestStaticPreferredPath(t *testing.T) {
	associator := mkStatic(t, defaultBundles, map[string]string{
		"/pad/old-editor.js": "/pad/editor.js",
	})

	for _, tc := range []struct {
		desc      string
		path      string
		preferred string
	}{
		{
			desc:      "member resolves to its bundle name",
			path:      "/pad/editor.js",
			preferred: "/pad.js",
		},
		{
			desc:      "bundle name is already preferred",
			path:      "/pad.js",
			preferred: "/pad.js",
		},
		{
			desc:      "alias resolves through the member map",
			path:      "/pad/old-editor.js",
			preferred: "/pad.js",
		},
		{
			desc:      "unassociated path falls through to identity",
			path:      "/settings.js",
			preferred: "/settings.js",
		},
		{
			desc:      "relative member resolves to its bundle name",
			path:      "timeslider/slider.js",
			preferred: "timeslider.js",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			preferred, err := associator.PreferredPath(tc.path)
			require.NoError(t, err)
			require.Equal(t, tc.preferred, preferred)
		})
	}
}

func TestUnitTestStaticPreferredPathIsIdempotent(t *testing.T) {
	associator := mkStatic(t, defaultBundles, map[string]string{
		"/pad/old-editor.js": "/pad/editor.js",
	})

	for _, path := range []string{
		"/pad/editor.js",
		"/pad.js",
		"/pad/old-editor.js",
		"/settings.js",
		"timeslider/slider.js",
	} {
		preferred, err := associator.PreferredPath(path)
		require.NoError(t, err)

		again, err := associator.PreferredPath(preferred)
		require.NoError(t, err)
		require.Equal(t, preferred, again)
	}
}

func TestUnitTestStaticAssociatedModulePaths(t *testing.T) {
	associator := mkStatic(t, defaultBundles, nil)

	for _, tc := range []struct {
		desc    string
		path    string
		members []string
	}{
		{
			desc:    "bundle name returns its ordered member set",
			path:    "/pad.js",
			members: []string{"/pad.js", "/pad/editor.js", "/pad/toolbar.js"},
		},
		{
			desc:    "member returns its bundle's ordered member set",
			path:    "/pad/toolbar.js",
			members: []string{"/pad.js", "/pad/editor.js", "/pad/toolbar.js"},
		},
		{
			desc:    "unassociated path falls through to a singleton",
			path:    "/settings.js",
			members: []string{"/settings.js"},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			members, err := associator.AssociatedModulePaths(tc.path)
			require.NoError(t, err)
			require.Equal(t, tc.members, members)
		})
	}
}

func TestUnitTestAliasChainsResolveToFinalTarget(t *testing.T) {
	// a -> b -> c with c not itself a member, preferred is the real path
	associator := mkStatic(t, defaultBundles, map[string]string{
		"a": "b",
		"b": "c",
	})

	preferred, err := associator.PreferredPath("a")
	require.NoError(t, err)
	require.Equal(t, "c", preferred)
}

func TestUnitTestAliasCycleFailsAtFirstLookup(t *testing.T) {
	associator := mkStatic(t, defaultBundles, map[string]string{
		"a": "b",
		"b": "a",
	})

	_, err := associator.PreferredPath("a")
	require.ErrorIs(t, err, assoc.ErrAliasCycle)

	_, err = associator.AssociatedModulePaths("a")
	require.ErrorIs(t, err, assoc.ErrAliasCycle)

	// paths outside the cycle stay resolvable
	preferred, err := associator.PreferredPath("/pad/editor.js")
	require.NoError(t, err)
	require.Equal(t, "/pad.js", preferred)
}

func TestUnitTestStaticDelegatesMissesToNextAssociator(t *testing.T) {
	table, err := assoc.NewTable(defaultBundles, nil)
	require.NoError(t, err)

	associator := assoc.NewStatic(table, assoc.Simple{})

	members, err := associator.AssociatedModulePaths("/settings.js")
	require.NoError(t, err)
	require.Equal(t, []string{"/settings", "/settings.js", "/settings/index.js"}, members)
}
