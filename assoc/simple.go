package assoc

import "strings"

// Simple is a convention based Associator used when no association
// table is configured. It derives a three way bundle from the module
// path string alone: the path with its `.js` or `/index.js` suffix
// stripped, the stripped path plus `.js`, and the stripped path plus
// `/index.js`.
type Simple struct{}

var _ Associator = Simple{}

// PreferredPath implements Associator. Convention derived bundles have
// no canonical member, so every path is already preferred.
func (Simple) PreferredPath(modulePath string) (string, error) {
	return modulePath, nil
}

// AssociatedModulePaths implements Associator.
func (Simple) AssociatedModulePaths(modulePath string) ([]string, error) {
	base := modulePath
	if strings.HasSuffix(modulePath, "/index.js") {
		base = strings.TrimSuffix(modulePath, "/index.js")
	} else if strings.HasSuffix(modulePath, ".js") {
		base = strings.TrimSuffix(modulePath, ".js")
	}

	return []string{base, base + ".js", base + "/index.js"}, nil
}
