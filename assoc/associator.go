// package assoc provides the association policy used by the bundle
// proxy service to decide the canonical path for a requested module
// and the full set of module paths bundled along with it
package assoc

// Associator is an interface for resolving the canonical form of a
// module path and the ordered set of module paths served with it.
type Associator interface {
	// PreferredPath returns the canonical/primary form of the given module path.
	PreferredPath(modulePath string) (string, error)
	// AssociatedModulePaths returns, in serving order, every module path
	// bundled with the given module path (including the path itself).
	AssociatedModulePaths(modulePath string) ([]string, error)
}

// Identity is an Associator that performs no bundling, every module
// path is its own canonical form and its own singleton bundle.
// It is the default tail of any associator chain.
type Identity struct{}

var _ Associator = Identity{}

// PreferredPath implements Associator. It returns the module path unchanged.
func (Identity) PreferredPath(modulePath string) (string, error) {
	return modulePath, nil
}

// AssociatedModulePaths implements Associator. It returns the module path as a singleton.
func (Identity) AssociatedModulePaths(modulePath string) ([]string, error) {
	return []string{modulePath}, nil
}
