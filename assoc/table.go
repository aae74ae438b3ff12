package assoc

import (
	"fmt"
)

// BundleDefinition names one bundle and lists its member module paths
// in serving order. The bundle name is itself a module path, it is the
// canonical member every other member's preferred path resolves to.
type BundleDefinition struct {
	Name    string   `json:"name" yaml:"name"`
	Members []string `json:"members" yaml:"members"`
}

// Table is an immutable, bidirectional association table mapping
// bundle name -> ordered member module paths and member module path ->
// canonical bundle name, with an alias indirection layer on top.
// A Table is built once per service configuration and is safe for
// unsynchronized concurrent reads.
type Table struct {
	membersByBundle map[string][]string
	bundleByMember  map[string]string
	aliases         map[string]string
}

// NewTable builds a Table from ordered bundle definitions and an alias
// map, inverting the bundle -> members representation into the
// member -> bundle one. Duplicate bundle definitions are rejected.
// When a member appears in more than one bundle the first definition wins.
func NewTable(bundles []BundleDefinition, aliases map[string]string) (*Table, error) {
	membersByBundle := make(map[string][]string, len(bundles))
	bundleByMember := make(map[string]string)

	for _, bundle := range bundles {
		if _, exists := membersByBundle[bundle.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBundle, bundle.Name)
		}

		members := make([]string, len(bundle.Members))
		copy(members, bundle.Members)
		membersByBundle[bundle.Name] = members

		for _, member := range members {
			if _, exists := bundleByMember[member]; !exists {
				bundleByMember[member] = bundle.Name
			}
		}
	}

	tableAliases := make(map[string]string, len(aliases))
	for source, target := range aliases {
		tableAliases[source] = target
	}

	return &Table{
		membersByBundle: membersByBundle,
		bundleByMember:  bundleByMember,
		aliases:         tableAliases,
	}, nil
}

// ResolveAlias follows the alias indirection chain starting at the
// given module path until a non-aliased path is reached, returning the
// resolved path. Revisiting a path already seen during resolution
// returns ErrAliasCycle, alias chains must terminate in bounded steps.
func (t *Table) ResolveAlias(modulePath string) (string, error) {
	visited := map[string]bool{}

	current := modulePath
	for {
		if visited[current] {
			return "", fmt.Errorf("%w: resolving %s revisited %s", ErrAliasCycle, modulePath, current)
		}
		visited[current] = true

		target, aliased := t.aliases[current]
		if !aliased {
			return current, nil
		}
		current = target
	}
}

// BundleFor returns the canonical bundle name for a member module path.
func (t *Table) BundleFor(memberPath string) (string, bool) {
	bundle, found := t.bundleByMember[memberPath]
	return bundle, found
}

// MembersOf returns a copy of the ordered member set for a bundle name.
func (t *Table) MembersOf(bundleName string) ([]string, bool) {
	members, found := t.membersByBundle[bundleName]
	if !found {
		return nil, false
	}

	out := make([]string, len(members))
	copy(out, members)
	return out, true
}

// Static is an Associator backed by an immutable association Table.
// Lookups that miss the table are delegated to the next Associator in
// the chain, which defaults to Identity.
type Static struct {
	table *Table
	next  Associator
}

var _ Associator = (*Static)(nil)

// NewStatic creates a Static associator over the provided table,
// delegating missed lookups to next, or to Identity when next is nil.
func NewStatic(table *Table, next Associator) *Static {
	if next == nil {
		next = Identity{}
	}

	return &Static{
		table: table,
		next:  next,
	}
}

// PreferredPath implements Associator. Aliases are resolved first, then
// the member -> bundle map names the canonical path. A resolved alias
// target that is not a member is canonical as-is, anything else misses
// and is delegated down the chain.
func (s *Static) PreferredPath(modulePath string) (string, error) {
	resolved, err := s.table.ResolveAlias(modulePath)
	if err != nil {
		return "", err
	}

	if bundle, found := s.table.BundleFor(resolved); found {
		return bundle, nil
	}

	if resolved != modulePath {
		return resolved, nil
	}

	return s.next.PreferredPath(resolved)
}

// AssociatedModulePaths implements Associator. A bundle name returns
// its own member set, a member returns its bundle's member set, and
// anything else is delegated down the chain.
func (s *Static) AssociatedModulePaths(modulePath string) ([]string, error) {
	resolved, err := s.table.ResolveAlias(modulePath)
	if err != nil {
		return nil, err
	}

	if members, found := s.table.MembersOf(resolved); found {
		return members, nil
	}

	if bundle, found := s.table.BundleFor(resolved); found {
		members, _ := s.table.MembersOf(bundle)
		return members, nil
	}

	return s.next.AssociatedModulePaths(resolved)
}
