package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/assetgate/bundle-proxy-service/assoc"
)

// associationsFile is the yaml representation of a locally configured
// association table, structurally identical to the manifest document
// served by a manifest host.
type associationsFile struct {
	Bundles map[string][]string `yaml:"bundles"`
	Aliases map[string]string   `yaml:"aliases"`
}

// LoadAssociationsFile reads a yaml association table from the given
// path and builds the association table it describes. Bundle names are
// sorted before inversion so construction is deterministic across
// loads.
func LoadAssociationsFile(path string) (*assoc.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error %s reading associations file %s", err, path)
	}

	var file associationsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("error %s parsing associations file %s", err, path)
	}

	names := make([]string, 0, len(file.Bundles))
	for name := range file.Bundles {
		names = append(names, name)
	}
	sort.Strings(names)

	definitions := make([]assoc.BundleDefinition, 0, len(names))
	for _, name := range names {
		definitions = append(definitions, assoc.BundleDefinition{
			Name:    name,
			Members: file.Bundles[name],
		})
	}

	return assoc.NewTable(definitions, file.Aliases)
}
