// Package seed loads the fact registry from its YAML file format and
// builds the Boston Resident Parking Permit process graph. The default
// seed data is embedded so a fresh install works offline.
package seed

import (
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/civickit/permitgraph/pkg/registry"
	"github.com/civickit/permitgraph/pkg/types"
)

//go:embed facts.yaml
var defaultFactsYAML []byte

// registryFile is the on-disk shape of a facts registry file.
type registryFile struct {
	Version     string       `yaml:"version"`
	LastUpdated time.Time    `yaml:"last_updated"`
	Scope       string       `yaml:"scope"`
	Facts       []types.Fact `yaml:"facts"`
}

// LoadRegistry parses a facts registry file and registers every fact.
// A fact with an incomplete citation fails the whole load: seed data is
// regulatory data and gets no exemption from the provenance gate.
func LoadRegistry(data []byte, log *slog.Logger) (*registry.Registry, error) {
	if log == nil {
		log = slog.Default()
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing facts file: %w", err)
	}

	reg := registry.New()
	reg.SetInfo(registry.Info{
		Version:     file.Version,
		LastUpdated: file.LastUpdated,
		Scope:       file.Scope,
	})

	for _, f := range file.Facts {
		if err := reg.Register(f); err != nil {
			return nil, fmt.Errorf("seed fact %s: %w", f.ID, err)
		}
	}

	log.Info("fact registry seeded",
		"scope", file.Scope, "file_version", file.Version, "facts", reg.Len())
	return reg, nil
}

// DefaultRegistry loads the embedded Boston RPP facts.
func DefaultRegistry(log *slog.Logger) (*registry.Registry, error) {
	return LoadRegistry(defaultFactsYAML, log)
}
