// internal/registry/spec.go
package registry

import (
	"fmt"

	"github.com/tamzrod/heatshi/internal/field"
	"github.com/tamzrod/heatshi/internal/version"
)

// Spec is the structured record format for ad-hoc definitions, as it
// appears in configuration files. Only Index and Names are required.
type Spec struct {
	Index    *int     `yaml:"index"`
	Count    int      `yaml:"count"`
	Names    []string `yaml:"names"`
	Kind     string   `yaml:"kind"`
	Bit      uint     `yaml:"bit"`
	Writable bool     `yaml:"writable"`
	Safe     bool     `yaml:"safe"`
	Since    string   `yaml:"since"`
	Until    string   `yaml:"until"`
}

// Definition converts the record into an immutable definition.
func (s Spec) Definition() (*field.Definition, error) {
	if s.Index == nil || *s.Index < 0 {
		return nil, fmt.Errorf("registry: spec needs a non-negative index")
	}
	if len(s.Names) == 0 {
		return nil, fmt.Errorf("registry: spec for index %d needs at least one name", *s.Index)
	}

	count := s.Count
	if count == 0 {
		count = 1
	}
	if count < 1 {
		return nil, fmt.Errorf("registry: spec %s: count must be >= 1", s.Names[0])
	}

	kind := field.Raw
	if s.Kind != "" {
		var err error
		kind, err = field.KindByName(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("registry: spec %s: %w", s.Names[0], err)
		}
	}

	var since, until version.Version
	var err error
	if s.Since != "" {
		if since, err = version.Parse(s.Since); err != nil {
			return nil, fmt.Errorf("registry: spec %s: since: %w", s.Names[0], err)
		}
	}
	if s.Until != "" {
		if until, err = version.Parse(s.Until); err != nil {
			return nil, fmt.Errorf("registry: spec %s: until: %w", s.Names[0], err)
		}
	}

	return &field.Definition{
		Index:    *s.Index,
		Count:    count,
		Names:    s.Names,
		Kind:     kind,
		Bit:      s.Bit,
		Writable: s.Writable,
		Safe:     s.Safe,
		Since:    since,
		Until:    until,
	}, nil
}
