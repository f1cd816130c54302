// internal/registry/registry.go
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tamzrod/heatshi/internal/field"
	"github.com/tamzrod/heatshi/internal/version"
)

// ErrNotFound is returned when no definition matches a name, index or
// alias.
var ErrNotFound = errors.New("registry: definition not found")

// Key identifies a definition: an int register index, a string name,
// or any other comparable value previously registered as an alias.
type Key = any

// Registry is the append-only catalog of every definition known for
// one register class (holdings or inputs). Registering at an occupied
// index layers a new definition on top: lookups return the newest,
// All still lists the full history. Definitions are never removed.
type Registry struct {
	name string
	defs []*field.Definition // ascending index, insertion order within an index

	byIndex map[int]*field.Definition
	byName  map[string]*field.Definition
	byAlias map[any]*field.Definition
}

// New creates an empty registry for one register class.
func New(name string) *Registry {
	return &Registry{
		name:    name,
		byIndex: make(map[int]*field.Definition),
		byName:  make(map[string]*field.Definition),
		byAlias: make(map[any]*field.Definition),
	}
}

// Name returns the register class name, e.g. "holdings".
func (r *Registry) Name() string {
	return r.name
}

// Register adds a definition. A definition at an already-known index
// or name shadows the previous one for lookups; this is how custom or
// experimental definitions are layered in.
func (r *Registry) Register(d *field.Definition) error {
	if d == nil || !d.Valid() {
		return fmt.Errorf("registry: invalid definition %v", d)
	}

	// Keep defs ordered by index; equal indices keep insertion order
	// so the newest layer sorts last.
	at := sort.Search(len(r.defs), func(i int) bool {
		return r.defs[i].Index > d.Index
	})
	r.defs = append(r.defs, nil)
	copy(r.defs[at+1:], r.defs[at:])
	r.defs[at] = d

	r.byIndex[d.Index] = d
	for _, n := range d.Names {
		r.byName[strings.ToLower(n)] = d
	}
	return nil
}

// RegisterSpec converts a structured record into a definition and
// registers it. This is the surface configuration uses to layer in
// undocumented fields without code changes.
func (r *Registry) RegisterSpec(s Spec) (*field.Definition, error) {
	d, err := s.Definition()
	if err != nil {
		return nil, err
	}
	if err := r.Register(d); err != nil {
		return nil, err
	}
	return d, nil
}

// RegisterAlias binds one more lookup key to the definition named by
// base. Aliases registered here are global: every vector created from
// this registry afterwards sees them.
func (r *Registry) RegisterAlias(base Key, alias Key) (*field.Definition, error) {
	d, err := r.Resolve(base)
	if err != nil {
		return nil, err
	}
	r.byAlias[normalize(alias)] = d
	return d, nil
}

// Resolve returns the definition for an index, a name, or a
// registered alias. Numeric strings fall back to index lookup.
func (r *Registry) Resolve(key Key) (*field.Definition, error) {
	if d, ok := r.byAlias[normalize(key)]; ok {
		return d, nil
	}

	switch k := key.(type) {
	case *field.Definition:
		if k != nil {
			return k, nil
		}
	case int:
		if d, ok := r.byIndex[k]; ok {
			return d, nil
		}
	case string:
		if d, ok := r.byName[strings.ToLower(k)]; ok {
			return d, nil
		}
		// Names are never purely numeric, so retry as an index.
		if idx, err := strconv.Atoi(k); err == nil {
			if d, ok := r.byIndex[idx]; ok {
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %v (%s)", ErrNotFound, key, r.name)
}

// All returns the full catalog in index order, including shadowed
// layers.
func (r *Registry) All() []*field.Definition {
	out := make([]*field.Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Latest returns the newest firmware version any definition bound
// mentions. This is what the "latest" token resolves to.
func (r *Registry) Latest() version.Version {
	var max version.Version
	for _, d := range r.defs {
		max = max.Max(d.Since)
		max = max.Max(d.Until)
	}
	return max
}

// Filter resolves a version token against the catalog and returns the
// applicable definitions in index order.
//
// A concrete version keeps the definitions whose [since, until] range
// contains it. "latest" pins to Latest() first. "unknown" keeps every
// definition regardless of bounds; that is the trial-and-error
// schema, which may contain definitions no single firmware ever
// carried together.
func (r *Registry) Filter(tok version.Token) ([]*field.Definition, error) {
	resolved, err := tok.Resolve(r.Latest())
	if err != nil {
		return nil, err
	}
	if resolved.IsUnknown() {
		return r.All(), nil
	}

	v, _ := resolved.IsConcrete()
	var out []*field.Definition
	for _, d := range r.defs {
		if d.AppliesTo(v) {
			out = append(out, d)
		}
	}
	return out, nil
}

// normalize lower-cases string keys so aliases behave like names.
func normalize(key Key) any {
	if s, ok := key.(string); ok {
		return strings.ToLower(s)
	}
	return key
}
