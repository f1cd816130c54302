// internal/vector/vector.go

// Package vector holds version-scoped, alias-aware collections of
// live fields. A vector is built once for a resolved firmware
// version; afterwards fields are looked up, populated by reads and
// staged for writes through it.
package vector

import (
	"fmt"
	"strings"

	"github.com/tamzrod/heatshi/internal/block"
	"github.com/tamzrod/heatshi/internal/field"
	"github.com/tamzrod/heatshi/internal/registry"
	"github.com/tamzrod/heatshi/internal/version"
)

// Vector is an ordered collection of fields scoped to one resolved
// version token. At most one Field exists per definition; adding a
// definition twice returns the existing instance. Layered
// definitions at the same index coexist as separate fields, with
// index lookup returning the newest layer.
type Vector struct {
	reg   *registry.Registry
	token version.Token // resolved at construction

	fields []*field.Field
	byDef  map[*field.Definition]*field.Field

	byIndex map[int]*field.Field
	byName  map[string]*field.Field
	byAlias map[registry.Key]*field.Field

	ceiling int
	plan    []*block.Block
	planOK  bool
}

// New builds a vector carrying a field for every definition the
// registry resolves as applicable to the given token.
func New(reg *registry.Registry, tok version.Token) (*Vector, error) {
	v, err := Empty(reg, tok)
	if err != nil {
		return nil, err
	}
	defs, err := reg.Filter(v.token)
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		v.put(d, d.New())
	}
	return v, nil
}

// Empty builds a vector with no fields; callers Add the individual
// fields they care about. Used for minimal-traffic transfers.
func Empty(reg *registry.Registry, tok version.Token) (*Vector, error) {
	resolved, err := tok.Resolve(reg.Latest())
	if err != nil {
		return nil, fmt.Errorf("vector: %s: %w", reg.Name(), err)
	}
	return &Vector{
		reg:     reg,
		token:   resolved,
		byDef:   make(map[*field.Definition]*field.Field),
		byIndex: make(map[int]*field.Field),
		byName:  make(map[string]*field.Field),
		byAlias: make(map[registry.Key]*field.Field),
		ceiling: block.DefaultCeiling,
	}, nil
}

// Name returns the underlying register class name.
func (v *Vector) Name() string {
	return v.reg.Name()
}

// Token returns the resolved version token the vector is scoped to.
func (v *Vector) Token() version.Token {
	return v.token
}

// Len returns the number of carried fields.
func (v *Vector) Len() int {
	return len(v.fields)
}

// Fields returns all carried fields in index order.
func (v *Vector) Fields() []*field.Field {
	out := make([]*field.Field, len(v.fields))
	copy(out, v.fields)
	return out
}

// put wires a field into every lookup table. Assumes defs arrive in
// index order with newer layers later, which both the registry filter
// and Add guarantee.
func (v *Vector) put(d *field.Definition, f *field.Field) {
	v.fields = append(v.fields, f)
	v.byDef[d] = f
	v.byIndex[d.Index] = f
	for _, n := range d.Names {
		v.byName[strings.ToLower(n)] = f
	}
	v.planOK = false
}

// applies reports whether the definition exists under the vector's
// resolved token.
func (v *Vector) applies(d *field.Definition) bool {
	if v.token.IsUnknown() {
		return true
	}
	ver, _ := v.token.IsConcrete()
	return d.AppliesTo(ver)
}

// Add resolves key in the registry and adds a field for it. If the
// vector already carries a field for that definition, the existing
// instance is returned instead of a duplicate. Definitions outside
// the vector's version scope are rejected.
func (v *Vector) Add(key registry.Key) (*field.Field, error) {
	d, err := v.reg.Resolve(key)
	if err != nil {
		return nil, err
	}
	if f, ok := v.byDef[d]; ok {
		return f, nil
	}
	if !v.applies(d) {
		return nil, fmt.Errorf("%w: %s not present on version %s",
			registry.ErrNotFound, d.Name(), v.token)
	}
	f := d.New()
	v.put(d, f)
	return f, nil
}

// Get returns the field for an index, name, local alias, or global
// registry alias.
func (v *Vector) Get(key registry.Key) (*field.Field, error) {
	if f, ok := v.byAlias[normalize(key)]; ok {
		return f, nil
	}

	switch k := key.(type) {
	case *field.Field:
		if k != nil {
			return k, nil
		}
	case int:
		if f, ok := v.byIndex[k]; ok {
			return f, nil
		}
	case string:
		if f, ok := v.byName[strings.ToLower(k)]; ok {
			return f, nil
		}
	}

	// Global aliases live in the registry; map its definition back to
	// our instance.
	d, err := v.reg.Resolve(key)
	if err != nil {
		return nil, err
	}
	if f, ok := v.byDef[d]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %v not carried by this %s vector",
		registry.ErrNotFound, key, v.Name())
}

// RegisterAlias binds a vector-local lookup key to an existing field.
// Unlike a registry alias, it is invisible to other vectors.
func (v *Vector) RegisterAlias(base registry.Key, alias registry.Key) (*field.Field, error) {
	f, err := v.Get(base)
	if err != nil {
		return nil, err
	}
	v.byAlias[normalize(alias)] = f
	return f, nil
}

// Set stages value as the pending write payload of the field key
// resolves to.
func (v *Vector) Set(key registry.Key, value any) error {
	f, err := v.Get(key)
	if err != nil {
		return err
	}
	return f.Set(value)
}

// Value returns the decoded read state of the field key resolves to.
func (v *Vector) Value(key registry.Key) (any, bool, error) {
	f, err := v.Get(key)
	if err != nil {
		return nil, false, err
	}
	val, ok := f.Value()
	return val, ok, nil
}

// Parse distributes a raw register image, starting at index 0,
// into every carried field whose span the image covers.
func (v *Vector) Parse(words []uint16) {
	for _, f := range v.fields {
		d := f.Definition()
		if d.End() > len(words) {
			continue
		}
		f.SetRaw(words[d.Index:d.End()])
	}
}

// ReadPlan returns the read-direction block bundling over all
// carried fields. The plan is cached until the next Add.
func (v *Vector) ReadPlan() []*block.Block {
	if !v.planOK {
		parts := make([]block.Part, 0, len(v.fields))
		for _, f := range v.fields {
			parts = append(parts, block.Part{Def: f.Definition(), Field: f})
		}
		v.plan = block.Build(parts, v.ceiling)
		v.planOK = true
	}
	return v.plan
}

func normalize(key registry.Key) registry.Key {
	if s, ok := key.(string); ok {
		return strings.ToLower(s)
	}
	return key
}
