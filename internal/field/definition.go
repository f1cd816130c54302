// internal/field/definition.go
package field

import (
	"fmt"

	"github.com/tamzrod/heatshi/internal/version"
)

// AddrOffset maps a register index to its Modbus address. The
// smart-home register file starts at 10000 for both holdings and
// inputs.
const AddrOffset = 10000

// Definition describes one logical field: its register geometry, how
// its words decode, whether it may be written, and for which firmware
// versions it exists. Definitions are immutable once handed to a
// registry; only the registry's alias table changes afterwards.
type Definition struct {
	// Index is the starting register index (before AddrOffset).
	Index int

	// Count is the number of consecutive registers spanned, >= 1.
	Count int

	// Names holds the canonical name first, historic names after.
	Names []string

	// Kind selects the word codec.
	Kind Kind

	// Bit is the bit position for Flag kinds.
	Bit uint

	// Writable marks fields the controller accepts writes for.
	Writable bool

	// Safe marks writable fields verified safe to write. Unverified
	// fields are dropped from safe-mode write sets.
	Safe bool

	// Since and Until bound the firmware versions the field exists
	// in, inclusive. A zero bound is open on that side.
	Since version.Version
	Until version.Version
}

// Name returns the canonical (preferred) name.
func (d *Definition) Name() string {
	if len(d.Names) == 0 {
		return fmt.Sprintf("register_%d", d.Index)
	}
	return d.Names[0]
}

// Addr returns the wire address of the first register.
func (d *Definition) Addr() uint16 {
	return uint16(AddrOffset + d.Index)
}

// End returns the exclusive end index of the spanned register range.
func (d *Definition) End() int {
	return d.Index + d.Count
}

// AppliesTo reports whether the field exists on firmware version v.
func (d *Definition) AppliesTo(v version.Version) bool {
	return v.InRange(d.Since, d.Until)
}

// Valid reports whether the geometry is usable.
func (d *Definition) Valid() bool {
	return d.Index >= 0 && d.Count >= 1 && len(d.Names) > 0
}

// New creates a live Field bound to this definition. This is the only
// way to obtain a Field, so index/count mismatches cannot occur.
func (d *Definition) New() *Field {
	return &Field{def: d}
}

func (d *Definition) String() string {
	return fmt.Sprintf("%s(index=%d, count=%d, kind=%s)", d.Name(), d.Index, d.Count, d.Kind)
}

// Probe builds an ad-hoc single-register definition for trial-and-error
// access to a register nothing is known about.
func Probe(index int) *Definition {
	return &Definition{
		Index: index,
		Count: 1,
		Names: []string{fmt.Sprintf("unknown_%d", index)},
		Kind:  Raw,
	}
}
