// internal/field/field.go
package field

import "fmt"

// Field is a live instance of one Definition: the last raw words read
// from the controller plus, independently, a user-supplied pending
// value waiting to be written. Two Fields created from the same
// Definition are fully independent; identity is the instance.
type Field struct {
	def     *Definition
	raw     []uint16 // last read words; nil = never populated
	pending []uint16 // encoded user value; nil = nothing staged
}

// Definition returns the immutable definition this field is bound to.
func (f *Field) Definition() *Definition {
	return f.def
}

// Name returns the canonical definition name.
func (f *Field) Name() string {
	return f.def.Name()
}

// Raw returns the last read register words, or nil when unset.
func (f *Field) Raw() []uint16 {
	return f.raw
}

// SetRaw stores words as the field's read state. Words carrying the
// controller's not-available sentinel clear the field instead: the
// function does not exist on that hardware.
func (f *Field) SetRaw(words []uint16) {
	if len(words) != f.def.Count {
		f.raw = nil
		return
	}
	for _, w := range words {
		if w == NotAvailable {
			f.raw = nil
			return
		}
	}
	f.raw = make([]uint16, len(words))
	copy(f.raw, words)
}

// Clear drops the read state.
func (f *Field) Clear() {
	f.raw = nil
}

// Value decodes the read state into a typed value. ok is false while
// the field has never been populated.
func (f *Field) Value() (v any, ok bool) {
	if f.raw == nil {
		return nil, false
	}
	return decode(f.def, f.raw), true
}

// Unit returns the unit tag of decoded values, or "".
func (f *Field) Unit() string {
	return f.def.Kind.Unit()
}

// Set encodes a user value as the pending write payload. The read
// state is untouched until the write round-trips through a send.
func (f *Field) Set(v any) error {
	words, err := encode(f.def, v)
	if err != nil {
		return err
	}
	if len(words) != f.def.Count {
		return fmt.Errorf("field: %s: encoded %d words, definition spans %d",
			f.def.Name(), len(words), f.def.Count)
	}
	f.pending = words
	return nil
}

// SetRawPending stages raw words for write without going through the
// codec. Word count must match the definition span.
func (f *Field) SetRawPending(words []uint16) error {
	if len(words) != f.def.Count {
		return fmt.Errorf("field: %s: got %d words, definition spans %d",
			f.def.Name(), len(words), f.def.Count)
	}
	f.pending = make([]uint16, len(words))
	copy(f.pending, words)
	return nil
}

// Pending returns the staged write payload, if any.
func (f *Field) Pending() ([]uint16, bool) {
	if f.pending == nil {
		return nil, false
	}
	return f.pending, true
}

// WritePending reports whether a write payload is staged.
func (f *Field) WritePending() bool {
	return f.pending != nil
}

// ClearPending drops the staged write payload. Called after the
// payload has been transmitted.
func (f *Field) ClearPending() {
	f.pending = nil
}

func (f *Field) String() string {
	if v, ok := f.Value(); ok {
		if u := f.Unit(); u != "" {
			return fmt.Sprintf("%s=%v %s", f.Name(), v, u)
		}
		return fmt.Sprintf("%s=%v", f.Name(), v)
	}
	return fmt.Sprintf("%s=<unset>", f.Name())
}
