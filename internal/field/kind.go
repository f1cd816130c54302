// internal/field/kind.go
package field

import (
	"fmt"
	"math"
)

// NotAvailable is the register value the controller stores in fields
// whose function is not present on the installed hardware. A telegram
// carrying it decodes to "unset", not to a number.
const NotAvailable uint16 = 0xFFFF

// Kind selects how raw register words map to a typed value.
type Kind uint8

const (
	// Raw passes register words through untouched.
	Raw Kind = iota

	// Celsius is an unsigned register in 0.1 °C steps.
	Celsius

	// CelsiusSigned is a signed register in 0.1 °C steps.
	CelsiusSigned

	// Kelvin is a signed temperature offset in 0.1 K steps.
	Kelvin

	// Power is an unsigned register in 0.1 kW steps.
	Power

	// Percent is an unsigned register in 0.1 % steps.
	Percent

	// Minutes is an unsigned register counting whole minutes.
	Minutes

	// Energy spans two registers, MSB first, in 0.1 kWh steps.
	Energy

	// Enum is an unsigned selection code.
	Enum

	// Bitmask is an unsigned word of independent status bits.
	Bitmask

	// Flag is a single bit inside a register; the bit position comes
	// from the definition.
	Flag

	// FirmwareVersion spans three registers encoding major, minor and
	// patch numbers.
	FirmwareVersion

	// Errorcode is an unsigned controller fault code.
	Errorcode
)

var kindNames = map[Kind]string{
	Raw:             "raw",
	Celsius:         "celsius",
	CelsiusSigned:   "celsius_signed",
	Kelvin:          "kelvin",
	Power:           "power",
	Percent:         "percent",
	Minutes:         "minutes",
	Energy:          "energy",
	Enum:            "enum",
	Bitmask:         "bitmask",
	Flag:            "flag",
	FirmwareVersion: "version",
	Errorcode:       "errorcode",
}

var kindUnits = map[Kind]string{
	Celsius:       "°C",
	CelsiusSigned: "°C",
	Kelvin:        "K",
	Power:         "kW",
	Percent:       "%",
	Minutes:       "min",
	Energy:        "kWh",
}

// KindByName maps a configuration name like "celsius" back to a Kind.
func KindByName(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return Raw, fmt.Errorf("field: unknown kind %q", name)
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "raw"
}

// Unit returns the unit tag of decoded values, or "" for unitless kinds.
func (k Kind) Unit() string {
	return kindUnits[k]
}

// scale returns the multiplier applied to the raw integer, and whether
// the raw integer is signed.
func (k Kind) scale() (factor float64, signed bool) {
	switch k {
	case Celsius, Power, Percent, Energy:
		return 0.1, false
	case CelsiusSigned, Kelvin:
		return 0.1, true
	}
	return 1, false
}

// decode converts raw words into the typed value for definition d.
// Callers guarantee len(words) == d.Count.
func decode(d *Definition, words []uint16) any {
	switch d.Kind {
	case Flag:
		return words[0]&(1<<d.Bit) != 0

	case Enum, Bitmask, Errorcode, Minutes:
		return words[0]

	case Celsius, Power, Percent:
		f, _ := d.Kind.scale()
		return float64(words[0]) * f

	case CelsiusSigned, Kelvin:
		f, _ := d.Kind.scale()
		return float64(int16(words[0])) * f

	case Energy:
		raw := uint32(words[0])<<16 | uint32(words[1])
		f, _ := d.Kind.scale()
		return float64(raw) * f

	case FirmwareVersion:
		return fmt.Sprintf("%d.%d.%d", words[0], words[1], words[2])
	}

	out := make([]uint16, len(words))
	copy(out, words)
	return out
}

// encode converts a user value into raw words for definition d.
func encode(d *Definition, v any) ([]uint16, error) {
	switch d.Kind {
	case Flag:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("field: %s wants bool, got %T", d.Name(), v)
		}
		var w uint16
		if b {
			w = 1 << d.Bit
		}
		return []uint16{w}, nil

	case Enum, Bitmask, Errorcode, Minutes, Raw:
		n, err := toUint(v)
		if err != nil {
			return nil, fmt.Errorf("field: %s: %w", d.Name(), err)
		}
		return []uint16{n}, nil

	case Celsius, CelsiusSigned, Kelvin, Power, Percent:
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("field: %s: %w", d.Name(), err)
		}
		factor, signed := d.Kind.scale()
		raw := math.Round(f / factor)
		if signed {
			if raw < math.MinInt16 || raw > math.MaxInt16 {
				return nil, fmt.Errorf("field: %s: value %v out of range", d.Name(), v)
			}
			return []uint16{uint16(int16(raw))}, nil
		}
		if raw < 0 || raw > math.MaxUint16 {
			return nil, fmt.Errorf("field: %s: value %v out of range", d.Name(), v)
		}
		return []uint16{uint16(raw)}, nil

	case Energy:
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("field: %s: %w", d.Name(), err)
		}
		factor, _ := d.Kind.scale()
		raw := math.Round(f / factor)
		if raw < 0 || raw > math.MaxUint32 {
			return nil, fmt.Errorf("field: %s: value %v out of range", d.Name(), v)
		}
		n := uint32(raw)
		return []uint16{uint16(n >> 16), uint16(n)}, nil
	}

	return nil, fmt.Errorf("field: %s is not writable as %s", d.Name(), d.Kind)
}

func toUint(v any) (uint16, error) {
	switch n := v.(type) {
	case uint16:
		return n, nil
	case int:
		if n < 0 || n > math.MaxUint16 {
			return 0, fmt.Errorf("value %d out of register range", n)
		}
		return uint16(n), nil
	case uint:
		if n > math.MaxUint16 {
			return 0, fmt.Errorf("value %d out of register range", n)
		}
		return uint16(n), nil
	case float64:
		if n != math.Trunc(n) || n < 0 || n > math.MaxUint16 {
			return 0, fmt.Errorf("value %v not a register word", n)
		}
		return uint16(n), nil
	}
	return 0, fmt.Errorf("value %T not convertible to a register word", v)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	}
	return 0, fmt.Errorf("value %T not convertible to a number", v)
}
