// internal/registry/holdings.go
package registry

import (
	"github.com/tamzrod/heatshi/internal/field"
	"github.com/tamzrod/heatshi/internal/version"
)

// Holdings builds a fresh registry with every known holding
// definition. Holdings are the writable smart-home registers used to
// steer the heat pump externally.
func Holdings() *Registry {
	r := New("holdings")
	for _, d := range holdingsCatalog() {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// hold describes one writable, verified-safe holding register.
func hold(index int, kind field.Kind, since string, names ...string) *field.Definition {
	return &field.Definition{
		Index:    index,
		Count:    1,
		Names:    names,
		Kind:     kind,
		Writable: true,
		Safe:     true,
		Since:    version.MustParse(since),
	}
}

// unsafeHold describes a writable holding that has not been verified
// safe; safe-mode writes drop it.
func unsafeHold(index int, kind field.Kind, since string, names ...string) *field.Definition {
	d := hold(index, kind, since, names...)
	d.Safe = false
	return d
}

func holdingsCatalog() []*field.Definition {
	return []*field.Definition{
		hold(0, field.Enum, "3.90.1", "heating_mode"),
		hold(1, field.Celsius, "3.90.1", "heating_setpoint"),
		hold(2, field.Kelvin, "3.90.1", "heating_offset"),
		hold(3, field.Enum, "3.92.0", "heating_level"),

		hold(5, field.Enum, "3.90.1", "hot_water_mode", "dhw_mode"),
		hold(6, field.Celsius, "3.90.1", "hot_water_setpoint", "dhw_setpoint"),
		hold(7, field.Kelvin, "3.90.1", "hot_water_offset", "dhw_offset"),
		hold(8, field.Enum, "3.92.0", "hot_water_level", "dhw_level"),

		hold(10, field.Enum, "3.90.1", "mc1_heat_mode"),
		hold(11, field.Celsius, "3.90.1", "mc1_heat_setpoint"),
		hold(12, field.Kelvin, "3.90.1", "mc1_heat_offset"),
		hold(13, field.Enum, "3.92.0", "mc1_heat_level"),
		hold(15, field.Enum, "3.90.1", "mc1_cool_mode"),
		hold(16, field.Celsius, "3.90.1", "mc1_cool_setpoint"),
		hold(17, field.Kelvin, "3.90.1", "mc1_cool_offset"),

		hold(20, field.Enum, "3.90.1", "mc2_heat_mode"),
		hold(21, field.Celsius, "3.90.1", "mc2_heat_setpoint"),
		hold(22, field.Kelvin, "3.90.1", "mc2_heat_offset"),
		hold(23, field.Enum, "3.92.0", "mc2_heat_level"),
		hold(25, field.Enum, "3.90.1", "mc2_cool_mode"),
		hold(26, field.Celsius, "3.90.1", "mc2_cool_setpoint"),
		hold(27, field.Kelvin, "3.90.1", "mc2_cool_offset"),

		hold(30, field.Enum, "3.90.1", "mc3_heat_mode"),
		hold(31, field.Celsius, "3.90.1", "mc3_heat_setpoint"),
		hold(32, field.Kelvin, "3.90.1", "mc3_heat_offset"),
		hold(33, field.Enum, "3.92.0", "mc3_heat_level"),
		hold(35, field.Enum, "3.90.1", "mc3_cool_mode"),
		hold(36, field.Celsius, "3.90.1", "mc3_cool_setpoint"),
		hold(37, field.Kelvin, "3.90.1", "mc3_cool_offset"),

		// Power limitation control is documented but not yet verified
		// against real hardware.
		unsafeHold(40, field.Enum, "3.90.1", "lpc_mode"),
		unsafeHold(41, field.Percent, "3.90.1", "pc_limit"),

		hold(50, field.Enum, "3.92.0", "lock_heating"),
		hold(51, field.Enum, "3.92.0", "lock_hot_water"),
		hold(52, field.Enum, "3.90.1", "lock_cooling"),
		hold(53, field.Enum, "3.90.1", "lock_swimming_pool"),

		{
			Index: 60, Count: 1, Names: []string{"unknown_holding_60"},
			Kind: field.Raw, Since: version.MustParse("3.92.1"),
		},

		hold(65, field.Enum, "3.92.0", "heat_overall_mode"),
		hold(66, field.Kelvin, "3.92.0", "heat_overall_offset"),
		hold(67, field.Enum, "3.92.0", "heat_overall_level"),

		hold(70, field.Enum, "3.92.0", "circulation"),
		hold(71, field.Enum, "3.92.0", "hot_water_extra"),
	}
}
