// internal/registry/inputs.go
package registry

import (
	"fmt"

	"github.com/tamzrod/heatshi/internal/field"
	"github.com/tamzrod/heatshi/internal/version"
)

// Inputs builds a fresh registry with every known input definition.
// Inputs are the read-only smart-home registers: temperatures, status
// words, energy counters and the firmware version.
func Inputs() *Registry {
	r := New("inputs")
	for _, d := range inputsCatalog() {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

func in(index, count int, kind field.Kind, since string, names ...string) *field.Definition {
	return &field.Definition{
		Index: index,
		Count: count,
		Names: names,
		Kind:  kind,
		Since: version.MustParse(since),
	}
}

// statusBit describes one bit of the heat pump status word at index 0.
func statusBit(bit uint, name string) *field.Definition {
	d := in(0, 1, field.Flag, "3.90.1", name)
	d.Bit = bit
	return d
}

// probeInput is an observed-but-undeciphered register kept in the
// catalog so trial-and-error scans cover it.
func probeInput(index int) *field.Definition {
	return in(index, 1, field.Raw, "3.92.0", fmt.Sprintf("unknown_input_%d", index))
}

func inputsCatalog() []*field.Definition {
	defs := []*field.Definition{
		// Index 0 layers the individual compressor/heater bits under
		// the full status bitmask; the bitmask is registered last and
		// wins index lookups, the bits stay reachable by name.
		statusBit(0, "heatpump_vd1_status"),
		statusBit(1, "heatpump_vd2_status"),
		statusBit(2, "heatpump_zwe1_status"),
		statusBit(3, "heatpump_zwe2_status"),
		statusBit(4, "heatpump_zwe3_status"),
		in(0, 1, field.Bitmask, "3.90.1", "heatpump_status"),

		in(2, 1, field.Enum, "3.90.1", "operation_mode"),
		in(3, 1, field.Enum, "3.90.1", "heating_status"),
		in(4, 1, field.Enum, "3.90.1", "hot_water_status", "dhw_status"),
		in(6, 1, field.Enum, "3.90.1", "cooling_status"),
		in(7, 1, field.Enum, "3.90.1", "pool_heating_status"),

		in(100, 1, field.Celsius, "3.90.1", "return_line_temp"),
		in(101, 1, field.Celsius, "3.90.1", "return_line_target"),
		in(102, 1, field.Celsius, "3.90.1", "return_line_ext"),
		in(103, 1, field.CelsiusSigned, "3.90.1", "return_line_limit"),
		in(104, 1, field.CelsiusSigned, "3.90.1", "return_line_min_target"),
		in(105, 1, field.Celsius, "3.90.1", "flow_line_temp"),
		in(106, 1, field.CelsiusSigned, "3.90.1", "room_temperature"),
		in(107, 1, field.CelsiusSigned, "3.90.1", "heating_limit"),
		in(108, 1, field.CelsiusSigned, "3.90.1", "outside_temp"),
		in(109, 1, field.CelsiusSigned, "3.92.0", "outside_temp_average"),
		in(110, 1, field.CelsiusSigned, "3.92.0", "heat_source_input"),
		in(111, 1, field.CelsiusSigned, "3.92.0", "heat_source_output"),
		in(112, 1, field.Celsius, "3.92.0", "max_flow_temp"),
		probeInput(113),

		in(120, 1, field.CelsiusSigned, "3.90.1", "hot_water_temp", "dhw_temp"),
		in(121, 1, field.Celsius, "3.90.1", "hot_water_target", "dhw_target"),
		in(122, 1, field.CelsiusSigned, "3.90.1", "hot_water_min", "dhw_min"),
		in(123, 1, field.CelsiusSigned, "3.90.1", "hot_water_max", "dhw_max"),
		in(124, 1, field.CelsiusSigned, "3.90.1", "hot_water_limit", "dhw_limit"),

		in(140, 1, field.CelsiusSigned, "3.90.1", "mc1_temp"),
		in(141, 1, field.CelsiusSigned, "3.90.1", "mc1_target"),
		in(142, 1, field.CelsiusSigned, "3.90.1", "mc1_min"),
		in(143, 1, field.CelsiusSigned, "3.90.1", "mc1_max"),
		in(150, 1, field.CelsiusSigned, "3.90.1", "mc2_temp"),
		in(151, 1, field.CelsiusSigned, "3.90.1", "mc2_target"),
		in(152, 1, field.CelsiusSigned, "3.90.1", "mc2_min"),
		in(153, 1, field.CelsiusSigned, "3.90.1", "mc2_max"),
		in(160, 1, field.CelsiusSigned, "3.90.1", "mc3_temp"),
		in(161, 1, field.CelsiusSigned, "3.90.1", "mc3_target"),
		in(162, 1, field.CelsiusSigned, "3.90.1", "mc3_min"),
		in(163, 1, field.CelsiusSigned, "3.90.1", "mc3_max"),

		in(201, 1, field.Errorcode, "3.90.1", "error_number"),
		in(202, 1, field.Enum, "3.90.1", "buffer_type"),
		in(203, 1, field.Minutes, "3.90.1", "min_off_time"),
		in(204, 1, field.Minutes, "3.90.1", "min_run_time"),
		in(205, 1, field.Enum, "3.90.1", "cooling_configured"),
		in(206, 1, field.Enum, "3.90.1", "pool_heating_configured"),
		in(207, 1, field.Enum, "3.90.1", "cooling_release"),

		in(300, 1, field.Power, "3.90.1", "heating_power_actual"),
		in(301, 1, field.Power, "3.90.1", "electric_power_actual"),
		in(302, 1, field.Power, "3.90.1", "electric_power_min_predicted"),

		in(310, 2, field.Energy, "3.90.1", "electric_energy_total"),
		in(312, 2, field.Energy, "3.90.1", "electric_energy_heating"),
		in(314, 2, field.Energy, "3.90.1", "electric_energy_dhw"),
		in(316, 2, field.Energy, "3.90.1", "electric_energy_cooling"),
		in(318, 2, field.Energy, "3.90.1", "electric_energy_pool"),
		in(320, 2, field.Energy, "3.92.0", "thermal_energy_total"),
		in(322, 2, field.Energy, "3.92.0", "thermal_energy_heating"),
		in(324, 2, field.Energy, "3.92.0", "thermal_energy_dhw"),
		in(326, 2, field.Energy, "3.92.0", "thermal_energy_cooling"),
		in(328, 2, field.Energy, "3.92.0", "thermal_energy_pool"),
	}

	for _, idx := range []int{350, 351, 352, 353, 354, 355, 356, 360, 361} {
		defs = append(defs, probeInput(idx))
	}

	defs = append(defs, in(400, 3, field.FirmwareVersion, "3.90.1", "version"))

	for _, idx := range []int{404, 405, 406, 407, 408, 409, 410, 411, 412, 413, 416, 417, 500, 501, 502} {
		defs = append(defs, probeInput(idx))
	}

	return defs
}
