// internal/config/config.go
package config

import "github.com/tamzrod/heatshi/internal/registry"

type Config struct {
	Controller  ControllerConfig  `yaml:"controller"`
	Definitions DefinitionsConfig `yaml:"definitions"`
	Log         LogConfig         `yaml:"log"`
}

// ---- CONTROLLER ----

type ControllerConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
	SettleMs  int    `yaml:"settle_ms"`

	// Version is "latest", "unknown" or a concrete firmware version
	// like "3.92.1".
	Version string `yaml:"version"`
}

// ---- AD-HOC DEFINITIONS ----

// DefinitionsConfig layers experimental or undocumented fields into
// the built-in catalogs without code changes.
type DefinitionsConfig struct {
	Holdings []registry.Spec `yaml:"holdings"`
	Inputs   []registry.Spec `yaml:"inputs"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}
