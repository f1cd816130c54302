// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/tamzrod/heatshi/internal/registry"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heatshi.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidateNormalize(t *testing.T) {
	path := write(t, `
controller:
  endpoint: 192.168.1.10:502
  version: "3.92.1"
  settle_ms: 50
definitions:
  holdings:
    - index: 60
      names: [unknown_holding_60]
      since: "3.92.1"
  inputs:
    - index: 350
      names: [unknown_input_350]
      kind: raw
log:
  level: debug
`)

	cfg, err := Load(path)
	assert.NilError(t, err)
	assert.NilError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, cfg.Controller.Endpoint, "192.168.1.10:502")
	assert.Equal(t, cfg.Controller.Version, "3.92.1")
	assert.Equal(t, cfg.Controller.UnitID, uint8(1))
	assert.Equal(t, cfg.Controller.TimeoutMs, 5000)
	assert.Equal(t, cfg.Controller.SettleMs, 50)
	assert.Equal(t, len(cfg.Definitions.Holdings), 1)
	assert.Equal(t, *cfg.Definitions.Holdings[0].Index, 60)
	assert.Equal(t, cfg.Log.Level, "debug")
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Controller: ControllerConfig{Endpoint: "x:502"}}
	assert.NilError(t, Validate(cfg))
	Normalize(cfg)
	assert.Equal(t, cfg.Controller.Version, "latest")
	assert.Equal(t, cfg.Log.Level, "info")
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing endpoint", Config{}},
		{"negative timeout", Config{Controller: ControllerConfig{Endpoint: "x:502", TimeoutMs: -1}}},
		{"bad version", Config{Controller: ControllerConfig{Endpoint: "x:502", Version: "not.a.version"}}},
		{"bad level", Config{
			Controller: ControllerConfig{Endpoint: "x:502"},
			Log:        LogConfig{Level: "loud"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Assert(t, Validate(&tc.cfg) != nil)
		})
	}
}

func TestValidateSpecErrors(t *testing.T) {
	idx := 100
	cfg := Config{Controller: ControllerConfig{Endpoint: "x:502"}}

	// Spec without names.
	cfg.Definitions.Holdings = []registry.Spec{{Index: &idx}}
	assert.Assert(t, Validate(&cfg) != nil)

	// Writable input.
	cfg.Definitions.Holdings = nil
	cfg.Definitions.Inputs = []registry.Spec{{Index: &idx, Names: []string{"x"}, Writable: true}}
	assert.Assert(t, Validate(&cfg) != nil)
}
