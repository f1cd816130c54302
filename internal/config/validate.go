// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/heatshi/internal/version"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg.Controller.Endpoint == "" {
		return fmt.Errorf("controller: endpoint required")
	}
	if cfg.Controller.TimeoutMs < 0 {
		return fmt.Errorf("controller: timeout_ms must be >= 0")
	}
	if cfg.Controller.SettleMs < 0 {
		return fmt.Errorf("controller: settle_ms must be >= 0")
	}

	if cfg.Controller.Version != "" {
		if _, err := version.ParseToken(cfg.Controller.Version); err != nil {
			return fmt.Errorf("controller: version: %w", err)
		}
	}

	// ------------------------------------------------------------
	// AD-HOC DEFINITION VALIDATION
	// ------------------------------------------------------------

	for i, s := range cfg.Definitions.Holdings {
		if _, err := s.Definition(); err != nil {
			return fmt.Errorf("definitions: holdings[%d]: %w", i, err)
		}
	}
	for i, s := range cfg.Definitions.Inputs {
		d, err := s.Definition()
		if err != nil {
			return fmt.Errorf("definitions: inputs[%d]: %w", i, err)
		}
		// Inputs are a read-only register class.
		if d.Writable {
			return fmt.Errorf("definitions: inputs[%d]: %s cannot be writable", i, d.Name())
		}
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}

	return nil
}
