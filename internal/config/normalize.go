// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Controller.UnitID == 0 {
		cfg.Controller.UnitID = 1
	}
	if cfg.Controller.TimeoutMs == 0 {
		cfg.Controller.TimeoutMs = 5000
	}
	if cfg.Controller.Version == "" {
		cfg.Controller.Version = "latest"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
