// cmd/heatshi/root.go
package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tamzrod/heatshi/internal/config"
	"github.com/tamzrod/heatshi/internal/registry"
	"github.com/tamzrod/heatshi/internal/session"
	"github.com/tamzrod/heatshi/internal/transport/modbustcp"
	"github.com/tamzrod/heatshi/internal/version"
)

var (
	cfgPath     string
	flagHost    string
	flagVersion string
	flagUnsafe  bool
)

var rootCmd = &cobra.Command{
	Use:   "heatshi",
	Short: "Luxtronik smart-home register client",
	Long: `heatshi talks to the Smart-Home-Interface of a Luxtronik heat pump
controller over Modbus TCP.

Fields are addressed by name or register index and decoded according
to the controller firmware version. Pass --version unknown to probe a
firmware the catalog does not know: every field then travels in its
own telegram and individual failures are tolerated.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&flagHost, "endpoint", "e", "", "Controller address host:port")
	rootCmd.PersistentFlags().StringVarP(&flagVersion, "version-token", "V", "", `Firmware version, "latest" or "unknown"`)
	rootCmd.PersistentFlags().BoolVar(&flagUnsafe, "unsafe", false, "Also transmit writes to unverified fields")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ---- SHARED WIRING ----

// loadConfig merges the optional config file with command-line
// overrides. Flags win.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagHost != "" {
		cfg.Controller.Endpoint = flagHost
	}
	if flagVersion != "" {
		cfg.Controller.Version = flagVersion
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)

	lvl, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(lvl)
	return cfg, nil
}

// registries builds the holdings and inputs catalogs with any ad-hoc
// definitions from the config layered in.
func registries(cfg *config.Config) (*registry.Registry, *registry.Registry, error) {
	holdings := registry.Holdings()
	inputs := registry.Inputs()

	for i, s := range cfg.Definitions.Holdings {
		if _, err := holdings.RegisterSpec(s); err != nil {
			return nil, nil, fmt.Errorf("definitions: holdings[%d]: %w", i, err)
		}
	}
	for i, s := range cfg.Definitions.Inputs {
		if _, err := inputs.RegisterSpec(s); err != nil {
			return nil, nil, fmt.Errorf("definitions: inputs[%d]: %w", i, err)
		}
	}
	return holdings, inputs, nil
}

// connect builds the session over a fresh Modbus TCP transport.
func connect(cfg *config.Config, tok version.Token) (*session.Session, error) {
	tr, err := modbustcp.New(modbustcp.Config{
		Endpoint: cfg.Controller.Endpoint,
		SlaveID:  cfg.Controller.UnitID,
		Timeout:  time.Duration(cfg.Controller.TimeoutMs) * time.Millisecond,
		Settle:   time.Duration(cfg.Controller.SettleMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	return session.New(tr, tok), nil
}

func token(cfg *config.Config) (version.Token, error) {
	return version.ParseToken(cfg.Controller.Version)
}
