// cmd/heatshi/read.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tamzrod/heatshi/internal/field"
	"github.com/tamzrod/heatshi/internal/registry"
	"github.com/tamzrod/heatshi/internal/session"
	"github.com/tamzrod/heatshi/internal/vector"
)

var readCmd = &cobra.Command{
	Use:   "read <field>...",
	Short: "Read fields by name or register index",
	Long: `Read one or more fields in a single transaction. Adjacent registers
are bundled into one telegram.

Fields are looked up in the holdings catalog first, then in the
inputs catalog. Examples:

  heatshi -e 192.168.1.10:502 read outside_temp hot_water_temp
  heatshi -e 192.168.1.10:502 read 108`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

// argKey turns a CLI argument into a lookup key: numeric arguments
// address registers by index.
func argKey(arg string) registry.Key {
	if idx, err := strconv.Atoi(arg); err == nil {
		return idx
	}
	return arg
}

func runRead(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	holdings, inputs, err := registries(cfg)
	if err != nil {
		return err
	}
	tok, err := token(cfg)
	if err != nil {
		return err
	}

	c, err := vector.EmptyCollection(holdings, inputs, tok)
	if err != nil {
		return err
	}

	var fromHoldings, fromInputs []*field.Field
	for _, arg := range args {
		key := argKey(arg)
		if f, err := c.Holdings.Add(key); err == nil {
			fromHoldings = append(fromHoldings, f)
			continue
		}
		f, err := c.Inputs.Add(key)
		if err != nil {
			return fmt.Errorf("unknown field %q", arg)
		}
		fromInputs = append(fromInputs, f)
	}

	s, err := connect(cfg, tok)
	if err != nil {
		return err
	}
	s.CollectHoldingRead(fromHoldings...)
	s.CollectInputRead(fromInputs...)

	res := s.Send()
	printFields(cmd, append(fromHoldings, fromInputs...))
	return resultErr(res)
}

func printFields(cmd *cobra.Command, fs []*field.Field) {
	for _, f := range fs {
		cmd.Println(f.String())
	}
}

// resultErr folds a transaction result into a command error.
func resultErr(res session.Result) error {
	if res.Ok {
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	return fmt.Errorf("%d telegram(s) failed", len(res.Failed))
}
