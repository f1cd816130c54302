// cmd/heatshi/dump.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/heatshi/internal/vector"
)

var (
	dumpHoldingsOnly bool
	dumpInputsOnly   bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Read and print every field the firmware supports",
	Long: `Read every field of both register classes in one transaction and
print them in register order. Fields the controller reports as not
available print as <unset>.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpHoldingsOnly, "holdings", false, "Dump holdings only")
	dumpCmd.Flags().BoolVar(&dumpInputsOnly, "inputs", false, "Dump inputs only")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
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

	c, err := vector.NewCollection(holdings, inputs, tok)
	if err != nil {
		return err
	}

	s, err := connect(cfg, tok)
	if err != nil {
		return err
	}
	if !dumpInputsOnly {
		s.CollectVectorRead(c.Holdings, false)
	}
	if !dumpHoldingsOnly {
		s.CollectVectorRead(c.Inputs, true)
	}
	res := s.Send()

	if !dumpInputsOnly {
		cmd.Println("# holdings")
		printFields(cmd, c.Holdings.Fields())
	}
	if !dumpHoldingsOnly {
		cmd.Println("# inputs")
		printFields(cmd, c.Inputs.Fields())
	}
	return resultErr(res)
}
