// cmd/heatshi/write.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tamzrod/heatshi/internal/vector"
)

var writeCmd = &cobra.Command{
	Use:   "write <field> <value>",
	Short: "Write one holding field and read it back",
	Long: `Write a value to one holding field. The write and the read-back
travel in the same connection session, so the printed value is what
the controller actually accepted.

Fields not verified as safe to write are dropped unless --unsafe is
given. Examples:

  heatshi -e 192.168.1.10:502 write hot_water_setpoint 52.0
  heatshi -e 192.168.1.10:502 write heating_mode 1 --unsafe`,
	Args: cobra.ExactArgs(2),
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

// parseValue guesses the wire type of a CLI value: bool, integer,
// then float. The field codec rejects mismatches.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "on":
		return true
	case "false", "off":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func runWrite(cmd *cobra.Command, args []string) error {
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
	f, err := c.Holdings.Add(argKey(args[0]))
	if err != nil {
		return fmt.Errorf("unknown holding %q", args[0])
	}
	if err := f.Set(parseValue(args[1])); err != nil {
		return err
	}

	s, err := connect(cfg, tok)
	if err != nil {
		return err
	}
	s.CollectWrite(!flagUnsafe, f)
	s.CollectHoldingRead(f)

	res := s.Send()
	if len(res.Rejected) > 0 {
		return fmt.Errorf("%s is not verified safe to write; pass --unsafe to force", f.Name())
	}
	if err := resultErr(res); err != nil {
		return err
	}
	cmd.Println(f.String())
	return nil
}
