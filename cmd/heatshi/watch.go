// cmd/heatshi/watch.go
package main

import (
	"context"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tamzrod/heatshi/internal/monitor"
	"github.com/tamzrod/heatshi/internal/vector"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll all fields on an interval and print changes",
	Long: `Read every field periodically and print values that changed since
the previous cycle. Runs until interrupted.

  heatshi -e 192.168.1.10:502 watch --interval 10s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Poll interval")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	m, err := monitor.New(monitor.Config{Interval: watchInterval}, s, c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := make(chan monitor.Snapshot)
	go m.Run(ctx, out)

	last := make(map[string]any)
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-out:
			if snap.Err != nil {
				logrus.WithError(snap.Err).Warn("poll cycle failed")
				continue
			}
			names := make([]string, 0, len(snap.Values))
			for name := range snap.Values {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				v := snap.Values[name]
				if prev, ok := last[name]; ok && equalValue(prev, v) {
					continue
				}
				last[name] = v
				cmd.Printf("%s %s=%v\n", snap.At.Format(time.RFC3339), name, v)
			}
		}
	}
}

// equalValue compares decoded values; raw word slices compare
// element-wise, everything else by interface equality.
func equalValue(a, b any) bool {
	wa, aok := a.([]uint16)
	wb, bok := b.([]uint16)
	if aok != bok {
		return false
	}
	if !aok {
		return a == b
	}
	if len(wa) != len(wb) {
		return false
	}
	for i := range wa {
		if wa[i] != wb[i] {
			return false
		}
	}
	return true
}
