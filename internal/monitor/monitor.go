// internal/monitor/monitor.go

// Package monitor periodically reads a data vector collection and
// emits value snapshots. It sits on top of the transfer protocol; one
// transaction per cycle, no overlap between cycles.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/tamzrod/heatshi/internal/session"
	"github.com/tamzrod/heatshi/internal/vector"
)

// Config is the minimal runtime config the monitor needs.
type Config struct {
	Interval time.Duration
}

// Snapshot is the outcome of one poll cycle.
type Snapshot struct {
	At time.Time

	// Values maps field name to decoded value for every field that
	// was populated this cycle. Unavailable fields are absent.
	Values map[string]any

	// Failed counts per-field failures in trial-and-error mode.
	Failed int

	Err error // non-nil means the cycle failed
}

// Monitor is a dumb, clock-driven reader.
type Monitor struct {
	cfg  Config
	sess *session.Session
	data *vector.Collection
}

// New creates a monitor with immutable config.
func New(cfg Config, sess *session.Session, data *vector.Collection) (*Monitor, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("monitor: interval must be > 0")
	}
	if sess == nil || data == nil {
		return nil, errors.New("monitor: session and collection required")
	}
	return &Monitor{cfg: cfg, sess: sess, data: data}, nil
}

// PollOnce performs exactly one poll cycle.
func (m *Monitor) PollOnce() Snapshot {
	snap := Snapshot{At: time.Now()}

	res := m.sess.ReadAll(m.data)
	snap.Failed = len(res.Failed)
	if res.Err != nil {
		snap.Err = res.Err
		return snap
	}

	snap.Values = make(map[string]any)
	for _, f := range m.data.Holdings.Fields() {
		if v, ok := f.Value(); ok {
			snap.Values[f.Name()] = v
		}
	}
	for _, f := range m.data.Inputs.Fields() {
		if v, ok := f.Value(); ok {
			snap.Values[f.Name()] = v
		}
	}
	return snap
}

// Run starts the ticker loop and emits a Snapshot per cycle on out.
// No overlap. No retries.
func (m *Monitor) Run(ctx context.Context, out chan<- Snapshot) {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- m.PollOnce():
			case <-ctx.Done():
				return
			}
		}
	}
}
