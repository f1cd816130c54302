// internal/session/session.go

// Package session implements the deferred collect-then-send transfer
// protocol. Callers stage read and write intents without any I/O,
// then commit them all inside one connection session. Staged writes
// go out before staged reads so a read in the same transaction
// observes the value just written.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/heatshi/internal/block"
	"github.com/tamzrod/heatshi/internal/field"
	"github.com/tamzrod/heatshi/internal/vector"
	"github.com/tamzrod/heatshi/internal/version"
)

// Transport performs one telegram: a register-range read or write.
// Open and Close bracket one connection session; all telegrams of one
// Send run inside a single session.
type Transport interface {
	Open() error
	Close() error
	ReadHoldings(addr, qty uint16) ([]uint16, error) // FC 3
	ReadInputs(addr, qty uint16) ([]uint16, error)   // FC 4
	WriteHoldings(addr uint16, words []uint16) error // FC 16
}

// TransportError wraps a failed telegram with its register window.
type TransportError struct {
	Op    string // "read holdings", "read inputs", "write holdings"
	Addr  uint16
	Count int
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("session: %s addr=%d count=%d: %v", e.Op, e.Addr, e.Count, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ---- INTENTS ----

type direction uint8

const (
	readHolding direction = iota
	readInput
	writeHolding
)

// intent is one staged operation. Identity is the field instance per
// direction: re-collecting the same instance for the same direction
// overwrites its earlier intent, while one instance may be staged for
// write and read-back in the same transaction.
type intent struct {
	dir  direction
	f    *field.Field
	safe bool // write gate requested at collect time
}

type stageKey struct {
	f   *field.Field
	dir direction
}

// FieldError records one failed telegram in trial-and-error mode.
type FieldError struct {
	Field *field.Field
	Err   error
}

// Result is the aggregate outcome of one Send.
type Result struct {
	// ID identifies the connection session in logs.
	ID string

	// Ok is true iff no telegram failed.
	Ok bool

	// Rejected lists staged writes dropped by the safe gate. Routine
	// in safe mode, never an error.
	Rejected []*field.Field

	// Failed lists per-field telegram failures in trial-and-error
	// mode. Empty in bundled mode.
	Failed []FieldError

	// Err is the aborting failure in bundled mode, nil otherwise.
	Err error
}

// Session stages intents and commits them. A session is bound to one
// transport and one resolved version token; the token picks the
// transfer strategy once, at construction. Not safe for concurrent
// use without external serialization.
type Session struct {
	transport Transport
	log       *logrus.Entry
	trial     bool // per-field telegrams, fail-soft
	ceiling   int

	staged map[stageKey]int // index into order
	order  []intent
}

// Option adjusts session construction.
type Option func(*Session)

// WithLogger replaces the default logger.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Session) { s.log = l }
}

// WithCeiling overrides the per-block register ceiling.
func WithCeiling(n int) Option {
	return func(s *Session) { s.ceiling = n }
}

// New creates a session over t. A token resolved as "unknown" selects
// trial-and-error mode for the session's whole lifetime: bundling is
// disabled and every field travels in its own telegram.
func New(t Transport, tok version.Token, opts ...Option) *Session {
	s := &Session{
		transport: t,
		log:       logrus.NewEntry(logrus.StandardLogger()),
		trial:     tok.IsUnknown(),
		ceiling:   block.DefaultCeiling,
		staged:    make(map[stageKey]int),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Trial reports whether the session runs in trial-and-error mode.
func (s *Session) Trial() bool {
	return s.trial
}

// Pending returns the number of staged intents.
func (s *Session) Pending() int {
	return len(s.staged)
}

// stage records an intent, overwriting any earlier intent for the
// same field instance and direction. The field moves to the end of
// the collect order so the last collect also wins payload overlap
// resolution.
func (s *Session) stage(in intent) {
	key := stageKey{f: in.f, dir: in.dir}
	if at, ok := s.staged[key]; ok {
		s.order[at].f = nil // tombstone, compacted at send
	}
	s.staged[key] = len(s.order)
	s.order = append(s.order, in)
}

func (s *Session) reset() {
	s.staged = make(map[stageKey]int)
	s.order = nil
}

// ---- COLLECTORS ----

// CollectHoldingRead stages holding-register reads. No I/O occurs.
func (s *Session) CollectHoldingRead(fs ...*field.Field) {
	for _, f := range fs {
		s.stage(intent{dir: readHolding, f: f})
	}
}

// CollectInputRead stages input-register reads. No I/O occurs.
func (s *Session) CollectInputRead(fs ...*field.Field) {
	for _, f := range fs {
		s.stage(intent{dir: readInput, f: f})
	}
}

// CollectWrite stages writes for every given field carrying a pending
// payload; fields without one are skipped. With safe true the
// writable/safe gate applies at send time and dropped fields are
// reported, not failed.
func (s *Session) CollectWrite(safe bool, fs ...*field.Field) {
	for _, f := range fs {
		if !f.WritePending() {
			continue
		}
		s.stage(intent{dir: writeHolding, f: f, safe: safe})
	}
}

// CollectVectorRead stages reads for every field of a holdings or
// inputs vector.
func (s *Session) CollectVectorRead(v *vector.Vector, inputs bool) {
	for _, f := range v.Fields() {
		if inputs {
			s.CollectInputRead(f)
		} else {
			s.CollectHoldingRead(f)
		}
	}
}

// CollectVectorWrite stages writes for every pending-bearing field of
// a holdings vector.
func (s *Session) CollectVectorWrite(v *vector.Vector, safe bool) {
	s.CollectWrite(safe, v.Fields()...)
}

// ---- SEND ----

// Send commits the pending transaction: one connection session,
// writes first in ascending address order, then holding reads, then
// input reads. The pending transaction is cleared on return whatever
// the outcome. An empty Send is a no-op success and opens no
// connection.
func (s *Session) Send() Result {
	res := Result{ID: uuid.NewString(), Ok: true}

	intents := make([]intent, 0, len(s.staged))
	for _, in := range s.order {
		if in.f != nil {
			intents = append(intents, in)
		}
	}
	s.reset()

	if len(intents) == 0 {
		return res
	}

	var writes, holdingReads, inputReads []intent
	for _, in := range intents {
		switch in.dir {
		case writeHolding:
			d := in.f.Definition()
			if in.safe && !(d.Writable && d.Safe) {
				res.Rejected = append(res.Rejected, in.f)
				continue
			}
			writes = append(writes, in)
		case readHolding:
			holdingReads = append(holdingReads, in)
		case readInput:
			inputReads = append(inputReads, in)
		}
	}

	log := s.log.WithFields(logrus.Fields{
		"session": res.ID,
		"writes":  len(writes),
		"reads":   len(holdingReads) + len(inputReads),
	})
	if len(writes)+len(holdingReads)+len(inputReads) == 0 {
		log.Debug("nothing to transfer after safe gate")
		return res
	}

	if err := s.transport.Open(); err != nil {
		res.Ok = false
		res.Err = &TransportError{Op: "open", Err: err}
		log.WithError(err).Error("session open failed")
		return res
	}
	defer s.transport.Close()

	if s.trial {
		s.sendTrial(log, &res, writes, holdingReads, inputReads)
	} else {
		s.sendBundled(log, &res, writes, holdingReads, inputReads)
	}
	return res
}

func parts(intents []intent) []block.Part {
	out := make([]block.Part, 0, len(intents))
	for _, in := range intents {
		out = append(out, block.Part{Def: in.f.Definition(), Field: in.f})
	}
	return out
}

// sendBundled groups each direction into contiguous blocks and sends
// them ascending. The first failing telegram aborts the rest.
func (s *Session) sendBundled(log *logrus.Entry, res *Result, writes, holdingReads, inputReads []intent) {
	for _, b := range block.Build(parts(writes), s.ceiling) {
		if err := s.writeBlock(b); err != nil {
			res.Ok = false
			res.Err = err
			log.WithError(err).Error("write aborted transaction")
			return
		}
	}
	for _, b := range block.Build(parts(holdingReads), s.ceiling) {
		if err := s.readBlock(b, false); err != nil {
			res.Ok = false
			res.Err = err
			log.WithError(err).Error("holding read aborted transaction")
			return
		}
	}
	for _, b := range block.Build(parts(inputReads), s.ceiling) {
		if err := s.readBlock(b, true); err != nil {
			res.Ok = false
			res.Err = err
			log.WithError(err).Error("input read aborted transaction")
			return
		}
	}
	log.Debug("transaction committed")
}

// sendTrial transfers every field in its own telegram and keeps going
// past failures. Deliberately chatty: the firmware is unknown, so
// each field gets its own chance.
func (s *Session) sendTrial(log *logrus.Entry, res *Result, writes, holdingReads, inputReads []intent) {
	attempt := func(in intent, inputs bool) {
		b := single(in)
		var err error
		if in.dir == writeHolding {
			err = s.writeBlock(b)
		} else {
			err = s.readBlock(b, inputs)
		}
		if err != nil {
			res.Ok = false
			res.Failed = append(res.Failed, FieldError{Field: in.f, Err: err})
			log.WithError(err).WithField("field", in.f.Name()).Warn("telegram failed")
		}
	}

	for _, in := range writes {
		attempt(in, false)
	}
	for _, in := range holdingReads {
		attempt(in, false)
	}
	for _, in := range inputReads {
		attempt(in, true)
	}
}

// single builds the one-field block trial mode uses.
func single(in intent) *block.Block {
	bs := block.Build([]block.Part{{Def: in.f.Definition(), Field: in.f}}, 0)
	return bs[0]
}

func (s *Session) writeBlock(b *block.Block) error {
	words, err := b.Assemble()
	if err != nil {
		return err
	}
	if err := s.transport.WriteHoldings(b.Addr(), words); err != nil {
		return &TransportError{Op: "write holdings", Addr: b.Addr(), Count: b.Count(), Err: err}
	}
	for _, p := range b.Parts {
		p.Field.ClearPending()
	}
	return nil
}

func (s *Session) readBlock(b *block.Block, inputs bool) error {
	op := "read holdings"
	read := s.transport.ReadHoldings
	if inputs {
		op = "read inputs"
		read = s.transport.ReadInputs
	}
	words, err := read(b.Addr(), uint16(b.Count()))
	if err != nil {
		return &TransportError{Op: op, Addr: b.Addr(), Count: b.Count(), Err: err}
	}
	if len(words) != b.Count() {
		return &TransportError{Op: op, Addr: b.Addr(), Count: b.Count(),
			Err: errors.New("short register response")}
	}
	return b.Distribute(words)
}
