// internal/session/session_test.go
package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tamzrod/heatshi/internal/field"
	"github.com/tamzrod/heatshi/internal/registry"
	"github.com/tamzrod/heatshi/internal/vector"
	"github.com/tamzrod/heatshi/internal/version"
)

// fakeTransport persists register state between telegrams and records
// every operation for order assertions.
type fakeTransport struct {
	holdings map[uint16]uint16
	inputs   map[uint16]uint16

	ops      []string
	opened   int
	closed   int
	failAddr map[uint16]error // telegrams starting here fail
}

func newFake() *fakeTransport {
	return &fakeTransport{
		holdings: make(map[uint16]uint16),
		inputs:   make(map[uint16]uint16),
		failAddr: make(map[uint16]error),
	}
}

func (f *fakeTransport) Open() error {
	f.opened++
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed++
	return nil
}

func (f *fakeTransport) ReadHoldings(addr, qty uint16) ([]uint16, error) {
	f.ops = append(f.ops, fmt.Sprintf("RH %d+%d", addr, qty))
	if err := f.failAddr[addr]; err != nil {
		return nil, err
	}
	out := make([]uint16, qty)
	for i := range out {
		out[i] = f.holdings[addr+uint16(i)]
	}
	return out, nil
}

func (f *fakeTransport) ReadInputs(addr, qty uint16) ([]uint16, error) {
	f.ops = append(f.ops, fmt.Sprintf("RI %d+%d", addr, qty))
	if err := f.failAddr[addr]; err != nil {
		return nil, err
	}
	out := make([]uint16, qty)
	for i := range out {
		out[i] = f.inputs[addr+uint16(i)]
	}
	return out, nil
}

func (f *fakeTransport) WriteHoldings(addr uint16, words []uint16) error {
	f.ops = append(f.ops, fmt.Sprintf("WH %d+%d", addr, len(words)))
	if err := f.failAddr[addr]; err != nil {
		return err
	}
	for i, w := range words {
		f.holdings[addr+uint16(i)] = w
	}
	return nil
}

func defAt(index int, writable, safe bool) *field.Definition {
	return &field.Definition{
		Index:    index,
		Count:    1,
		Names:    []string{fmt.Sprintf("f%d", index)},
		Kind:     field.Raw,
		Writable: writable,
		Safe:     safe,
		Since:    version.MustParse("1.0.0"),
	}
}

func latest() version.Token {
	return version.Concrete(version.MustParse("1.0.0"))
}

func TestSendEmptyIsNoop(t *testing.T) {
	tr := newFake()
	s := New(tr, latest())

	res := s.Send()
	if !res.Ok || res.Err != nil {
		t.Fatalf("empty send: %+v", res)
	}
	if tr.opened != 0 {
		t.Fatal("empty send opened a connection")
	}
}

func TestWriteBeforeReadSameSession(t *testing.T) {
	tr := newFake()
	s := New(tr, latest())

	d := defAt(10, true, true)
	f := d.New()
	if err := f.SetRawPending([]uint16{42}); err != nil {
		t.Fatal(err)
	}

	s.CollectWrite(true, f)
	s.CollectHoldingRead(f)
	res := s.Send()
	if !res.Ok {
		t.Fatalf("send: %+v", res)
	}

	// One session, write telegram strictly before the read-back.
	if tr.opened != 1 || tr.closed != 1 {
		t.Fatalf("sessions: open=%d close=%d", tr.opened, tr.closed)
	}
	if len(tr.ops) != 2 || tr.ops[0] != "WH 10010+1" || tr.ops[1] != "RH 10010+1" {
		t.Fatalf("ops = %v", tr.ops)
	}

	v, ok := f.Value()
	if !ok || v.([]uint16)[0] != 42 {
		t.Fatalf("read-back = %v, %v", v, ok)
	}
	if f.WritePending() {
		t.Fatal("pending not cleared after transmit")
	}
}

func TestLastWriteWins(t *testing.T) {
	tr := newFake()
	s := New(tr, latest())

	f := defAt(5, true, true).New()
	f.SetRawPending([]uint16{1})
	s.CollectWrite(true, f)
	f.SetRawPending([]uint16{2})
	s.CollectWrite(true, f)

	if s.Pending() != 1 {
		t.Fatalf("pending intents = %d, want 1", s.Pending())
	}
	res := s.Send()
	if !res.Ok {
		t.Fatalf("send: %+v", res)
	}
	if got := tr.holdings[10005]; got != 2 {
		t.Fatalf("register = %d, want the later value", got)
	}
	if len(tr.ops) != 1 {
		t.Fatalf("ops = %v", tr.ops)
	}
}

func TestSafeGate(t *testing.T) {
	tr := newFake()
	s := New(tr, latest())

	readonly := defAt(1, false, false).New()
	unverified := defAt(2, true, false).New()
	good := defAt(3, true, true).New()
	for _, f := range []*field.Field{readonly, unverified, good} {
		f.SetRawPending([]uint16{9})
	}

	s.CollectWrite(true, readonly, unverified, good)
	res := s.Send()
	if !res.Ok {
		t.Fatalf("send: %+v", res)
	}
	if len(res.Rejected) != 2 {
		t.Fatalf("rejected = %v", res.Rejected)
	}
	// No telegram touches the gated registers.
	if len(tr.ops) != 1 || tr.ops[0] != "WH 10003+1" {
		t.Fatalf("ops = %v", tr.ops)
	}

	// safe=false transmits regardless of classification.
	tr2 := newFake()
	s2 := New(tr2, latest())
	unverified2 := defAt(2, true, false).New()
	unverified2.SetRawPending([]uint16{9})
	s2.CollectWrite(false, unverified2)
	res = s2.Send()
	if !res.Ok || len(res.Rejected) != 0 {
		t.Fatalf("unsafe send: %+v", res)
	}
	if tr2.holdings[10002] != 9 {
		t.Fatal("unsafe write not transmitted")
	}
}

func TestAllRejectedOpensNoConnection(t *testing.T) {
	tr := newFake()
	s := New(tr, latest())

	f := defAt(1, false, false).New()
	f.SetRawPending([]uint16{1})
	s.CollectWrite(true, f)
	res := s.Send()
	if !res.Ok || len(res.Rejected) != 1 {
		t.Fatalf("send: %+v", res)
	}
	if tr.opened != 0 {
		t.Fatal("opened a connection with nothing to transfer")
	}
}

func TestBundledReadsAscendingAndBundled(t *testing.T) {
	tr := newFake()
	tr.inputs[10100] = 7
	tr.inputs[10101] = 8
	tr.inputs[10200] = 9
	s := New(tr, latest())

	a := defAt(101, false, false).New()
	b := defAt(100, false, false).New()
	c := defAt(200, false, false).New()
	s.CollectInputRead(a, b, c)

	res := s.Send()
	if !res.Ok {
		t.Fatalf("send: %+v", res)
	}
	if len(tr.ops) != 2 || tr.ops[0] != "RI 10100+2" || tr.ops[1] != "RI 10200+1" {
		t.Fatalf("ops = %v", tr.ops)
	}
	if v, _ := b.Value(); v.([]uint16)[0] != 7 {
		t.Fatalf("b = %v", v)
	}
	if v, _ := c.Value(); v.([]uint16)[0] != 9 {
		t.Fatalf("c = %v", v)
	}
}

func TestDuplicateInstancesBothDecode(t *testing.T) {
	tr := newFake()
	tr.holdings[10010] = 33
	s := New(tr, latest())

	d := defAt(10, true, true)
	one := d.New()
	two := d.New()
	s.CollectHoldingRead(one, two)

	res := s.Send()
	if !res.Ok {
		t.Fatalf("send: %+v", res)
	}
	v1, ok1 := one.Value()
	v2, ok2 := two.Value()
	if !ok1 || !ok2 {
		t.Fatal("one instance left unset")
	}
	if v1.([]uint16)[0] != 33 || v2.([]uint16)[0] != 33 {
		t.Fatalf("values = %v / %v", v1, v2)
	}
}

func TestBundledAbortsOnFailure(t *testing.T) {
	tr := newFake()
	tr.failAddr[10010] = errors.New("timeout")
	s := New(tr, latest())

	a := defAt(10, false, false).New()
	b := defAt(100, false, false).New()
	s.CollectHoldingRead(a, b)

	res := s.Send()
	if res.Ok || res.Err == nil {
		t.Fatalf("send: %+v", res)
	}
	var te *TransportError
	if !errors.As(res.Err, &te) || te.Addr != 10010 {
		t.Fatalf("err = %v", res.Err)
	}
	// Fail-fast: the second block was never attempted.
	if len(tr.ops) != 1 {
		t.Fatalf("ops = %v", tr.ops)
	}
	if tr.closed != 1 {
		t.Fatal("session not released on failure")
	}
	if s.Pending() != 0 {
		t.Fatal("pending transaction not cleared on failure")
	}
}

func TestTrialModeFailSoft(t *testing.T) {
	tr := newFake()
	tr.inputs[10001] = 1
	tr.inputs[10003] = 3
	tr.failAddr[10002] = errors.New("illegal address")
	s := New(tr, version.Unknown())
	if !s.Trial() {
		t.Fatal("unknown token must select trial mode")
	}

	a := defAt(1, false, false).New()
	bad := defAt(2, false, false).New()
	c := defAt(3, false, false).New()
	s.CollectInputRead(a, bad, c)

	res := s.Send()
	if res.Ok {
		t.Fatal("send reported success despite a failure")
	}
	if len(res.Failed) != 1 || res.Failed[0].Field != bad {
		t.Fatalf("failed = %v", res.Failed)
	}
	// Adjacent fields still travel one telegram each, and the failure
	// does not abort the rest.
	if len(tr.ops) != 3 {
		t.Fatalf("ops = %v", tr.ops)
	}
	if v, ok := a.Value(); !ok || v.([]uint16)[0] != 1 {
		t.Fatalf("a = %v, %v", v, ok)
	}
	if v, ok := c.Value(); !ok || v.([]uint16)[0] != 3 {
		t.Fatalf("c = %v, %v", v, ok)
	}
}

func TestPendingClearedAfterSend(t *testing.T) {
	tr := newFake()
	s := New(tr, latest())

	f := defAt(1, false, false).New()
	s.CollectHoldingRead(f)
	if s.Pending() != 1 {
		t.Fatalf("pending = %d", s.Pending())
	}
	s.Send()
	if s.Pending() != 0 {
		t.Fatalf("pending = %d after send", s.Pending())
	}

	// The next send transfers nothing.
	tr.ops = nil
	res := s.Send()
	if !res.Ok || len(tr.ops) != 0 {
		t.Fatalf("second send: %+v ops=%v", res, tr.ops)
	}
}

func TestConvenienceOps(t *testing.T) {
	holdings := registry.New("holdings")
	holdings.Register(defAt(0, true, true))
	inputs := registry.New("inputs")
	inputs.Register(&field.Definition{
		Index: 100, Count: 1, Names: []string{"temp"}, Kind: field.Raw,
		Since: version.MustParse("1.0.0"),
	})

	c, err := vector.NewCollection(holdings, inputs, latest())
	if err != nil {
		t.Fatalf("collection: %v", err)
	}

	tr := newFake()
	tr.inputs[10100] = 55
	s := New(tr, latest())

	f, _ := c.Holdings.Get(0)
	res, err := s.WriteValue(f, 11, true)
	if err != nil || !res.Ok {
		t.Fatalf("write value: %v %+v", err, res)
	}
	if tr.holdings[10000] != 11 {
		t.Fatalf("register = %d", tr.holdings[10000])
	}

	res = s.ReadAll(c)
	if !res.Ok {
		t.Fatalf("read all: %+v", res)
	}
	if v, ok, _ := c.Inputs.Value("temp"); !ok || v.([]uint16)[0] != 55 {
		t.Fatalf("temp = %v, %v", v, ok)
	}

	f.SetRawPending([]uint16{12})
	res = s.WriteAndReadAll(c, true)
	if !res.Ok {
		t.Fatalf("write and read all: %+v", res)
	}
	if v, _ := f.Value(); v.([]uint16)[0] != 12 {
		t.Fatalf("read-back = %v", v)
	}
}
