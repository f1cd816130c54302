// internal/session/ops.go
package session

import (
	"github.com/tamzrod/heatshi/internal/field"
	"github.com/tamzrod/heatshi/internal/vector"
)

// Convenience operations. Each is "collect exactly this, then send"
// with the same semantics as the explicit protocol. They share the
// pending transaction, so anything collected earlier goes out too.

// ReadHolding reads the given holding fields in one transaction.
func (s *Session) ReadHolding(fs ...*field.Field) Result {
	s.CollectHoldingRead(fs...)
	return s.Send()
}

// ReadInput reads the given input fields in one transaction.
func (s *Session) ReadInput(fs ...*field.Field) Result {
	s.CollectInputRead(fs...)
	return s.Send()
}

// WriteHolding transmits the pending payloads of the given fields.
func (s *Session) WriteHolding(safe bool, fs ...*field.Field) Result {
	s.CollectWrite(safe, fs...)
	return s.Send()
}

// WriteValue stages value on the field and transmits it. Encoding
// errors surface immediately, before any I/O.
func (s *Session) WriteValue(f *field.Field, value any, safe bool) (Result, error) {
	if err := f.Set(value); err != nil {
		return Result{}, err
	}
	return s.WriteHolding(safe, f), nil
}

// ReadAll reads every field of both vectors in one transaction.
func (s *Session) ReadAll(c *vector.Collection) Result {
	s.CollectVectorRead(c.Holdings, false)
	s.CollectVectorRead(c.Inputs, true)
	return s.Send()
}

// WriteAll transmits every pending payload in the holdings vector.
func (s *Session) WriteAll(c *vector.Collection, safe bool) Result {
	s.CollectVectorWrite(c.Holdings, safe)
	return s.Send()
}

// WriteAndReadAll transmits every pending payload and reads both
// vectors back in the same session, so the read-back observes the
// just-written values.
func (s *Session) WriteAndReadAll(c *vector.Collection, safe bool) Result {
	s.CollectVectorWrite(c.Holdings, safe)
	s.CollectVectorRead(c.Holdings, false)
	s.CollectVectorRead(c.Inputs, true)
	return s.Send()
}
