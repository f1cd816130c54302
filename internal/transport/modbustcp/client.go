// internal/transport/modbustcp/client.go

// Package modbustcp adapts a Modbus TCP connection to the register
// transport the transfer protocol consumes. The adapter is
// geometry-only: it moves register windows and never interprets
// their content.
package modbustcp

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Config is the minimal transport config.
type Config struct {
	Endpoint string        // host:port
	SlaveID  uint8         // unit id, usually 1
	Timeout  time.Duration // per-request deadline
	Settle   time.Duration // pause after each write, some firmwares need it
}

// Client is a single TCP connection to one controller. It serializes
// telegrams because the underlying handler is not concurrency-safe.
type Client struct {
	mu      sync.Mutex
	cfg     Config
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// New creates an unconnected client; Open dials.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbustcp: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{cfg: cfg}, nil
}

// Open dials the controller. Open and Close bracket one connection
// session; reopening after Close is supported.
func (c *Client) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handler != nil {
		return errors.New("modbustcp: already open")
	}

	h := modbus.NewTCPClientHandler(c.cfg.Endpoint)
	h.Timeout = c.cfg.Timeout
	h.SlaveId = c.cfg.SlaveID
	if err := h.Connect(); err != nil {
		return err
	}

	c.handler = h
	c.client = modbus.NewClient(h)
	return nil
}

// Close releases the connection. Safe to call when not open.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handler == nil {
		return nil
	}
	err := c.handler.Close()
	c.handler = nil
	c.client = nil
	return err
}

// ReadHoldings reads qty holding registers starting at addr. FC 3.
func (c *Client) ReadHoldings(addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, errors.New("modbustcp: not open")
	}
	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(raw, int(qty))
}

// ReadInputs reads qty input registers starting at addr. FC 4.
func (c *Client) ReadInputs(addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, errors.New("modbustcp: not open")
	}
	raw, err := c.client.ReadInputRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(raw, int(qty))
}

// WriteHoldings writes consecutive holding registers starting at
// addr. FC 16.
func (c *Client) WriteHoldings(addr uint16, words []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return errors.New("modbustcp: not open")
	}
	qty := uint16(len(words))
	if _, err := c.client.WriteMultipleRegisters(addr, qty, packRegisters(words)); err != nil {
		return err
	}
	if c.cfg.Settle > 0 {
		time.Sleep(c.cfg.Settle)
	}
	return nil
}

// ---- helpers (pure geometry) ----

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte, want int) ([]uint16, error) {
	if len(data) != want*2 {
		return nil, fmt.Errorf("modbustcp: got %d payload bytes, want %d", len(data), want*2)
	}
	out := make([]uint16, want)
	for i := range out {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out, nil
}
