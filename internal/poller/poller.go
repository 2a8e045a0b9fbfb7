// internal/poller/poller.go
package poller

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/tamzrod/rsswitch/internal/encoder"
	"github.com/tamzrod/rsswitch/internal/status"
)

// Client abstracts the Modbus read the poller needs.
type Client interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
	Address  uint16 // first register of the command block
}

// Poller is a clock-driven reader of the command block.
// It reports a command each time the sequence register changes.
type Poller struct {
	cfg    Config
	client Client

	primed  bool
	lastSeq uint16
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// PollOnce performs exactly one poll cycle.
// The first successful cycle only records the sequence so a command left
// in the mailbox is not replayed at startup. Sequence 0 means idle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{At: time.Now()}

	regs, err := p.client.ReadHoldingRegisters(p.cfg.Address, status.CommandSlots)
	if err != nil {
		res.Err = err
		return res
	}

	seq := regs[status.SlotSequence]
	if !p.primed {
		p.primed = true
		p.lastSeq = seq
		return res
	}
	if seq == p.lastSeq {
		return res
	}
	p.lastSeq = seq
	if seq == 0 {
		return res
	}

	kind := regs[status.SlotEncoder]
	if kind > math.MaxUint8 {
		res.Command = &Command{
			Sequence: seq,
			Err:      errors.Wrapf(encoder.ErrUnknownEncoder, "encoder register %d", kind),
		}
		return res
	}

	res.Command = &Command{
		Sequence: seq,
		Request: encoder.Request{
			Kind:   encoder.Kind(kind),
			Group:  uint(regs[status.SlotGroup]),
			Socket: uint(regs[status.SlotSocket]),
			Data:   uint(regs[status.SlotData]),
		},
	}
	return res
}
