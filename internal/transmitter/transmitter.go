// internal/transmitter/transmitter.go
package transmitter

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/tamzrod/rsswitch/internal/timing"
	"github.com/tamzrod/rsswitch/internal/waveform"
)

var (
	// ErrBusy is returned under the reject policy while another transmission holds the line.
	ErrBusy = errors.New("transmitter busy")

	// ErrHardwareFault is returned when the line driver fails mid-transmission.
	ErrHardwareFault = errors.New("hardware fault")
)

// Policy decides what a transmit call does while the line is held.
type Policy int

const (
	PolicyWait Policy = iota
	PolicyReject
)

// Config is the minimal runtime config the transmitter needs.
type Config struct {
	Policy  Policy
	Section timing.Section // nil means no critical section
}

// Transmitter serializes pulse trains onto one Pulser.
// States: idle (slot free) and transmitting (slot held).
type Transmitter struct {
	cfg    Config
	pulser Pulser

	slot   chan struct{}
	active atomic.Bool
}

func New(cfg Config, p Pulser) *Transmitter {
	return &Transmitter{
		cfg:    cfg,
		pulser: p,
		slot:   make(chan struct{}, 1),
	}
}

// Busy reports whether a transmission is on the air.
func (t *Transmitter) Busy() bool {
	return t.active.Load()
}

// Transmit sends codeword repeat times, each followed by a sync pulse.
// ctx bounds only the wait for the line; once on the air the transmission
// runs to completion or to the first hardware fault.
func (t *Transmitter) Transmit(ctx context.Context, codeword string, unit time.Duration, repeat int) error {
	if repeat < 1 {
		repeat = 1
	}

	if err := t.acquire(ctx); err != nil {
		return err
	}
	defer t.release()

	frame := waveform.Frame(codeword)
	for i := 0; i < repeat; i++ {
		if err := t.sendFrame(frame, unit); err != nil {
			// best effort; the first fault is what the caller needs
			_ = t.pulser.Idle()
			return pkgerrors.WithMessagef(err, "repetition %d/%d", i+1, repeat)
		}
	}
	return nil
}

func (t *Transmitter) sendFrame(frame []waveform.PulsePair, unit time.Duration) error {
	if t.cfg.Section != nil {
		release := t.cfg.Section.Enter()
		defer release()
	}

	for _, p := range frame {
		if err := t.pulser.Pulse(unit, p); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transmitter) acquire(ctx context.Context) error {
	if t.cfg.Policy == PolicyReject {
		select {
		case t.slot <- struct{}{}:
		default:
			return ErrBusy
		}
	} else {
		select {
		case t.slot <- struct{}{}:
		case <-ctx.Done():
			return pkgerrors.Wrap(ErrBusy, ctx.Err().Error())
		}
	}
	t.active.Store(true)
	return nil
}

func (t *Transmitter) release() {
	t.active.Store(false)
	<-t.slot
}
