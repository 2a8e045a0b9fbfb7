// internal/transmitter/emitter.go
package transmitter

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tamzrod/rsswitch/internal/line"
	"github.com/tamzrod/rsswitch/internal/timing"
	"github.com/tamzrod/rsswitch/internal/waveform"
)

// Pulser is the waveform primitive the transmitter drives.
type Pulser interface {
	// Pulse drives high for p.High units, then low for p.Low units. It blocks for the full duration.
	Pulse(unit time.Duration, p waveform.PulsePair) error
	// Idle forces the line low.
	Idle() error
}

// Emitter is the Pulser for a real line.
type Emitter struct {
	line line.Line
	wait func(time.Duration)
}

// NewEmitter owns l for its lifetime. A nil wait uses timing.Wait.
func NewEmitter(l line.Line, wait func(time.Duration)) *Emitter {
	if wait == nil {
		wait = timing.Wait
	}
	return &Emitter{line: l, wait: wait}
}

func (e *Emitter) Pulse(unit time.Duration, p waveform.PulsePair) error {
	if err := e.line.SetHigh(); err != nil {
		return errors.Wrapf(ErrHardwareFault, "set high: %v", err)
	}
	e.wait(time.Duration(p.High) * unit)

	if err := e.line.SetLow(); err != nil {
		return errors.Wrapf(ErrHardwareFault, "set low: %v", err)
	}
	e.wait(time.Duration(p.Low) * unit)
	return nil
}

func (e *Emitter) Idle() error {
	if err := e.line.SetLow(); err != nil {
		return errors.Wrapf(ErrHardwareFault, "force low: %v", err)
	}
	return nil
}

// Close forces the line low and releases it.
func (e *Emitter) Close() error {
	return e.line.Close()
}
