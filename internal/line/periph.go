package line

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var hostInit struct {
	once sync.Once
	err  error
}

// Periph drives a GPIO through periph.io.
type Periph struct {
	pin gpio.PinOut
}

// OpenPeriph initializes the host drivers once and claims GPIO<pin>.
func OpenPeriph(pin int) (*Periph, error) {
	hostInit.once.Do(func() {
		_, hostInit.err = host.Init()
	})
	if hostInit.err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "periph host init: %v", hostInit.err)
	}

	name := fmt.Sprintf("GPIO%d", pin)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Wrapf(ErrUnavailable, "%s not found", name)
	}
	return NewPeriph(p)
}

// NewPeriph wraps an already resolved pin and drives it low.
func NewPeriph(p gpio.PinOut) (*Periph, error) {
	if err := p.Out(gpio.Low); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "%s: %v", p, err)
	}
	return &Periph{pin: p}, nil
}

func (l *Periph) SetHigh() error { return l.pin.Out(gpio.High) }

func (l *Periph) SetLow() error { return l.pin.Out(gpio.Low) }

// Close forces the line low and releases it.
func (l *Periph) Close() error {
	lowErr := l.pin.Out(gpio.Low)
	if err := l.pin.Halt(); err != nil {
		return err
	}
	return lowErr
}

func (l *Periph) String() string { return l.pin.String() }
