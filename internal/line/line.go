// internal/line/line.go
package line

import (
	"slices"

	"github.com/pkg/errors"
)

// ErrUnavailable is returned when the output line cannot be acquired.
var ErrUnavailable = errors.New("output line unavailable")

// Line is exclusive ownership of one digital output.
// Close MUST leave the line low.
type Line interface {
	SetHigh() error
	SetLow() error
	Close() error
}

// DefaultPin is used when the configured pin is not allowed.
const DefaultPin = 4

// allowedPins lists the BCM pins a 433 MHz sender may be wired to.
var allowedPins = []int{4, 17, 21, 22, 23, 24, 25}

// Allowed reports whether pin is on the allow-list.
func Allowed(pin int) bool {
	return slices.Contains(allowedPins, pin)
}

// AllowedPins returns a copy of the allow-list.
func AllowedPins() []int {
	return slices.Clone(allowedPins)
}

// Backends.
const (
	BackendPeriph = "periph"
	BackendDryRun = "dryrun"
)

// Open acquires pin on the given backend and drives it low.
func Open(backend string, pin int) (Line, error) {
	if !Allowed(pin) {
		return nil, errors.Wrapf(ErrUnavailable, "pin %d not in allow-list %v", pin, allowedPins)
	}

	switch backend {
	case BackendPeriph, "":
		return OpenPeriph(pin)
	case BackendDryRun:
		return newDryRun(pin, dryRunHistory), nil
	default:
		return nil, errors.Wrapf(ErrUnavailable, "unknown backend %q", backend)
	}
}
