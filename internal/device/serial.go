// internal/device/serial.go
package device

import (
	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// DefaultBaud is used when the config leaves baud at zero.
const DefaultBaud = 9600

// OpenSerial opens port 8N1 at baud.
func OpenSerial(port string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "serial %s", port)
	}
	return p, nil
}
