// internal/status/code.go
package status

import (
	"errors"

	"github.com/tamzrod/rsswitch/internal/command"
	"github.com/tamzrod/rsswitch/internal/encoder"
	"github.com/tamzrod/rsswitch/internal/line"
	"github.com/tamzrod/rsswitch/internal/transmitter"
)

// Code maps an error to its result code.
// Unknown errors that expose a code are passed through; everything else is ResultGeneric.
func Code(err error) uint16 {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, encoder.ErrUnknownEncoder):
		return ResultUnknownEncoder
	case errors.Is(err, encoder.ErrOutOfRange):
		return ResultOutOfRange
	case errors.Is(err, encoder.ErrMalformedCodeword):
		return ResultMalformedCodeword
	case errors.Is(err, command.ErrMalformed):
		return ResultMalformedCommand
	case errors.Is(err, transmitter.ErrBusy), errors.Is(err, line.ErrUnavailable):
		return ResultResourceUnavailable
	case errors.Is(err, transmitter.ErrHardwareFault):
		return ResultHardwareFault
	}

	type coder interface{ Code() uint16 }
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ResultGeneric
}

// Name is the short label used in logs, metrics and API responses.
func Name(code uint16) string {
	switch code {
	case ResultOK:
		return "ok"
	case ResultUnknownEncoder:
		return "unknown_encoder"
	case ResultOutOfRange:
		return "out_of_range"
	case ResultResourceUnavailable:
		return "resource_unavailable"
	case ResultHardwareFault:
		return "hardware_fault"
	case ResultMalformedCodeword:
		return "malformed_codeword"
	case ResultMalformedCommand:
		return "malformed_command"
	default:
		return "error"
	}
}
