package encoder

import "errors"

var (
	// ErrUnknownEncoder is returned when no profile exists for the requested kind.
	ErrUnknownEncoder = errors.New("unknown encoder")

	// ErrOutOfRange is returned when a group, socket or data index exceeds the profile tables.
	ErrOutOfRange = errors.New("index out of range")

	// ErrMalformedCodeword is returned in strict mode for codewords containing
	// symbols other than 0, 1 and F.
	ErrMalformedCodeword = errors.New("malformed codeword")
)
