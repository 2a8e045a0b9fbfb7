// Package command decodes the 4-field device command: kind, group, socket, data.
package command

import (
	"bufio"
	"bytes"

	"github.com/pkg/errors"

	"github.com/tamzrod/rsswitch/internal/encoder"
)

// ErrMalformed is returned for input that is not a 4-field command.
var ErrMalformed = errors.New("malformed command")

// Size is the number of fields (and hex digits, or raw bytes) in one command.
const Size = 4

// Format selects how a command is written on the wire.
type Format string

const (
	FormatHex Format = "hex" // "0001", one hex digit per field
	FormatRaw Format = "raw" // four bytes, one per field
)

// Decode decodes one token in the given format.
func Decode(f Format, b []byte) (encoder.Request, error) {
	switch f {
	case FormatRaw:
		return DecodeRaw(b)
	default:
		return DecodeHex(b)
	}
}

// DecodeHex decodes exactly four hex digits; a/A..f/F are 10..15.
func DecodeHex(b []byte) (encoder.Request, error) {
	if len(b) != Size {
		return encoder.Request{}, errors.Wrapf(ErrMalformed, "want %d hex digits, got %q", Size, b)
	}

	var v [Size]uint
	for i, ch := range b {
		n, ok := nibble(ch)
		if !ok {
			return encoder.Request{}, errors.Wrapf(ErrMalformed, "only 0-9, a-f and A-F allowed, got %q", b)
		}
		v[i] = n
	}
	return fields(v), nil
}

// DecodeRaw takes four bytes verbatim.
func DecodeRaw(b []byte) (encoder.Request, error) {
	if len(b) != Size {
		return encoder.Request{}, errors.Wrapf(ErrMalformed, "want %d bytes, got %d", Size, len(b))
	}
	return fields([Size]uint{uint(b[0]), uint(b[1]), uint(b[2]), uint(b[3])}), nil
}

// EncodeHex is the inverse of DecodeHex. Fields above 15 cannot be expressed.
func EncodeHex(r encoder.Request) ([]byte, error) {
	const digits = "0123456789abcdef"
	in := [Size]uint{uint(r.Kind), r.Group, r.Socket, r.Data}
	out := make([]byte, Size)
	for i, n := range in {
		if n > 15 {
			return nil, errors.Wrapf(ErrMalformed, "field %d = %d does not fit a hex digit", i, n)
		}
		out[i] = digits[n]
	}
	return out, nil
}

// Split returns a bufio.SplitFunc yielding one command token at a time.
// Hex tokens may be separated by any whitespace (or none); raw tokens are
// fixed 4-byte frames. A trailing partial token at EOF is returned so it can
// be reported as malformed.
func Split(f Format) bufio.SplitFunc {
	if f == FormatRaw {
		return splitFixed
	}
	return splitHex
}

func splitFixed(data []byte, atEOF bool) (int, []byte, error) {
	if len(data) >= Size {
		return Size, data[:Size], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func splitHex(data []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}

	rest := data[start:]
	end := 0
	for end < len(rest) && end < Size && !isSpace(rest[end]) {
		end++
	}

	switch {
	case end == Size:
		return start + Size, rest[:Size], nil
	case end < len(rest):
		// whitespace cut a short token
		return start + end, rest[:end], nil
	case atEOF && end > 0:
		return start + end, rest[:end], nil
	case atEOF:
		return len(data), nil, nil
	default:
		return start, nil, nil
	}
}

func isSpace(b byte) bool {
	return bytes.IndexByte([]byte(" \t\r\n"), b) >= 0
}

func nibble(ch byte) (uint, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return uint(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return uint(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'F':
		return uint(ch-'A') + 10, true
	}
	return 0, false
}

func fields(v [Size]uint) encoder.Request {
	return encoder.Request{
		Kind:   encoder.Kind(v[0]),
		Group:  v[1],
		Socket: v[2],
		Data:   v[3],
	}
}
