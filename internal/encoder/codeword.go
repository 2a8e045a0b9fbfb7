// internal/encoder/codeword.go
package encoder

import (
	"fmt"

	"github.com/pkg/errors"
)

// Codeword is a tri-state string over {0, 1, F}.
type Codeword string

// Request selects one button of one remote.
// It lives for exactly one transmission.
type Request struct {
	Kind   Kind `json:"encoder"`
	Group  uint `json:"group"`
	Socket uint `json:"socket"`
	Data   uint `json:"data"`
}

func (r Request) String() string {
	return fmt.Sprintf("%s g=%d s=%d d=%d", r.Kind, r.Group, r.Socket, r.Data)
}

// Validate checks the indices against the profile tables.
// It MUST run before any hardware action.
func Validate(p Profile, group, socket, data uint) error {
	if group >= uint(len(p.Groups)) {
		return errors.Wrapf(ErrOutOfRange, "%s: group %d (have %d)", p.Name, group, len(p.Groups))
	}
	if socket >= uint(len(p.Sockets)) {
		return errors.Wrapf(ErrOutOfRange, "%s: socket %d (have %d)", p.Name, socket, len(p.Sockets))
	}
	if data >= uint(len(p.Data)) {
		return errors.Wrapf(ErrOutOfRange, "%s: data %d (have %d)", p.Name, data, len(p.Data))
	}
	return nil
}

// Build concatenates group, socket and data codes.
// Indices must already have passed Validate.
func Build(p Profile, group, socket, data uint) Codeword {
	return Codeword(p.Groups[group] + p.Sockets[socket] + p.Data[data])
}

// Encode resolves a request into its profile and codeword.
// No side effects: this is the whole validation stage.
func Encode(r Request) (Profile, Codeword, error) {
	p, err := Lookup(r.Kind)
	if err != nil {
		return Profile{}, "", err
	}
	if err := Validate(p, r.Group, r.Socket, r.Data); err != nil {
		return Profile{}, "", err
	}
	return p, Build(p, r.Group, r.Socket, r.Data), nil
}

// Check reports the first symbol outside {0, 1, F}.
func (c Codeword) Check() error {
	for i := 0; i < len(c); i++ {
		switch c[i] {
		case '0', '1', 'F':
		default:
			return errors.Wrapf(ErrMalformedCodeword, "symbol %q at %d in %q", c[i], i, string(c))
		}
	}
	return nil
}
