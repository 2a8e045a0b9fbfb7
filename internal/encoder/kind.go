// internal/encoder/kind.go
package encoder

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies an encoder chip family.
// The numeric value is the first nibble/byte of a device command.
type Kind uint8

const (
	PT2260 Kind = 0
	PT2262 Kind = 1
)

func (k Kind) String() string {
	switch k {
	case PT2260:
		return "PT2260"
	case PT2262:
		return "PT2262"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind accepts a chip name ("PT2262", case-insensitive) or a decimal kind number.
// A number is accepted even if no profile exists for it; Lookup decides that.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "PT2260":
		return PT2260, nil
	case "PT2262":
		return PT2262, nil
	}

	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, errors.Wrapf(ErrUnknownEncoder, "encoder %q", s)
	}
	return Kind(n), nil
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// UnmarshalJSON accepts both "PT2260" and 0.
func (k *Kind) UnmarshalJSON(b []byte) error {
	var n uint8
	if err := json.Unmarshal(b, &n); err == nil {
		*k = Kind(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(ErrUnknownEncoder, "encoder must be a name or a number")
	}
	return k.UnmarshalText([]byte(s))
}
