// internal/encoder/profile.go
package encoder

import (
	"slices"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// DefaultPulseLength is the base unit of the reference waveform.
const DefaultPulseLength = 350 * time.Microsecond

// Profile is the fixed code catalog of one encoder chip family.
// Profiles are read-only; Lookup returns copies.
type Profile struct {
	Kind Kind
	Name string

	Groups  []string
	Sockets []string
	Data    []string // index 0 = off, 1 = on

	PulseLength time.Duration
}

// ---- built-in profiles ----

var profiles = map[Kind]Profile{
	PT2260: {
		Kind:        PT2260,
		Name:        "PT2260",
		Groups:      []string{"1FFF", "F1FF", "FF1F", "FFF1"},
		Sockets:     []string{"1FF0", "F1F0", "FF10"},
		Data:        []string{"0001", "0010"},
		PulseLength: DefaultPulseLength,
	},
	PT2262: {
		Kind: PT2262,
		Name: "PT2262",
		// A..P in Intertechno numbering
		Groups: []string{
			"FFFF", "0FFF", "F0FF", "00FF",
			"FF0F", "0F0F", "F00F", "000F",
			"FFF0", "0FF0", "F0F0", "00F0",
			"FF00", "0F00", "F000", "0000",
		},
		Sockets:     []string{"F0FF", "FF0F", "FFF0", "FFFF"},
		Data:        []string{"FFF0", "FF0F"},
		PulseLength: DefaultPulseLength,
	},
}

// Lookup returns the profile for kind.
func Lookup(kind Kind) (Profile, error) {
	p, ok := profiles[kind]
	if !ok {
		return Profile{}, errors.Wrapf(ErrUnknownEncoder, "encoder %s", kind)
	}
	return p.clone(), nil
}

// Profiles returns all built-in profiles ordered by kind.
func Profiles() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

func (p Profile) clone() Profile {
	p.Groups = slices.Clone(p.Groups)
	p.Sockets = slices.Clone(p.Sockets)
	p.Data = slices.Clone(p.Data)
	return p
}
