// Package waveform translates tri-state symbols into pulse pairs.
//
// Durations are expressed in units of the profile pulse length:
//
//	'0'   _     _
//	     | |___| |___      (1,3) (1,3)
//	'1'   ___   ___
//	     |   |_|   |_      (3,1) (3,1)
//	'F'   _     ___
//	     | |___|   |_      (1,3) (3,1)
//	sync  _
//	     | |_______...     (1,31)
package waveform

import "time"

// PulsePair is one high period followed by one low period, in units.
type PulsePair struct {
	High uint
	Low  uint
}

// Duration returns the wall time of p for the given unit.
func (p PulsePair) Duration(unit time.Duration) time.Duration {
	return time.Duration(p.High+p.Low) * unit
}

var (
	short = PulsePair{High: 1, Low: 3}
	long  = PulsePair{High: 3, Low: 1}

	// Sync marks the end of one codeword repetition.
	Sync = PulsePair{High: 1, Low: 31}
)

var symbols = map[byte][2]PulsePair{
	'0': {short, short},
	'1': {long, long},
	'F': {short, long},
}

// Encode returns the two pulse pairs of a tri-state symbol.
// ok is false for anything else; such symbols emit nothing.
func Encode(sym byte) (pairs [2]PulsePair, ok bool) {
	pairs, ok = symbols[sym]
	return pairs, ok
}

// Frame returns the pulse pairs of one repetition: every symbol, then Sync.
func Frame(codeword string) []PulsePair {
	out := make([]PulsePair, 0, 2*len(codeword)+1)
	for i := 0; i < len(codeword); i++ {
		pairs, ok := Encode(codeword[i])
		if !ok {
			continue
		}
		out = append(out, pairs[0], pairs[1])
	}
	return append(out, Sync)
}

// Duration is the wall time of repeat frames of codeword.
func Duration(codeword string, unit time.Duration, repeat int) time.Duration {
	var units uint
	for _, p := range Frame(codeword) {
		units += p.High + p.Low
	}
	return time.Duration(units) * unit * time.Duration(repeat)
}
