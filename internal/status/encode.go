// internal/status/encode.go
package status

// Encode converts a Snapshot into the live part of the status block (slots 0..3).
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotTransmitCount+1)

	regs[SlotHealthCode] = s.Health
	regs[SlotAckSequence] = s.AckSequence
	regs[SlotLastResultCode] = s.LastResultCode
	regs[SlotTransmitCount] = s.TransmitCount

	return regs
}

// EncodeFull converts a Snapshot plus station name into the complete block.
func EncodeFull(s Snapshot, station string) []uint16 {
	regs := make([]uint16, SlotsPerStation)
	copy(regs, Encode(s))

	// Slots SlotReservedStart..SlotReservedEnd are RESERVED → left as zero
	copy(regs[SlotStationNameStart:], EncodeStationName(station))
	return regs
}

// EncodeStationName packs up to 16 ASCII characters into 8 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeStationName(name string) []uint16 {
	out := make([]uint16, SlotStationNameSlots)

	b := []byte(name)
	if len(b) > StationNameMaxChars {
		b = b[:StationNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < StationNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
