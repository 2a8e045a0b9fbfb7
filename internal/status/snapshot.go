// internal/status/snapshot.go
package status

// Snapshot represents exactly what the status writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	AckSequence    uint16
	LastResultCode uint16
	TransmitCount  uint16
}

// Apply folds one command outcome into s.
// TransmitCount saturates; it MUST NOT wrap.
func (s Snapshot) Apply(seq uint16, err error) Snapshot {
	s.AckSequence = seq
	s.LastResultCode = Code(err)
	if err != nil {
		s.Health = HealthError
		return s
	}
	s.Health = HealthOK
	if s.TransmitCount < 0xFFFF {
		s.TransmitCount++
	}
	return s
}
