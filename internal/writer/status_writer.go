// internal/writer/status_writer.go
package writer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/tamzrod/rsswitch/internal/status"
)

// StatusWriter is the delivery-only contract for station status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// stationStatusWriter writes the status block of this station.
type stationStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
}

// NewStatusWriter builds the status writer for plan.
func NewStatusWriter(plan StatusPlan, cli endpointClient) *stationStatusWriter {
	return &stationStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		last:     status.Snapshot{Health: status.HealthUnknown},
	}
}

// WriteStatus delivers a snapshot into the status block.
// On any write failure, the next call re-asserts the full block.
func (sw *stationStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw.cli == nil {
		return errors.New("status writer: missing client")
	}

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.Address, status.EncodeFull(s, sw.plan.Station)); err != nil {
			return errors.Wrap(err, "status writer: full block write failed")
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []string

	slots := []struct {
		slot int
		name string
		was  *uint16
		now  uint16
	}{
		{status.SlotHealthCode, "health", &sw.last.Health, s.Health},
		{status.SlotAckSequence, "ack_sequence", &sw.last.AckSequence, s.AckSequence},
		{status.SlotLastResultCode, "last_result", &sw.last.LastResultCode, s.LastResultCode},
		{status.SlotTransmitCount, "transmit_count", &sw.last.TransmitCount, s.TransmitCount},
	}
	for _, sl := range slots {
		if *sl.was == sl.now {
			continue
		}
		if err := sw.cli.WriteRegisters(sw.plan.Address+uint16(sl.slot), []uint16{sl.now}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", sl.slot, sl.name, err))
			continue
		}
		*sl.was = sl.now
	}

	if len(errs) > 0 {
		// any partial failure introduces doubt; re-assert on next success
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}
	return nil
}
