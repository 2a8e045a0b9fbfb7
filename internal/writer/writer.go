// internal/writer/writer.go
package writer

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tamzrod/rsswitch/internal/poller"
	"github.com/tamzrod/rsswitch/internal/status"
)

// Source tags requests that arrived through the Modbus mailbox.
const Source = "modbus"

// Mailbox turns poll results into submissions and reports every outcome
// back into the status block.
type Mailbox struct {
	svc    Submitter
	status StatusWriter

	snap status.Snapshot
}

func NewMailbox(svc Submitter, sw StatusWriter) *Mailbox {
	return &Mailbox{svc: svc, status: sw}
}

// Start publishes the boot status (health unknown) so the PLC sees the
// station before the first command.
func (m *Mailbox) Start() error {
	return m.status.WriteStatus(m.snap)
}

// Handle processes one poll result. A failed poll changes nothing.
func (m *Mailbox) Handle(ctx context.Context, res poller.PollResult) error {
	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("mailbox poll failed")
		return res.Err
	}
	if res.Command == nil {
		return nil
	}

	err := res.Command.Err
	if err != nil {
		log.Warn().Err(err).Uint16("sequence", res.Command.Sequence).Msg("mailbox command rejected")
	} else {
		_, err = m.svc.Submit(ctx, Source, res.Command.Request)
	}
	m.snap = m.snap.Apply(res.Command.Sequence, err)

	if err := m.status.WriteStatus(m.snap); err != nil {
		log.Warn().Err(err).Uint16("sequence", res.Command.Sequence).Msg("status write failed")
		return err
	}
	return nil
}

// Snapshot returns the current station status.
func (m *Mailbox) Snapshot() status.Snapshot {
	return m.snap
}
