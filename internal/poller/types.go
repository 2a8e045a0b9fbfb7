// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/rsswitch/internal/encoder"
)

// Command is one mailbox entry picked up by the poller.
type Command struct {
	Sequence uint16
	Request  encoder.Request

	// Err is set when the registers cannot form a request; such a command
	// is acknowledged with its result code and never submitted.
	Err error
}

// PollResult is what one poll cycle produced.
type PollResult struct {
	At time.Time

	// Command is nil when the sequence did not change.
	Command *Command
	Err     error // non-nil means the poll cycle failed
}
