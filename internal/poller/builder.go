// internal/poller/builder.go
package poller

import (
	"time"

	"github.com/tamzrod/rsswitch/internal/config"
)

// Build constructs a Poller for the mailbox described by m.
// The client is shared with the status writer and owned by the caller.
func Build(m config.Modbus, client Client) (*Poller, error) {
	return New(
		Config{
			Interval: time.Duration(m.IntervalMs) * time.Millisecond,
			Address:  m.CommandAddress,
		},
		client,
	)
}
