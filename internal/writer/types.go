// internal/writer/types.go
package writer

import (
	"context"

	"github.com/tamzrod/rsswitch/internal/encoder"
	"github.com/tamzrod/rsswitch/internal/service"
)

// StatusPlan locates the station status block on the mailbox device.
type StatusPlan struct {
	Address uint16 // first register of the block
	Station string // written once per full block
}

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(addr uint16, regs []uint16) error
}

// Submitter is implemented by *service.Service.
type Submitter interface {
	Submit(ctx context.Context, source string, req encoder.Request) (service.Event, error)
}
