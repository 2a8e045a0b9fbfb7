// internal/writer/builder.go
package writer

import (
	cfg "github.com/tamzrod/rsswitch/internal/config"
)

// BuildPlan converts the mailbox config into a status plan.
// Assumes config has already passed validation.
func BuildPlan(m cfg.Modbus, station string) StatusPlan {
	return StatusPlan{
		Address: m.StatusAddress,
		Station: station,
	}
}
