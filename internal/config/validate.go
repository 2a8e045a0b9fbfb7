// internal/config/validate.go
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/tamzrod/rsswitch/internal/status"
)

const MaxRepeat = 16

// Validate checks configuration correctness.
// It performs declarative validation only; zero values mean "use the default".
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: empty")
	}
	c := &cfg.RSSwitch

	// station name sanity (ASCII only)
	for i := 0; i < len(c.Station); i++ {
		if c.Station[i] > 0x7F {
			return fmt.Errorf("station: must contain ASCII characters only")
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format: %q is not console or json", c.Log.Format)
	}

	switch c.Line.Backend {
	case "", "periph", "dryrun":
	default:
		return fmt.Errorf("line.backend: unknown backend %q", c.Line.Backend)
	}

	// ------------------------------------------------------------
	// TRANSMIT POLICY
	// ------------------------------------------------------------

	t := c.Transmit
	if t.Repeat < 0 || t.Repeat > MaxRepeat {
		return fmt.Errorf("transmit.repeat: %d outside 1..%d", t.Repeat, MaxRepeat)
	}
	switch t.Busy {
	case "", "wait", "reject":
	default:
		return fmt.Errorf("transmit.busy: %q is not wait or reject", t.Busy)
	}
	if t.WaitTimeoutMs < 0 {
		return fmt.Errorf("transmit.wait_timeout_ms: must be >= 0")
	}

	// ------------------------------------------------------------
	// INPUTS (OPT-IN)
	// ------------------------------------------------------------

	if c.Device != nil {
		if err := validateFormat("device.format", c.Device.Format); err != nil {
			return err
		}
	}

	if c.Serial != nil {
		if c.Serial.Port == "" {
			return fmt.Errorf("serial.port: required")
		}
		if c.Serial.Baud < 0 {
			return fmt.Errorf("serial.baud: must be > 0")
		}
		if err := validateFormat("serial.format", c.Serial.Format); err != nil {
			return err
		}
	}

	if c.HTTP != nil && c.HTTP.Listen != "" {
		if _, _, err := net.SplitHostPort(c.HTTP.Listen); err != nil {
			return fmt.Errorf("http.listen: %v", err)
		}
	}

	if c.MQTT != nil {
		if c.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker: required")
		}
		if c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos: %d outside 0..2", c.MQTT.QoS)
		}
		if strings.ContainsAny(c.MQTT.Prefix, "+#") {
			return fmt.Errorf("mqtt.prefix: wildcards not allowed")
		}
	}

	if c.Modbus != nil {
		if err := validateModbus(c.Modbus); err != nil {
			return err
		}
	}

	return nil
}

func validateFormat(field, f string) error {
	switch f {
	case "", "hex", "raw":
		return nil
	}
	return fmt.Errorf("%s: %q is not hex or raw", field, f)
}

// ------------------------------------------------------------
// MAILBOX GEOMETRY VALIDATION
// ------------------------------------------------------------

func validateModbus(m *Modbus) error {
	if m.Endpoint == "" {
		return fmt.Errorf("modbus.endpoint: required")
	}
	if m.IntervalMs < 0 || m.TimeoutMs < 0 {
		return fmt.Errorf("modbus: interval_ms and timeout_ms must be >= 0")
	}

	type span struct {
		name       string
		start, end int
	}
	cmd := span{"command", int(m.CommandAddress), int(m.CommandAddress) + status.CommandSlots - 1}
	st := span{"status", int(m.StatusAddress), int(m.StatusAddress) + status.SlotsPerStation - 1}

	for _, s := range []span{cmd, st} {
		if s.end > 0xFFFF {
			return fmt.Errorf("modbus: %s block %d-%d exceeds the register space", s.name, s.start, s.end)
		}
	}

	// overlap check (inclusive)
	if !(cmd.end < st.start || cmd.start > st.end) {
		return fmt.Errorf(
			"modbus: command block %d-%d overlaps status block %d-%d",
			cmd.start, cmd.end, st.start, st.end,
		)
	}
	return nil
}
