// internal/config/normalize.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/rsswitch/internal/line"
	"github.com/tamzrod/rsswitch/internal/status"
)

// Defaults applied by Normalize.
const (
	DefaultStation       = "rsswitch"
	DefaultRepeat        = 4
	DefaultWaitTimeoutMs = 2000
	DefaultListen        = ":8433"
	DefaultMQTTPrefix    = "rsswitch"
	DefaultModbusTimeout = 1000
	DefaultModbusPoll    = 250
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
// The returned warnings describe values that were replaced rather than rejected.
func Normalize(cfg *Config) []string {
	if cfg == nil {
		return nil
	}
	c := &cfg.RSSwitch
	var warnings []string

	// Normalize station:
	// - ASCII already validated
	// - Truncate to max 16 characters
	if c.Station == "" {
		c.Station = DefaultStation
	}
	if len(c.Station) > status.StationNameMaxChars {
		c.Station = c.Station[:status.StationNameMaxChars]
	}

	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}

	if c.Line.Backend == "" {
		c.Line.Backend = line.BackendPeriph
	}
	switch {
	case c.Line.Pin == 0:
		c.Line.Pin = line.DefaultPin
	case !line.Allowed(c.Line.Pin):
		warnings = append(warnings, fmt.Sprintf(
			"line.pin: %d is not one of %v, using %d", c.Line.Pin, line.AllowedPins(), line.DefaultPin,
		))
		c.Line.Pin = line.DefaultPin
	}

	if c.Transmit.Repeat == 0 {
		c.Transmit.Repeat = DefaultRepeat
	}
	if c.Transmit.Busy == "" {
		c.Transmit.Busy = "wait"
	}
	if c.Transmit.WaitTimeoutMs == 0 {
		c.Transmit.WaitTimeoutMs = DefaultWaitTimeoutMs
	}

	if c.Device != nil {
		if c.Device.Format == "" {
			c.Device.Format = "hex"
		}
	}
	if c.Serial != nil {
		if c.Serial.Format == "" {
			c.Serial.Format = "hex"
		}
		if c.Serial.Baud == 0 {
			c.Serial.Baud = 9600
		}
	}
	if c.HTTP != nil && c.HTTP.Listen == "" {
		c.HTTP.Listen = DefaultListen
	}
	if c.MQTT != nil {
		c.MQTT.Prefix = strings.TrimSuffix(c.MQTT.Prefix, "/")
		if c.MQTT.Prefix == "" {
			c.MQTT.Prefix = DefaultMQTTPrefix
		}
	}
	if c.Modbus != nil {
		if c.Modbus.UnitID == 0 {
			c.Modbus.UnitID = 1
		}
		if c.Modbus.TimeoutMs == 0 {
			c.Modbus.TimeoutMs = DefaultModbusTimeout
		}
		if c.Modbus.IntervalMs == 0 {
			c.Modbus.IntervalMs = DefaultModbusPoll
		}
	}

	return warnings
}
