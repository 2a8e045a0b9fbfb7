// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
rsswitch:
  station: garage-remote
  log: { level: debug, format: json }
  line:
    backend: dryrun
    pin: 17
  transmit:
    repeat: 3
    busy: reject
    strict_symbols: true
  device: { path: /tmp/rsswitch, format: raw }
  http: { listen: "127.0.0.1:8433" }
  modbus: { endpoint: "10.0.0.5:502", unit_id: 7, interval_ms: 100, command_address: 0, status_address: 100 }
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsswitch.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate err=%v", err)
	}

	c := cfg.RSSwitch
	if c.Station != "garage-remote" || c.Line.Backend != "dryrun" || c.Line.Pin != 17 {
		t.Fatalf("unexpected top level: %+v", c)
	}
	if c.Transmit.Repeat != 3 || c.Transmit.Busy != "reject" || !c.Transmit.StrictSymbols {
		t.Fatalf("unexpected transmit: %+v", c.Transmit)
	}
	if c.Device == nil || c.Device.Format != "raw" {
		t.Fatalf("unexpected device: %+v", c.Device)
	}
	if c.Serial != nil || c.MQTT != nil {
		t.Fatalf("absent inputs must stay disabled")
	}
	if c.Modbus == nil || c.Modbus.UnitID != 7 || c.Modbus.StatusAddress != 100 {
		t.Fatalf("unexpected modbus: %+v", c.Modbus)
	}
}

func TestParse_UnknownField(t *testing.T) {
	if _, err := Parse([]byte("rsswitch:\n  colour: red\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
